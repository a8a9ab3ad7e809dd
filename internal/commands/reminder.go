package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

type reminderRow struct {
	models.Reminder
	Label string `json:"label"`
}

func addReminder(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:     "reminder",
		Aliases: []string{"reminders"},
		Short:   "Medication and appointment reminders.",
	}

	cmd.AddCommand(
		newReminderAddCommand(opts),
		newReminderListCommand(opts),
		newReminderLabelCommand(opts),
		newReminderTransitionCommand(opts, "complete", "Mark a reminder as done.", models.ReminderStatusCompleted, (*services.ReminderService).Complete),
		newReminderTransitionCommand(opts, "cancel", "Cancel a reminder.", models.ReminderStatusCancelled, (*services.ReminderService).Cancel),
	)
	topLevel.AddCommand(cmd)
}

func newReminderAddCommand(opts *GlobalOptions) *cobra.Command {
	var kind, date, clock, every string
	var times []string
	var days []int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a reminder.",
		Example: `
femcare reminder add "Folic acid" --time 08:30
femcare reminder add "Iron" --time 09:00 --every daily --times 09:00,21:00
femcare reminder add "Ultrasound" --kind appointment --date 2024-03-14 --time 15:30
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			day, err := parseDay(date, env.location, env.now())
			if err != nil {
				return err
			}

			input := services.ReminderInput{
				UserID: userID,
				Kind:   kind,
				Title:  strings.Join(args, " "),
				Date:   day,
				Time:   clock,
			}
			if strings.TrimSpace(every) != "" {
				input.Recurrence = &models.RecurrenceRule{Frequency: every, Times: times, Days: days}
			}

			return withBackend(cmd.Context(), env, func(b *backend) error {
				reminder, err := services.NewReminderService(b.reminders, env.location).Create(cmd.Context(), input)
				if err != nil {
					return err
				}
				return printReminders(env, opts, []models.Reminder{reminder})
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", models.ReminderKindMedication, "medication or appointment.")
	cmd.Flags().StringVar(&date, "date", "", "First day, YYYY-MM-DD (today by default).")
	cmd.Flags().StringVar(&clock, "time", "", "Time of day, 24-hour HH:MM.")
	cmd.Flags().StringVar(&every, "every", "", "Repeat daily, weekly or monthly.")
	cmd.Flags().StringSliceVar(&times, "times", nil, "Times of day for repeating reminders.")
	cmd.Flags().IntSliceVar(&days, "days", nil, "Weekdays (0-6) or days of month (1-31) for repeating reminders.")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func newReminderListCommand(opts *GlobalOptions) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders of the current user.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				reminders, err := services.NewReminderService(b.reminders, env.location).List(cmd.Context(), userID, status)
				if err != nil {
					return err
				}
				return printReminders(env, opts, reminders)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", models.ReminderStatusActive, "active, completed, cancelled or empty for all.")
	return cmd
}

func newReminderLabelCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "label <YYYY-MM-DD> <HH:MM>",
		Short: "Render the display label of a reminder date and time.",
		Example: `
femcare reminder label 2024-03-13 09:05
femcare reminder label --lang ru 2024-03-14 18:30
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			day, err := parseDay(args[0], env.location, env.now())
			if err != nil {
				return err
			}
			label, err := services.FormatReminderLabelWith(env.reminderLabels(), day, args[1], env.now())
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(map[string]string{"label": label})
			}
			printLine("%s", label)
			return nil
		},
	}
}

type reminderTransition func(service *services.ReminderService, ctx context.Context, userID string, reminderID string) error

func newReminderTransitionCommand(opts *GlobalOptions, use string, short string, status string, transition reminderTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <reminderId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				service := services.NewReminderService(b.reminders, env.location)
				if err := transition(service, cmd.Context(), userID, args[0]); err != nil {
					return err
				}
				printLine("%s %s", args[0], mutedStyle.Sprint(status))
				return nil
			})
		},
	}
}

func printReminders(env *environment, opts *GlobalOptions, reminders []models.Reminder) error {
	labels := env.reminderLabels()
	now := env.now()

	rows := make([]reminderRow, 0, len(reminders))
	for _, reminder := range reminders {
		label, err := services.FormatReminderLabelWith(labels, reminder.Date, reminder.Time, now)
		if err != nil {
			label = alertStyle.Sprintf("invalid time %q", reminder.Time)
		}
		rows = append(rows, reminderRow{Reminder: reminder, Label: label})
	}
	if opts.JSON {
		return printJSON(rows)
	}

	tbl := newTable("ID", "Kind", "Title", "When", "Repeats", "Status")
	for _, row := range rows {
		tbl.AddRow(row.ID, row.Kind, row.Title, row.Label, describeRecurrence(row.Recurrence), row.Status)
	}
	printTable(tbl)
	return nil
}

func describeRecurrence(rule *models.RecurrenceRule) string {
	if rule == nil || rule.Frequency == "" {
		return mutedStyle.Sprint("once")
	}
	parts := []string{rule.Frequency}
	if len(rule.Times) > 0 {
		parts = append(parts, strings.Join(rule.Times, ","))
	}
	if len(rule.Days) > 0 {
		parts = append(parts, fmt.Sprint(rule.Days))
	}
	return strings.Join(parts, " ")
}
