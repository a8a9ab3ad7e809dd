package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

type pregnancyChange func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error)

func addPregnancy(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "pregnancy",
		Short: "Pregnancy journal: due date, symptoms, appointments, weight, kicks, checklist and memories.",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the pregnancy journal.",
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
				state, err := services.NewPregnancyService(b.pregnancies, env.location).Load(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(state)
				}
				printPregnancy(env, state)
				return nil
			})
		},
	}

	cmd.AddCommand(
		show,
		newPregnancySetupCommand(opts),
		newPregnancySymptomCommand(opts),
		newPregnancyAppointmentCommand(opts),
		newPregnancyWeightCommand(opts),
		newPregnancyKicksCommand(opts),
		newPregnancyChecklistCommand(opts),
		newPregnancyMemoryCommand(opts),
	)
	topLevel.AddCommand(cmd)
}

func runPregnancyChange(cmd *cobra.Command, opts *GlobalOptions, change pregnancyChange) error {
	env, err := opts.load()
	if err != nil {
		return err
	}
	userID, err := env.requireUser()
	if err != nil {
		return err
	}
	return withBackend(cmd.Context(), env, func(b *backend) error {
		data, err := change(cmd.Context(), services.NewPregnancyService(b.pregnancies, env.location), userID, env)
		if err != nil {
			return err
		}
		state := services.PregnancyState{Data: data, Exists: true}
		if opts.JSON {
			return printJSON(state)
		}
		printPregnancy(env, state)
		return nil
	})
}

func newPregnancySetupCommand(opts *GlobalOptions) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "setup <lmp YYYY-MM-DD>",
		Short: "Record the last menstrual period; the due date is derived unless --due is set.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				lmp, err := parseDay(args[0], env.location, env.now())
				if err != nil {
					return models.PregnancyData{}, err
				}
				var dueDate *time.Time
				if strings.TrimSpace(due) != "" {
					parsed, err := parseDay(due, env.location, env.now())
					if err != nil {
						return models.PregnancyData{}, err
					}
					dueDate = &parsed
				}
				return service.Setup(ctx, userID, lmp, dueDate)
			})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date given by the clinic, YYYY-MM-DD.")
	return cmd
}

func newPregnancySymptomCommand(opts *GlobalOptions) *cobra.Command {
	var severity int
	var notes string
	cmd := &cobra.Command{
		Use:   "symptom <name>",
		Short: "Log a symptom with severity 0-5.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				return service.AddSymptom(ctx, userID, models.PregnancySymptom{
					Name:     strings.Join(args, " "),
					Severity: severity,
					Notes:    notes,
					LoggedAt: env.now(),
				})
			})
		},
	}
	cmd.Flags().IntVar(&severity, "severity", 1, "Severity from 0 to 5.")
	cmd.Flags().StringVar(&notes, "notes", "", "Free text notes.")
	return cmd
}

func newPregnancyAppointmentCommand(opts *GlobalOptions) *cobra.Command {
	var at, place, notes string
	cmd := &cobra.Command{
		Use:   "appointment <title>",
		Short: "Add a prenatal appointment.",
		Example: `
femcare pregnancy appointment "Second trimester scan" --at "2024-05-02 10:30" --location "City clinic"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				moment, err := parseMoment(at, env.location)
				if err != nil {
					return models.PregnancyData{}, err
				}
				return service.AddAppointment(ctx, userID, models.PregnancyAppointment{
					Title:    strings.Join(args, " "),
					Location: place,
					At:       moment,
					Notes:    notes,
				})
			})
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Date and time, \"YYYY-MM-DD HH:MM\".")
	cmd.Flags().StringVar(&place, "location", "", "Where the appointment takes place.")
	cmd.Flags().StringVar(&notes, "notes", "", "Free text notes.")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newPregnancyWeightCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "weight <kg>",
		Short: "Log body weight in kilograms.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kilograms, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q", args[0])
			}
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				return service.AddWeightEntry(ctx, userID, models.WeightEntry{Kilograms: kilograms, LoggedAt: env.now()})
			})
		},
	}
}

func newPregnancyKicksCommand(opts *GlobalOptions) *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "kicks <count>",
		Short: "Log a kick counting session that ended now.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid kick count %q", args[0])
			}
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				now := env.now()
				return service.AddKickCount(ctx, userID, models.KickCount{Count: count, StartedAt: now.Add(-duration), Duration: duration})
			})
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", time.Hour, "Length of the session.")
	return cmd
}

func newPregnancyChecklistCommand(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Preparation checklist.",
	}

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a checklist item.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				return service.AddChecklistItem(ctx, userID, strings.Join(args, " "))
			})
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <itemId>",
		Short: "Flip the done state of a checklist item.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				return service.ToggleChecklistItem(ctx, userID, args[0])
			})
		},
	}

	cmd.AddCommand(add, toggle)
	return cmd
}

func newPregnancyMemoryCommand(opts *GlobalOptions) *cobra.Command {
	var body, photo string
	cmd := &cobra.Command{
		Use:   "memory <title>",
		Short: "Keep a memory with optional text and photo link.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPregnancyChange(cmd, opts, func(ctx context.Context, service *services.PregnancyService, userID string, env *environment) (models.PregnancyData, error) {
				return service.AddMemory(ctx, userID, models.Memory{
					Title:    strings.Join(args, " "),
					Body:     body,
					PhotoURL: photo,
					TakenAt:  env.now(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "Text of the memory.")
	cmd.Flags().StringVar(&photo, "photo", "", "Photo URL.")
	return cmd
}

func printPregnancy(env *environment, state services.PregnancyState) {
	data := state.Data
	if !state.Exists || data.LastMenstrualPeriod == nil {
		printLine("%s", mutedStyle.Sprint(env.t("pregnancy.none")))
		if !state.Exists {
			return
		}
	} else {
		weeks, days := services.GestationalAge(*data.LastMenstrualPeriod, env.now())
		printTitle(env.messages.Translatef(env.language, "pregnancy.week", weeks, days))
		if data.DueDate != nil {
			printLine("Due %s", data.DueDate.Format("2006-01-02"))
		}
	}

	summary := newTable("", "")
	summary.AddRow("Symptoms", len(data.Symptoms))
	summary.AddRow("Appointments", len(data.Appointments))
	summary.AddRow("Weight entries", len(data.WeightEntries))
	summary.AddRow("Kick sessions", len(data.KickCounts))
	summary.AddRow("Memories", len(data.Memories))
	printTable(summary)

	if len(data.Appointments) > 0 {
		tbl := newTable("Appointment", "At", "Location")
		for _, appointment := range data.Appointments {
			tbl.AddRow(appointment.Title, shortTime(appointment.At.In(env.location)), appointment.Location)
		}
		printTable(tbl)
	}

	if len(data.Checklist) > 0 {
		tbl := newTable("", "Checklist", "ID")
		for _, item := range data.Checklist {
			mark := "[ ]"
			if item.Done {
				mark = accentStyle.Sprint("[x]")
			}
			tbl.AddRow(mark, item.Title, mutedStyle.Sprint(item.ID))
		}
		printTable(tbl)
	}
}
