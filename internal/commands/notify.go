package commands

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/services"
)

func addNotify(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Reminder push notifications.",
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Push every reminder that is due now, once.",
		Long:  "Push every reminder that is due now. Needs a service token in FEMCARE_BAAS_TOKEN; without FEMCARE_FIREBASE_CREDENTIALS notifications are only logged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			pusher, err := newPusher(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			return withBackend(cmd.Context(), env, func(b *backend) error {
				notifier := services.NewReminderNotifier(b.reminders, b.users, pusher, env.location, env.cfg.ReminderSchedule)
				sent := notifier.Run(cmd.Context())
				if opts.JSON {
					return printJSON(map[string]int{"sent": sent})
				}
				printLine("sent %d reminder notification(s)", sent)
				return nil
			})
		},
	}

	cmd.AddCommand(run)
	topLevel.AddCommand(cmd)
}
