package commands

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/emulator"
)

func addToken(topLevel *cobra.Command, opts *GlobalOptions) {
	var service bool
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <userId>",
		Short: "Issue a bearer token for the emulator.",
		Example: `
femcare token user-1
femcare token notifier --service --ttl 720h
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			secret, err := emulator.ResolveSecretKey(env.cfg.SecretKey)
			if err != nil {
				return err
			}

			role := emulator.RoleUser
			if service {
				role = emulator.RoleService
			}
			token, err := emulator.IssueToken([]byte(secret), args[0], role, ttl)
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(map[string]string{"token": token, "role": role})
			}
			printLine("%s", token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&service, "service", false, "Issue a service token that may act for any user.")
	cmd.Flags().DurationVar(&ttl, "ttl", emulator.DefaultTokenTTL, "Token lifetime.")
	topLevel.AddCommand(cmd)
}
