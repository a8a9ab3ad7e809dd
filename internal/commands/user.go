package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/models"
)

func addUser(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show or register the current user profile.",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current user profile.",
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
				user, err := b.users.FindUser(cmd.Context(), userID)
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(user)
				}
				printUser(user)
				return nil
			})
		},
	}

	var displayName, language, deviceToken string
	save := &cobra.Command{
		Use:   "save",
		Short: "Create or replace the current user profile.",
		Example: `
femcare user save --user user-1 --name Anna --language ru
`,
		Args: cobra.NoArgs,
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
				user := models.User{
					ID:          userID,
					DisplayName: displayName,
					DeviceToken: deviceToken,
					Language:    env.messages.DetectFromLocale(language, os.Getenv("LC_ALL"), os.Getenv("LANG")),
				}
				if err := b.client.SaveUser(cmd.Context(), &user); err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(user)
				}
				printUser(user)
				return nil
			})
		},
	}
	save.Flags().StringVar(&displayName, "name", "", "Display name.")
	save.Flags().StringVar(&language, "language", "", "Preferred language, LC_ALL or LANG when empty.")
	save.Flags().StringVar(&deviceToken, "device-token", "", "Push device token.")

	device := &cobra.Command{
		Use:   "device-token <token>",
		Short: "Register the push device token of the current user.",
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
				return b.client.UpdateDeviceToken(cmd.Context(), userID, args[0])
			})
		},
	}

	cmd.AddCommand(show, save, device)
	topLevel.AddCommand(cmd)
}

func printUser(user models.User) {
	tbl := newTable("ID", "Name", "Language", "Push")
	push := mutedStyle.Sprint("off")
	if user.DeviceToken != "" {
		push = "on"
	}
	tbl.AddRow(user.ID, user.DisplayName, user.Language, push)
	printTable(tbl)
}
