package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

var errCacheUnavailable = errors.New("view cache is not available")

func addCache(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline view cache.",
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached view.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			store := openViewCache(env.cfg)
			if store == nil {
				return errCacheUnavailable
			}
			if err := store.EraseAll(); err != nil {
				return err
			}
			printLine("view cache cleared")
			return nil
		},
	}

	cmd.AddCommand(clearCmd)
	topLevel.AddCommand(cmd)
}
