package commands

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/agenda/pkg/auth"
	"github.com/harrisonrobin/agenda/pkg/google"
	"github.com/spf13/cobra"
)

func addAuth(topLevel *cobra.Command, env Env, g *globalOptions) {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar, replacing any stored token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, log, err := g.load(env, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store := auth.Store{Fs: env.Fs, Dir: env.Dir, Log: log}
			if err := store.Reset(); err != nil {
				return err
			}
			if _, err := google.NewClient(ctx, store, cfg.Calendar); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Authenticated, using calendar %q.\n", cfg.Calendar)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
