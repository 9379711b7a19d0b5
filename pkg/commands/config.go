package commands

import (
	"fmt"

	"github.com/harrisonrobin/agenda/pkg/config"
	"github.com/spf13/cobra"
	yaml "go.yaml.in/yaml/v3"
)

func addSetCalendar(topLevel *cobra.Command, env Env, g *globalOptions) {
	cmd := &cobra.Command{
		Use:     "set-calendar NAME",
		Short:   "Set the default Google Calendar.",
		Example: `agenda set-calendar Work`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath(env)
			cfg, err := config.Load(env.Fs, path)
			if err != nil {
				return err
			}
			cfg.Calendar = args[0]
			if err := config.Save(env.Fs, path, cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addConfig(topLevel *cobra.Command, env Env, g *globalOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate and print the effective configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env.Fs, g.configPath(env))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if cfg.CurrentOffset == "" {
				cfg.CurrentOffset = cfg.Offset().String()
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	topLevel.AddCommand(cmd)
}
