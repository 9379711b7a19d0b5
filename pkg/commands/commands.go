// Package commands is the agenda command line.
package commands

import (
	"io"

	"github.com/harrisonrobin/agenda/pkg/config"
	"github.com/harrisonrobin/agenda/pkg/logx"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Env is what the commands touch outside the process.
type Env struct {
	Fs afero.Fs
	// Dir holds config.yaml, credentials, token and the color cache.
	Dir string
	// TaskBinary is the taskwarrior executable.
	TaskBinary string
}

func DefaultEnv() (Env, error) {
	dir, err := config.Dir()
	if err != nil {
		return Env{}, err
	}
	return Env{Fs: afero.NewOsFs(), Dir: dir, TaskBinary: "task"}, nil
}

type globalOptions struct {
	ConfigPath string
	LogLevel   string
}

func New() *cobra.Command {
	env, err := DefaultEnv()
	if err != nil {
		env = Env{Fs: afero.NewOsFs(), Dir: ".", TaskBinary: "task"}
	}
	return NewWithEnv(env)
}

func NewWithEnv(env Env) *cobra.Command {
	g := &globalOptions{}
	so := &showOptions{}

	cmd := &cobra.Command{
		Use:          "agenda",
		Short:        "Lay out your tasks around your calendar.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, env, g, so)
		},
	}
	cmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "Path to config.yaml (default ~/.config/agenda/config.yaml).")
	cmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "debug, info, warn or error (overrides config).")
	addShowFlags(cmd, so)

	AddCommands(cmd, env, g)
	return cmd
}

func AddCommands(topLevel *cobra.Command, env Env, g *globalOptions) {
	addShow(topLevel, env, g)
	addAuth(topLevel, env, g)
	addSetCalendar(topLevel, env, g)
	addConfig(topLevel, env, g)
}

func (g *globalOptions) configPath(env Env) string {
	if g.ConfigPath != "" {
		return g.ConfigPath
	}
	return config.Path(env.Dir)
}

// load reads the config and builds the logger it asks for.
func (g *globalOptions) load(env Env, errOut io.Writer) (*config.Config, logx.Logger, error) {
	cfg, err := config.Load(env.Fs, g.configPath(env))
	if err != nil {
		return nil, logx.Nop(), err
	}
	level := cfg.LogLevel
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	return cfg, logx.NewConsole(errOut, level), nil
}
