package service

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/PrefaceCoding/BlogCloneProject/app/config"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// RootOptions holds global flags and the state they produce.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string

	Config *config.Config
	Logger *logrus.Logger
}

// NewRootCommand creates the root command for the blog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(logrus.StandardLogger())
}

func newRootCommand(logger *logrus.Logger) *cobra.Command {
	opts := &RootOptions{Logger: logger}

	cmd := &cobra.Command{
		Use:           "blogclone",
		Short:         "A small blog with posts, drafts and moderated comments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath, "path to TOML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", config.DefaultEnvFile, "path to .env file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log", "", "log level: debug, info, warn, error")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewCleanCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))
	cmd.AddCommand(NewCreateUserCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (o *RootOptions) load() error {
	cfg, err := config.Load(o.ConfigPath, o.EnvFile)
	if err != nil {
		return err
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Log.Apply(o.Logger); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	o.Config = cfg
	return nil
}

// NewVersionCommand prints the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogclone %s\n", Version)
		},
	}
}
