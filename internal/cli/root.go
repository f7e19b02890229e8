package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions общие флаги всех команд
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand корневая команда salon-scheduler
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "salon-scheduler",
		Short:         "Salon appointment scheduling service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.toml", "path to config.toml")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
