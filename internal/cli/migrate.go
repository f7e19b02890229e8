package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SalonScheduler/internal/config"
	"github.com/m04kA/SMC-SalonScheduler/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-SalonScheduler/pkg/logger"
)

// NewMigrateCommand применяет встроенные миграции схемы
func NewMigrateCommand(root *RootOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				all, err := migrations.List()
				if err != nil {
					return err
				}
				for _, m := range all {
					fmt.Fprintln(cmd.OutOrStdout(), m.Version)
				}
				return nil
			}

			cfg, err := config.Load(root.ConfigPath)
			if err != nil {
				return err
			}

			log := logger.NewWithWriter(os.Stdout, cfg.Logs.Level)

			db, err := openDB(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.Apply(cmd.Context(), db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				log.Info("Schema is up to date")
				return nil
			}
			log.Info("Applied migrations: %s", strings.Join(applied, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print embedded migrations without connecting to the database")

	return cmd
}
