package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sovereign/internal/platform/config"
	"sovereign/internal/storage/postgres"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run the postgres store migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.Up), string(postgres.Down), string(postgres.Status)},
		PreRunE:   loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg.Storage.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations apply to the postgres driver, configured driver is %q", cfg.Storage.Driver)
			}
			log, err := commonRun(cfg)
			if err != nil {
				return err
			}
			dir := postgres.Up
			if len(args) == 1 {
				dir = postgres.Direction(args[0])
			}
			return postgres.Migrate(cmd.Context(), log, cfg.Storage.PostgresDSN, dir)
		},
	}
}
