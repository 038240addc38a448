// Command sovereignd serves the sovereign lifecycle API.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"sovereign/internal/platform/config"
	"sovereign/internal/platform/logger"
)

const programName = "sovereignd"

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var globalFlags = struct {
	configFile string
	envFile    string
	debug      bool
}{}

// commonRun builds the process logger from the loaded configuration and
// sizes GOMAXPROCS to the container quota.
func commonRun(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	log := logger.New(os.Stdout, level, cfg.Log.Format)
	slog.SetDefault(log)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		log.Info(fmt.Sprintf(format, v...), "component", programName)
	})); err != nil {
		return nil, err
	}
	log.Info("starting", "version", version, "commit", commit, "component", programName)
	return log, nil
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(globalFlags.configFile, globalFlags.envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cmd.SetContext(config.WithContext(cmd.Context(), cfg))
	return nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           programName,
		Short:         "Sovereign fundraising and liquidity lifecycle daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&globalFlags.configFile, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&globalFlags.envFile, "env-file", ".env", "path to .env file, ignored when missing")
	root.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	root.AddCommand(serveCommand())
	root.AddCommand(migrateCommand())
	root.AddCommand(tokenCommand())
	root.AddCommand(versionCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
