package commands

import (
	"context"
	"fmt"
	"olasagents-backend/cmd/registry-cli/globals"
	"olasagents-backend/lib/serviceutil"
	"olasagents-backend/lib/telemetry"
	"olasagents-backend/services/registry"
	"os"

	"github.com/spf13/cobra"
)

const defaultConfigName = "registry.json5"

var (
	configPath string
	verbose    bool
	closers    []func()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file, registry.json5 is searched for upwards from the cwd when unset.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging and dump ipfs requests to the dev state directory.")
}

var rootCmd = &cobra.Command{
	Use:   "registry-cli",
	Short: "registry-cli scrapes the Olas agent registry and searches the scraped agents.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		telemetry.InitSlog(verbose)
		closers = append(closers, initTelemetry(ctx))

		cfg, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		service, closeService, err := initRegistry(ctx, cfg, verbose)
		if err != nil {
			serviceutil.Fatal("failed to initialize registry", err)
		}
		closers = append(closers, closeService)

		err = service.Load(ctx)
		if err != nil {
			serviceutil.Fatal("failed to load agent store", err)
		}

		cmd.SetContext(globals.Set(ctx, &globals.Value{
			Config:   cfg,
			Registry: service,
			Verbose:  verbose,
		}))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	},
}

func readConfig() (registry.Config, error) {
	if configPath != "" {
		return registry.LoadConfig(configPath)
	}
	return registry.ReadConfig(defaultConfigName)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
