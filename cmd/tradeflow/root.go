package main

import (
	"github.com/spf13/cobra"

	"github.com/tradeflowhq/tradeflow/config"
	"github.com/tradeflowhq/tradeflow/logger"
)

const serviceName = "tradeflow"

var (
	configFile string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:          serviceName,
	Short:        "Market analysis pipeline orchestrator",
	Long:         "tradeflow runs a graph of market-analysis units in dependency order\nand serves the results over HTTP.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config.yml (default: search ., ./config, /etc/tradeflow)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to .env file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves, loads, defaults, and validates the app config,
// then initializes the global logger from it.
func loadConfig() (*Config, error) {
	cfg := &Config{}
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging)
	return cfg, nil
}
