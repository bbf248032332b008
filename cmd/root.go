package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/halcyonsec/forge/internal/config"
	"github.com/halcyonsec/forge/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Synthetic SIEM attack data generator",
	Long: `forge fabricates realistic security alert data for SIEM testing.

Build multi-stage attack campaigns with correlated alert chains, seed
baseline noise, and bulk-index everything into OpenSearch so detection
content has something to fire on.`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./forge.yaml or ~/.forge/forge.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json, text")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}

	log = logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
	logging.SetDefault(log)
}
