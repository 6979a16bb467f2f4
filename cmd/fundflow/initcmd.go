package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/storage"
)

var initForce bool

// configTemplate is the commented starter config written by init
const configTemplate = `# FundFlow configuration. Every key can also be set via FUNDFLOW_* env vars,
# e.g. FUNDFLOW_SOURCES_CAPITAL_APIKEY.
dataDir: .fundflow

sources:
  timeoutMs: 10000
  capital:
    baseUrl: https://api.cryptorank.io/v1
    secondaryBaseUrl: https://api.coingecko.com/api/v3
    apiKey: ""
  code:
    baseUrl: https://api.github.com
    token: ""
  usage:
    baseUrl: https://api.llama.fi
  news:
    baseUrl: https://newsapi.org/v2
    apiKey: ""
  social:
    baseUrl: https://api.twitter.com/2
    bearerToken: ""

discovery:
  searchDelayMs: 1000
  minTermLength: 3
  crawlDepth: 1
  maxSublinks: 2

logging:
  format: human
  level: info
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the FundFlow data directory",
	Long:  "Creates a .fundflow/ directory with a starter configuration and an empty database",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Rewrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.LevelInfo,
	})

	root := mustGetRoot()
	dataDir := filepath.Join(root, ".fundflow")
	configPath := filepath.Join(dataDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil && !initForce {
		// Already initialized is success so repeated init stays harmless.
		fmt.Println("FundFlow already initialized.")
		fmt.Printf("Configuration at: %s\n", configPath)
		fmt.Println("\nRun 'fundflow init --force' to rewrite the configuration.")
		return nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("written config does not load: %w", err)
	}
	db, err := storage.Open(cfg.DBPath(root), logger)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	logger.Info("FundFlow initialized", map[string]interface{}{
		"config_path": configPath,
		"db_path":     cfg.DBPath(root),
	})

	fmt.Println("FundFlow initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add API keys to the config for richer coverage")
	fmt.Println("  2. Run 'fundflow find <project>' to discover your first record")

	return nil
}
