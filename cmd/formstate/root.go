package main

import (
	"fmt"
	"os"

	"github.com/aretw0/formstate/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formstate",
	Short: "formstate serves reactive, validated and persisted forms",
	Long: `formstate builds form trees from YAML or JSON definitions, validates them,
and persists one instance per form ID in a memory, file, SQLite or Redis store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). Unset flags fall back to
	// the FORMSTATE_* environment.
	pf := rootCmd.PersistentFlags()
	pf.String("store", "", "Snapshot store: memory, file, sqlite or redis")
	pf.String("dir", "", "Directory of the file store")
	pf.String("sqlite-path", "", "Database path of the sqlite store")
	pf.String("redis-addr", "", "Address of the redis store")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return cfg, err
	}
	overrides := map[string]*string{
		"store":       &cfg.Store,
		"dir":         &cfg.Dir,
		"sqlite-path": &cfg.SQLitePath,
		"redis-addr":  &cfg.RedisAddr,
		"log-level":   &cfg.LogLevel,
		"log-format":  &cfg.LogFormat,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	return cfg, nil
}

// loadApp wires the engine for the definition at defPath.
func loadApp(cmd *cobra.Command, defPath string, traced bool) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cmd.Context(), defPath, cfg, cfg.Logger(os.Stderr), traced)
}
