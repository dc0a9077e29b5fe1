package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := newConfigCmd()
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML workload config")
	rootCmd.AddCommand(cmd)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved workload config after layering defaults, file, and environment",
		Long: `config prints the workloadConfig that run would use: defaults,
overridden by --config's YAML file if given, overridden by any
ROOTPOOLSTAT_* environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("rootpoolstat: loading config: %w", err)
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			fmt.Printf("handles: %d\n", cfg.Handles)
			fmt.Printf("chunk_size: %d\n", cfg.ChunkSize)
			fmt.Printf("free_every: %d\n", cfg.FreeEvery)
			fmt.Printf("strict_mode: %v\n", cfg.StrictMode)
			return nil
		},
	}
}
