// cmd/vaultdoctor/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultdoctor/vaultdoctor/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string
	formatFlag string
	noHistory  bool
)

func versionString() string {
	return fmt.Sprintf("vaultdoctor %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "vaultdoctor",
		Short: "A markdown vault health checker",
		Long: "vaultdoctor audits a directory of interlinked markdown documents:\n" +
			"broken wikilinks, orphan documents, graph shape, and repair proposals.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default <vault>/.vaultdoctor.toml)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "output format: terminal, json, markdown")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "skip recording this run in the scan history")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(fixCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// vaultRoot resolves the vault path argument, defaulting to the current
// directory.
func vaultRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("vault path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("vault path is not a directory: %s", abs)
	}
	return abs, nil
}

// loadConfig resolves the config path for a vault, loads the config, and
// applies flag overrides.
func loadConfig(root string) (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(root, ".vaultdoctor.toml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	return cfg, nil
}
