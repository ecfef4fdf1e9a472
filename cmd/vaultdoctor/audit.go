// cmd/vaultdoctor/audit.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
	"github.com/vaultdoctor/vaultdoctor/internal/config"
	"github.com/vaultdoctor/vaultdoctor/internal/history"
	"github.com/vaultdoctor/vaultdoctor/internal/output"
)

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [vault]",
		Short: "Run a full health check on a vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := vaultRoot(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			report, err := audit.Run(cmd.Context(), root, cfg)
			if err != nil {
				return fmt.Errorf("auditing vault: %w", err)
			}

			if !noHistory {
				recordScan(root, cfg, report)
			}

			formatter, err := output.ForFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			out, err := formatter.Format(report)
			if err != nil {
				return fmt.Errorf("formatting report: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// recordScan appends the report summary to the scan history. History
// failures are logged, never fatal; an audit result is still useful
// without its trend line.
func recordScan(root string, cfg *config.Config, report *audit.Report) {
	if cfg.History.Path == "" {
		return
	}
	dbPath := cfg.History.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Printf("vaultdoctor: creating history directory: %v", err)
		return
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		log.Printf("vaultdoctor: opening scan history: %v", err)
		return
	}
	defer store.Close()

	if err := store.SaveScan(report); err != nil {
		log.Printf("vaultdoctor: recording scan: %v", err)
	}
}
