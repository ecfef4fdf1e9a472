// cmd/vaultdoctor/history.go
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultdoctor/vaultdoctor/internal/history"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [vault]",
		Short: "Show recent audit results for a vault",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root, err := vaultRoot(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return fmt.Errorf("scan history is disabled (history.path is empty)")
			}

			dbPath := cfg.History.Path
			if !filepath.IsAbs(dbPath) {
				dbPath = filepath.Join(root, dbPath)
			}
			store, err := history.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("opening scan history: %w", err)
			}
			defer store.Close()

			scans, err := store.RecentScans(limit)
			if err != nil {
				return err
			}
			if len(scans) == 0 {
				fmt.Println("No recorded scans yet.")
				return nil
			}
			if cfg.Output.Format == "json" {
				return printJSON(scans)
			}

			fmt.Printf("%-20s %6s %6s %7s %8s %6s\n",
				"RAN AT", "DOCS", "LINKS", "BROKEN", "ORPHANS", "SCORE")
			for _, sc := range scans {
				fmt.Printf("%-20s %6d %6d %7d %8d %5.0f%%\n",
					sc.RanAt.Local().Format("2006-01-02 15:04:05"),
					sc.DocumentCount, sc.TotalLinks, sc.BrokenLinks,
					sc.OrphanFiles, sc.ConnectivityScore*100)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of scans to show")
	return cmd
}
