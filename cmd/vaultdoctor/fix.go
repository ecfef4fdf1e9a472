// cmd/vaultdoctor/fix.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/audit"
	"github.com/vaultdoctor/vaultdoctor/internal/repair"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

func fixCmd() *cobra.Command {
	var (
		dryRun   bool
		category string
	)

	cmd := &cobra.Command{
		Use:   "fix [vault]",
		Short: "Propose and apply structural repairs",
		Long: "fix plans repairs for the vault's findings: fuzzy-matched rewrites for\n" +
			"broken links, stub documents for unmatchable targets, inbound links for\n" +
			"orphans, and outbound links for isolated documents.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := vaultRoot(args)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}

			if category != "" {
				switch repair.Category(category) {
				case repair.CategoryLinks, repair.CategoryOrphans, repair.CategoryIsolated:
				default:
					return fmt.Errorf("unknown fix category: %q (want links, orphans, or isolated)", category)
				}
			}

			docs, err := vault.Scan(root, cfg.Vault.IgnoreDirs)
			if err != nil {
				return fmt.Errorf("scanning vault: %w", err)
			}
			idx := vault.NewIndex(docs)
			conn := analysis.Classify(docs, idx, cfg.Vault.StructuralDirs, audit.FSProbe(root))

			plan := repair.Plan(docs, conn, repair.Category(category), repair.PlannerConfig{
				FuzzyThreshold: cfg.Fix.FuzzyThreshold,
				MinOrphanWords: cfg.Fix.MinOrphanWords,
				MaxOrphanLinks: cfg.Fix.MaxOrphanLinks,
			})

			if cfg.Output.Format == "json" {
				return printJSON(plan)
			}
			printPlan(plan)

			if dryRun || plan.Summary.Total == 0 {
				return nil
			}

			result := repair.Apply(root, plan)
			fmt.Printf("\nApplied %d of %d actions\n", len(result.Applied), plan.Summary.Total)
			for _, f := range result.Failed {
				fmt.Printf("  failed %s: %s\n", f.Action.Path, f.Err)
			}
			if len(result.Failed) > 0 {
				return fmt.Errorf("%d actions failed", len(result.Failed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without writing any files")
	cmd.Flags().StringVar(&category, "category", "", "restrict repairs to one category: links, orphans, isolated")
	return cmd
}

func printPlan(plan *repair.FixPlan) {
	if plan.Summary.Total == 0 {
		fmt.Println("Nothing to fix.")
		return
	}
	fmt.Printf("Fix plan: %d actions (%d link, %d orphan, %d isolated, %d new documents)\n\n",
		plan.Summary.Total, plan.Summary.Links, plan.Summary.Orphans,
		plan.Summary.Isolated, plan.Summary.Creations)
	for _, a := range plan.Actions {
		verb := "edit"
		if a.Create {
			verb = "create"
		}
		fmt.Printf("  %-6s %s  %s\n", verb, a.Path, a.Description)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
