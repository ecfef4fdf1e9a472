// Package audit orchestrates one full vault health check: scan, link
// classification, quality checks, and graph analysis, aggregated into a
// single report.
package audit

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/config"
	"github.com/vaultdoctor/vaultdoctor/internal/graph"
	"github.com/vaultdoctor/vaultdoctor/internal/links"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// Report is the aggregate result of one audit run.
type Report struct {
	Root          string                       `json:"root"`
	ScannedAt     time.Time                    `json:"scanned_at"`
	Duration      time.Duration                `json:"duration"`
	DocumentCount int                          `json:"document_count"`
	MissingCore   []string                     `json:"missing_core,omitempty"`
	Connectivity  *analysis.ConnectivityReport `json:"connectivity"`
	Quality       *analysis.QualityReport      `json:"quality"`
	Graph         *graph.Graph                 `json:"graph"`
}

// Run executes the full audit pipeline against the vault rooted at root.
// The returned report is complete even for an empty vault; only scan
// failures are errors.
func Run(ctx context.Context, root string, cfg *config.Config) (*Report, error) {
	start := time.Now()

	docs, err := vault.Scan(root, cfg.Vault.IgnoreDirs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx := vault.NewIndex(docs)
	probe := fsProbe{root: root}

	report := &Report{
		Root:          root,
		ScannedAt:     start,
		DocumentCount: len(docs),
		MissingCore:   missingCore(idx, cfg.Vault.CoreFiles),
		Connectivity:  analysis.Classify(docs, idx, cfg.Vault.StructuralDirs, probe),
		Quality: analysis.CheckQuality(docs, analysis.QualityThresholds{
			MinWords:  cfg.Quality.MinWords,
			MaxWords:  cfg.Quality.MaxWords,
			StaleDays: cfg.Quality.StaleDays,
		}, start),
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Graph = graph.Build(docs)
	report.Duration = time.Since(start)
	return report, nil
}

// missingCore returns the configured core files absent from the index, in
// configuration order.
func missingCore(idx *vault.Index, coreFiles []string) []string {
	var missing []string
	for _, f := range coreFiles {
		if !idx.HasExactPath(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// FSProbe returns a prober that resolves link targets against files under
// root, for references to non-markdown attachments the scan never indexes.
func FSProbe(root string) links.Prober {
	return fsProbe{root: root}
}

type fsProbe struct {
	root string
}

func (p fsProbe) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}
