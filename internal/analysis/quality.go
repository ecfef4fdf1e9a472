package analysis

import (
	"time"

	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// QualityThresholds bounds acceptable document size and age.
type QualityThresholds struct {
	MinWords  int
	MaxWords  int
	StaleDays int
}

// QualityFinding flags one document that falls outside the thresholds.
type QualityFinding struct {
	Path      string    `json:"path"`
	WordCount int       `json:"word_count"`
	ModTime   time.Time `json:"mod_time"`
}

// QualityReport groups the per-document quality findings of one scan.
type QualityReport struct {
	Stubs     []QualityFinding `json:"stubs"`
	Oversized []QualityFinding `json:"oversized"`
	Stale     []QualityFinding `json:"stale"`
}

// CheckQuality flags documents below the minimum word count, above the
// maximum, or unmodified for longer than the staleness threshold. A zero
// threshold disables the corresponding check. Findings keep document scan
// order.
func CheckQuality(docs []vault.Document, th QualityThresholds, now time.Time) *QualityReport {
	report := &QualityReport{}
	staleCutoff := now.AddDate(0, 0, -th.StaleDays)

	for _, doc := range docs {
		finding := QualityFinding{Path: doc.Path, WordCount: doc.WordCount, ModTime: doc.ModTime}
		if th.MinWords > 0 && doc.WordCount < th.MinWords {
			report.Stubs = append(report.Stubs, finding)
		}
		if th.MaxWords > 0 && doc.WordCount > th.MaxWords {
			report.Oversized = append(report.Oversized, finding)
		}
		if th.StaleDays > 0 && !doc.ModTime.IsZero() && doc.ModTime.Before(staleCutoff) {
			report.Stale = append(report.Stale, finding)
		}
	}
	return report
}
