// Package history provides SQLite-backed persistence for audit summaries,
// so connectivity trends survive across runs.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vaultdoctor/vaultdoctor/internal/audit"
)

// Scan is one persisted audit summary.
type Scan struct {
	ID                    int64     `json:"id"`
	RanAt                 time.Time `json:"ran_at"`
	Root                  string    `json:"root"`
	DocumentCount         int       `json:"document_count"`
	TotalLinks            int       `json:"total_links"`
	BrokenLinks           int       `json:"broken_links"`
	OrphanFiles           int       `json:"orphan_files"`
	ConnectivityScore     float64   `json:"connectivity_score"`
	KnowledgeConnectivity float64   `json:"knowledge_connectivity"`
	Clusters              int       `json:"clusters"`
	Bridges               int       `json:"bridges"`
}

// Store wraps a SQLite database for audit history persistence.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) a SQLite database at dbPath and ensures
// all required tables exist. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	stmt := `CREATE TABLE IF NOT EXISTS scans (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		ran_at                 DATETIME NOT NULL,
		root                   TEXT NOT NULL,
		document_count         INTEGER NOT NULL,
		total_links            INTEGER NOT NULL,
		broken_links           INTEGER NOT NULL,
		orphan_files           INTEGER NOT NULL,
		connectivity_score     REAL NOT NULL,
		knowledge_connectivity REAL NOT NULL,
		clusters               INTEGER NOT NULL,
		bridges                INTEGER NOT NULL
	)`
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("exec create scans: %w", err)
	}
	return nil
}

// SaveScan records the summary of one audit report.
func (s *Store) SaveScan(report *audit.Report) error {
	_, err := s.db.Exec(
		`INSERT INTO scans (ran_at, root, document_count, total_links, broken_links,
		 orphan_files, connectivity_score, knowledge_connectivity, clusters, bridges)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ScannedAt.UTC(), report.Root, report.DocumentCount,
		report.Connectivity.TotalLinks, len(report.Connectivity.BrokenLinks),
		len(report.Connectivity.OrphanFiles),
		report.Connectivity.ConnectivityScore, report.Connectivity.KnowledgeConnectivity,
		len(report.Graph.Clusters), len(report.Graph.Bridges),
	)
	if err != nil {
		return fmt.Errorf("save scan: %w", err)
	}
	return nil
}

// RecentScans returns up to limit scans, most recent first.
func (s *Store) RecentScans(limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, ran_at, root, document_count, total_links, broken_links,
		 orphan_files, connectivity_score, knowledge_connectivity, clusters, bridges
		 FROM scans ORDER BY ran_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var sc Scan
		if err := rows.Scan(&sc.ID, &sc.RanAt, &sc.Root, &sc.DocumentCount,
			&sc.TotalLinks, &sc.BrokenLinks, &sc.OrphanFiles,
			&sc.ConnectivityScore, &sc.KnowledgeConnectivity,
			&sc.Clusters, &sc.Bridges); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

// LastScan returns the most recent scan, or nil when the history is empty.
func (s *Store) LastScan() (*Scan, error) {
	scans, err := s.RecentScans(1)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, nil
	}
	return &scans[0], nil
}
