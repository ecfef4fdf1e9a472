package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/audit"
	"github.com/vaultdoctor/vaultdoctor/internal/graph"
)

// ---------- helpers ----------

func reportAt(ranAt time.Time, brokenLinks int) *audit.Report {
	conn := &analysis.ConnectivityReport{
		TotalLinks:            12,
		ConnectivityScore:     0.8,
		KnowledgeConnectivity: 0.9,
		OrphanFiles:           []string{"C.md"},
	}
	for i := 0; i < brokenLinks; i++ {
		conn.BrokenLinks = append(conn.BrokenLinks, analysis.BrokenLink{Source: "A.md", Target: "X"})
	}
	return &audit.Report{
		Root:          "/vault",
		ScannedAt:     ranAt,
		DocumentCount: 5,
		Connectivity:  conn,
		Quality:       &analysis.QualityReport{},
		Graph: &graph.Graph{
			Clusters: [][]string{{"A.md"}, {"B.md"}},
			Bridges:  []string{"A.md"},
		},
	}
}

// ---------- tests ----------

func TestNewStoreInMemory(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)

	err = s.Close()
	assert.NoError(t, err)
}

func TestSaveAndRecentScans(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveScan(reportAt(base, 3)))
	require.NoError(t, s.SaveScan(reportAt(base.Add(time.Hour), 1)))

	scans, err := s.RecentScans(10)
	require.NoError(t, err)
	require.Len(t, scans, 2)

	// Most recent first.
	assert.Equal(t, 1, scans[0].BrokenLinks)
	assert.Equal(t, 3, scans[1].BrokenLinks)
	assert.Equal(t, "/vault", scans[0].Root)
	assert.Equal(t, 5, scans[0].DocumentCount)
	assert.Equal(t, 12, scans[0].TotalLinks)
	assert.Equal(t, 1, scans[0].OrphanFiles)
	assert.InDelta(t, 0.8, scans[0].ConnectivityScore, 1e-9)
	assert.InDelta(t, 0.9, scans[0].KnowledgeConnectivity, 1e-9)
	assert.Equal(t, 2, scans[0].Clusters)
	assert.Equal(t, 1, scans[0].Bridges)
}

func TestRecentScansLimit(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveScan(reportAt(base.Add(time.Duration(i)*time.Minute), i)))
	}

	scans, err := s.RecentScans(3)
	require.NoError(t, err)
	assert.Len(t, scans, 3)
	assert.Equal(t, 4, scans[0].BrokenLinks)
}

func TestLastScan(t *testing.T) {
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	last, err := s.LastScan()
	require.NoError(t, err)
	assert.Nil(t, last, "empty history has no last scan")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveScan(reportAt(base, 2)))

	last, err = s.LastScan()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 2, last.BrokenLinks)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveScan(reportAt(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 1)))
	require.NoError(t, s.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	scans, err := reopened.RecentScans(10)
	require.NoError(t, err)
	assert.Len(t, scans, 1)
}
