package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// ---------- helpers ----------

func doc(path, content string) vault.Document {
	return vault.ParseDocument(path, content)
}

// ---------- tests ----------

func TestBuildEmptyVault(t *testing.T) {
	g := Build(nil)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Clusters)
	assert.Empty(t, g.Bridges)
}

func TestBuildEdgesExactBasenameOnly(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "Plain [[B]], path [[bank/B.md]], section [[B#Part]]."),
		doc("B.md", "Body."),
	}
	g := Build(docs)

	// Only the plain exact-name link produces an edge; path-style and
	// section-qualified targets are resolver concerns, not graph edges.
	require.Len(t, g.Edges, 1)
	assert.Equal(t, Edge{From: "A.md", To: "B.md"}, g.Edges[0])
}

func TestBuildExcludesSelfEdges(t *testing.T) {
	docs := []vault.Document{doc("A.md", "I cite [[A]] often.")}
	g := Build(docs)
	assert.Empty(t, g.Edges)
	assert.Empty(t, g.Bridges, "an edge-less node is never a bridge, even alone")
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"README.md", CategoryCore},
		{"daily/2026-08-01.md", CategoryDailyLog},
		{"projects/vaultdoctor.md", CategoryProject},
		{"bank/opinions.md", CategoryBank},
		{"memory/recall.md", CategoryMemory},
		{"people/Alice.md", CategoryEntity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.path), "category of %q", tt.path)
	}
}

func TestHubsRankingAndTieBreak(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "[[Hub]] [[Minor]]"),
		doc("B.md", "[[Hub]]"),
		doc("C.md", "[[Hub]] [[Other]]"),
		doc("Hub.md", ""),
		doc("Minor.md", ""),
		doc("Other.md", ""),
	}
	g := Build(docs)

	require.Len(t, g.Hubs, 3, "zero in-degree nodes are excluded")
	assert.Equal(t, Hub{Path: "Hub.md", InDegree: 3}, g.Hubs[0])
	// Minor and Other tie at 1; first-seen document order breaks the tie.
	assert.Equal(t, "Minor.md", g.Hubs[1].Path)
	assert.Equal(t, "Other.md", g.Hubs[2].Path)
}

func TestHubsCap(t *testing.T) {
	var docs []vault.Document
	targets := ""
	for _, n := range []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9", "T10", "T11", "T12"} {
		docs = append(docs, doc(n+".md", ""))
		targets += "[[" + n + "]] "
	}
	docs = append(docs, doc("Index.md", targets))
	g := Build(docs)
	assert.Len(t, g.Hubs, 10)
}

func TestClustersZeroEdges(t *testing.T) {
	docs := []vault.Document{doc("A.md", ""), doc("B.md", ""), doc("C.md", "")}
	g := Build(docs)
	assert.Len(t, g.Clusters, 3, "every node is its own cluster")
}

func TestClustersFullyConnected(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "[[B]] [[C]]"),
		doc("B.md", "[[A]] [[C]]"),
		doc("C.md", "[[A]] [[B]]"),
	}
	g := Build(docs)
	require.Len(t, g.Clusters, 1)
	assert.ElementsMatch(t, []string{"A.md", "B.md", "C.md"}, g.Clusters[0])
}

func TestClustersUndirectedClosure(t *testing.T) {
	// A→B, B→A, C isolated: clusters = {A,B}, {C}.
	docs := []vault.Document{
		doc("A.md", "[[B]]"),
		doc("B.md", "[[A]]"),
		doc("C.md", ""),
	}
	g := Build(docs)

	require.Len(t, g.Clusters, 2)
	assert.Equal(t, []string{"A.md", "B.md"}, g.Clusters[0])
	assert.Equal(t, []string{"C.md"}, g.Clusters[1])
	assert.Empty(t, g.Bridges)
}

func TestBridgeDetectionChain(t *testing.T) {
	// A→B→C: removing B splits the component, removing A or C does not.
	docs := []vault.Document{
		doc("A.md", "[[B]]"),
		doc("B.md", "[[C]]"),
		doc("C.md", ""),
	}
	g := Build(docs)
	assert.Equal(t, []string{"B.md"}, g.Bridges)
}

func TestBridgeDetectionWithIsolatedNodes(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "[[B]]"),
		doc("B.md", "[[C]]"),
		doc("C.md", ""),
		doc("Lonely.md", ""),
	}
	g := Build(docs)
	assert.Equal(t, []string{"B.md"}, g.Bridges, "isolated nodes do not mask bridge detection")
	assert.Len(t, g.Clusters, 2)
}

func TestBridgeOrderFollowsDocumentOrder(t *testing.T) {
	// Two chains sharing nothing: D→E→F and A→B→C. Bridges are B and E,
	// reported in first-seen document order.
	docs := []vault.Document{
		doc("D.md", "[[E]]"),
		doc("E.md", "[[F]]"),
		doc("F.md", ""),
		doc("A.md", "[[B]]"),
		doc("B.md", "[[C]]"),
		doc("C.md", ""),
	}
	g := Build(docs)
	assert.Equal(t, []string{"E.md", "B.md"}, g.Bridges)
}

func TestSingleDocumentVault(t *testing.T) {
	g := Build([]vault.Document{doc("Only.md", "")})
	assert.Len(t, g.Clusters, 1)
	assert.Empty(t, g.Bridges)
	assert.Empty(t, g.Hubs)
}
