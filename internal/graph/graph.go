// Package graph turns resolved document links into a directed knowledge
// graph and derives its topological structure: hubs, clusters, and bridge
// documents. Edge construction deliberately uses a narrower resolution
// than the link resolver — only exact basename matches — so the structural
// view reflects direct, unambiguous references.
package graph

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// Category tags a node by its path shape alone.
type Category string

const (
	CategoryDailyLog Category = "daily-log"
	CategoryEntity   Category = "entity"
	CategoryProject  Category = "project"
	CategoryBank     Category = "bank"
	CategoryMemory   Category = "memory"
	CategoryCore     Category = "core"
)

// Node is one document in the graph.
type Node struct {
	Path     string   `json:"path"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Edge is one resolved link, source to target. Self-edges are excluded.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Hub is a document ranked by inbound-link count.
type Hub struct {
	Path     string `json:"path"`
	InDegree int    `json:"in_degree"`
}

// Graph is the structural view of one vault scan.
type Graph struct {
	Nodes    []Node     `json:"nodes"`
	Edges    []Edge     `json:"edges"`
	Hubs     []Hub      `json:"hubs"`
	Clusters [][]string `json:"clusters"`
	Bridges  []string   `json:"bridges"`
}

// maxHubs caps the hub ranking.
const maxHubs = 10

// Build constructs the graph for a document set: one node per document,
// one edge per exact-basename-resolved link, hubs by in-degree, clusters
// as connected components of the undirected closure, and bridges found by
// removal simulation. All orderings follow first-seen document order so
// output is deterministic.
func Build(docs []vault.Document) *Graph {
	g := &Graph{}

	nameToPath := make(map[string]string, len(docs))
	order := make(map[string]int, len(docs))
	for i, d := range docs {
		g.Nodes = append(g.Nodes, Node{
			Path:     d.Path,
			Name:     d.Name(),
			Category: Categorize(d.Path),
		})
		order[d.Path] = i
		lower := strings.ToLower(d.Name())
		if _, seen := nameToPath[lower]; !seen {
			nameToPath[lower] = d.Path
		}
	}

	for _, d := range docs {
		for _, raw := range d.Links {
			target, ok := nameToPath[strings.ToLower(raw)]
			if !ok || target == d.Path {
				continue
			}
			g.Edges = append(g.Edges, Edge{From: d.Path, To: target})
		}
	}

	g.Hubs = rankHubs(g.Nodes, g.Edges, order)
	adj := undirectedAdjacency(g.Edges)
	g.Clusters = clusters(g.Nodes, adj, nil)
	g.Bridges = bridges(g.Nodes, adj, len(g.Clusters))

	return g
}

// Categorize derives a node category purely from the path shape: the
// leading directory segment for known vault areas, core for root-level
// documents, entity otherwise.
func Categorize(rel string) Category {
	dir, _, found := strings.Cut(rel, "/")
	if !found {
		return CategoryCore
	}
	switch strings.ToLower(dir) {
	case "daily", "logs", "journal":
		return CategoryDailyLog
	case "projects":
		return CategoryProject
	case "bank":
		return CategoryBank
	case "memory":
		return CategoryMemory
	default:
		return CategoryEntity
	}
}

// rankHubs sorts nodes by in-degree descending, stable on first-seen
// order, dropping zero-in-degree nodes and capping at maxHubs.
func rankHubs(nodes []Node, edges []Edge, order map[string]int) []Hub {
	inDegree := make(map[string]int)
	for _, e := range edges {
		inDegree[e.To]++
	}

	var hubs []Hub
	for _, n := range nodes {
		if d := inDegree[n.Path]; d > 0 {
			hubs = append(hubs, Hub{Path: n.Path, InDegree: d})
		}
	}
	// Insertion sort keeps equal in-degrees in first-seen order.
	for i := 1; i < len(hubs); i++ {
		for j := i; j > 0 && hubs[j].InDegree > hubs[j-1].InDegree; j-- {
			hubs[j], hubs[j-1] = hubs[j-1], hubs[j]
		}
	}
	if len(hubs) > maxHubs {
		hubs = hubs[:maxHubs]
	}
	return hubs
}

// undirectedAdjacency builds the undirected closure of the edge set: an
// edge in either direction connects both endpoints.
func undirectedAdjacency(edges []Edge) map[string][]string {
	adj := make(map[string][]string)
	seen := make(map[string]bool)
	addOnce := func(a, b string) {
		key := a + "\x00" + b
		if seen[key] {
			return
		}
		seen[key] = true
		adj[a] = append(adj[a], b)
	}
	for _, e := range edges {
		addOnce(e.From, e.To)
		addOnce(e.To, e.From)
	}
	return adj
}

// clusters computes connected components by breadth-first traversal in
// node order. Every node lands in exactly one cluster; edge-less nodes
// form their own singletons. Nodes in the removed set are skipped
// entirely, as are edges touching them.
func clusters(nodes []Node, adj map[string][]string, removed map[string]bool) [][]string {
	visited := make(map[string]bool, len(nodes))
	var result [][]string

	for _, n := range nodes {
		if visited[n.Path] || removed[n.Path] {
			continue
		}
		var component []string
		queue := []string{n.Path}
		visited[n.Path] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			for _, next := range adj[cur] {
				if visited[next] || removed[next] {
					continue
				}
				visited[next] = true
				queue = append(queue, next)
			}
		}
		result = append(result, component)
	}
	return result
}

// bridges flags nodes whose removal strictly increases the cluster count.
// Only edge-bearing nodes are candidates; an edge-less node can never be a
// bridge. Each simulation is independent and read-only over the base
// adjacency, so candidates run concurrently; results are collected by
// index to keep the output in first-seen order.
func bridges(nodes []Node, adj map[string][]string, baseClusters int) []string {
	var candidates []Node
	for _, n := range nodes {
		if len(adj[n.Path]) > 0 {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	isBridge := make([]bool, len(candidates))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			removed := map[string]bool{cand.Path: true}
			if len(clusters(nodes, adj, removed)) > baseClusters {
				isBridge[i] = true
			}
			return nil
		})
	}
	_ = g.Wait() // simulations never return errors

	var result []string
	for i, cand := range candidates {
		if isBridge[i] {
			result = append(result, cand.Path)
		}
	}
	return result
}
