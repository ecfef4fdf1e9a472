package repair

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultdoctor/vaultdoctor/internal/analysis"
	"github.com/vaultdoctor/vaultdoctor/internal/vault"
)

// ---------- helpers ----------

func doc(path, content string) vault.Document {
	return vault.ParseDocument(path, content)
}

func classify(docs []vault.Document) *analysis.ConnectivityReport {
	return analysis.Classify(docs, vault.NewIndex(docs), nil, nil)
}

func planAll(docs []vault.Document) *FixPlan {
	return Plan(docs, classify(docs), "", DefaultPlannerConfig())
}

func findAction(t *testing.T, plan *FixPlan, path string) FixAction {
	t.Helper()
	for _, a := range plan.Actions {
		if a.Path == path {
			return a
		}
	}
	t.Fatalf("no action for %s in plan: %+v", path, plan.Actions)
	return FixAction{}
}

// ---------- broken-link repair ----------

func TestPlanRewritesTypoLink(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "I know [[Allice]] well, she is great and very helpful to everyone."),
		doc("Alice.md", "Alice is a person with many documented interests and opinions."),
	}
	plan := Plan(docs, classify(docs), CategoryLinks, DefaultPlannerConfig())

	require.Len(t, plan.Actions, 1)
	a := plan.Actions[0]
	assert.Equal(t, CategoryLinks, a.Category)
	assert.Equal(t, "A.md", a.Path)
	assert.False(t, a.Create, "fuzzy match wins over stub creation")
	assert.Contains(t, a.Proposed, "[[Alice]]")
	assert.NotContains(t, a.Proposed, "[[Allice]]")
}

func TestPlanPreservesAliasOnRewrite(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "My friend [[Allice|Al]] is mentioned here with plenty of words around."),
		doc("Alice.md", "Alice content long enough to matter for the planner heuristics here."),
	}
	plan := Plan(docs, classify(docs), CategoryLinks, DefaultPlannerConfig())

	a := findAction(t, plan, "A.md")
	assert.Contains(t, a.Proposed, "[[Alice|Al]]")
}

func TestPlanPreservesSectionOnRewrite(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "See [[Allice#History]] for details, plus enough words to be non-trivial."),
		doc("Alice.md", "Alice content long enough to matter for the planner heuristics here."),
	}
	plan := Plan(docs, classify(docs), CategoryLinks, DefaultPlannerConfig())

	a := findAction(t, plan, "A.md")
	assert.Contains(t, a.Proposed, "[[Alice#History]]")
}

func TestPlanProposesStubWhenNoMatch(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "Refers to [[Quantum Flux Capacitor]] which matches nothing else here."),
	}
	plan := Plan(docs, classify(docs), CategoryLinks, DefaultPlannerConfig())

	a := findAction(t, plan, "Quantum Flux Capacitor.md")
	assert.True(t, a.Create)
	assert.Contains(t, a.Proposed, "# Quantum Flux Capacitor")
	assert.Equal(t, 1, plan.Summary.Creations)
}

func TestPlanStubDedupedAcrossSources(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "Mentions [[Nowheresville]] in passing with plenty of words around it."),
		doc("B.md", "Also mentions [[Nowheresville]] and has enough words to be a document."),
	}
	plan := Plan(docs, classify(docs), CategoryLinks, DefaultPlannerConfig())

	count := 0
	for _, a := range plan.Actions {
		if a.Create {
			count++
		}
	}
	assert.Equal(t, 1, count, "one stub per unique target")
}

func TestPlanGroupsRewritesPerSourceDocument(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "Both [[Allice]] and [[Bobb]] are misspelled in this single document."),
		doc("Alice.md", "Alice content long enough to matter for the planner heuristics."),
		doc("Bob.md", "Bob content long enough to matter for the planner heuristics too."),
	}
	plan := Plan(docs, classify(docs), CategoryLinks, DefaultPlannerConfig())

	require.Len(t, plan.Actions, 1, "all rewrites for one source merge into one action")
	a := plan.Actions[0]
	assert.Contains(t, a.Proposed, "[[Alice]]")
	assert.Contains(t, a.Proposed, "[[Bob]]")
	assert.Contains(t, a.Description, "Allice")
	assert.Contains(t, a.Description, "Bobb")
}

// ---------- orphan repair ----------

func TestPlanLinksOrphanFromRelatedDocument(t *testing.T) {
	docs := []vault.Document{
		doc("Hub.md", "This hub discusses gardening techniques and links [[Tools]]. Gardening Notes appear often."),
		doc("Tools.md", "Garden implements inventory, see [[Hub]] for the broader overview and context."),
		doc("Gardening Notes.md", "Gardening techniques, composting schedules, seasonal planting notes and more gardening details."),
	}
	plan := Plan(docs, classify(docs), CategoryOrphans, DefaultPlannerConfig())

	// Hub.md mentions the orphan's name directly, so it scores highest.
	a := findAction(t, plan, "Hub.md")
	assert.Equal(t, CategoryOrphans, a.Category)
	assert.Contains(t, a.Proposed, "[[Gardening Notes]]")
	assert.Contains(t, a.Proposed, "## See also")
}

func TestPlanInsertsIntoExistingSeeAlso(t *testing.T) {
	docs := []vault.Document{
		doc("Hub.md", "Talks about Budget Planning at length.\n\n## See also\n\n- [[Tools]]\n\n## Other\n\nTrailing section."),
		doc("Tools.md", "Linked from [[Hub]] so neither document counts as unreferenced here."),
		doc("Budget Planning.md", "Budget planning quarterly estimates spreadsheets forecasts and financial notes galore."),
	}
	plan := Plan(docs, classify(docs), CategoryOrphans, DefaultPlannerConfig())

	a := findAction(t, plan, "Hub.md")
	require.Contains(t, a.Proposed, "- [[Budget Planning]]")
	// Inserted inside the existing section, before "## Other".
	assert.Less(t,
		indexOf(a.Proposed, "- [[Budget Planning]]"),
		indexOf(a.Proposed, "## Other"))
	assert.Equal(t, 1, countOf(a.Proposed, "## See also"), "no duplicate section")
}

func TestPlanNeverDuplicatesExistingLink(t *testing.T) {
	content := "Already links [[Budget Planning]] right here in the body of the text."
	assert.Equal(t, content, insertReference(content, "Budget Planning"))
}

func TestPlanLinksStructuralOrphans(t *testing.T) {
	docs := []vault.Document{
		doc("Hub.md", "Weekly review mentions 2026-08-17 retro outcomes and links [[Tools]] for context."),
		doc("Tools.md", "Inventory of tools, see [[Hub]] for the broader overview and context."),
		doc("daily/2026-08-17.md", "Retro outcomes action items blockers and decisions recorded in detail today."),
	}
	conn := analysis.Classify(docs, vault.NewIndex(docs), []string{"daily"}, nil)
	require.Contains(t, conn.StructuralOrphans, "daily/2026-08-17.md")

	plan := Plan(docs, conn, CategoryOrphans, DefaultPlannerConfig())

	// Structural orphans with non-trivial content get inbound links too.
	a := findAction(t, plan, "Hub.md")
	assert.Contains(t, a.Proposed, "- [[2026-08-17]]")
}

func TestPlanSkipsTrivialOrphans(t *testing.T) {
	docs := []vault.Document{
		doc("Hub.md", "A hub with enough words discussing many topics including stubs."),
		doc("Tiny.md", "Two words."),
	}
	plan := Plan(docs, classify(docs), CategoryOrphans, DefaultPlannerConfig())
	assert.Empty(t, plan.Actions)
}

// ---------- isolated repair ----------

func TestPlanLinksFirstMentionInIsolatedDocument(t *testing.T) {
	docs := []vault.Document{
		doc("Journal.md", "Met alice today and alice was happy. We discussed the garden project at length."),
		doc("Alice.md", "Alice page content with enough words to be treated as substantive here."),
	}
	plan := Plan(docs, classify(docs), CategoryIsolated, DefaultPlannerConfig())

	a := findAction(t, plan, "Journal.md")
	assert.Equal(t, 1, countOf(a.Proposed, "[[Alice|alice]]"), "only the first mention converts, alias preserves casing")
	assert.Contains(t, a.Proposed, "and alice was happy", "second mention untouched")
}

func TestPlanIsolatedSkipsCodeAndFrontmatter(t *testing.T) {
	content := "---\ntitle: alice notes\n---\n\nUse `alice` as the variable name.\n\n```\nalice = 1\n```\n\nReal mention of alice in prose, with plenty of additional words."
	docs := []vault.Document{
		doc("Journal.md", content),
		doc("Alice.md", "Alice page content with enough words to be treated as substantive."),
	}
	plan := Plan(docs, classify(docs), CategoryIsolated, DefaultPlannerConfig())

	a := findAction(t, plan, "Journal.md")
	assert.Contains(t, a.Proposed, "Real mention of [[Alice|alice]] in prose")
	assert.Contains(t, a.Proposed, "Use `alice` as", "inline code untouched")
	assert.Contains(t, a.Proposed, "title: alice notes", "frontmatter untouched")
	assert.Contains(t, a.Proposed, "```\nalice = 1\n```", "fenced code untouched")
}

func TestPlanIsolatedDashAndCamelForms(t *testing.T) {
	docs := []vault.Document{
		doc("Journal.md", "Worked on meeting notes and on GraphBuilder internals for most of today."),
		doc("meeting-notes.md", "Meeting notes document content with enough words to count as real."),
		doc("GraphBuilder.md", "Graph builder page content with enough words to count as real here."),
	}
	plan := Plan(docs, classify(docs), CategoryIsolated, DefaultPlannerConfig())

	a := findAction(t, plan, "Journal.md")
	assert.Contains(t, a.Proposed, "[[meeting-notes|meeting notes]]")
	assert.Contains(t, a.Proposed, "[[GraphBuilder]]")
}

func TestPlanIsolatedHandlesCaseFoldedRunes(t *testing.T) {
	// "İ" lower-cases to a shorter byte sequence; mention offsets must
	// still land on the original bytes.
	docs := []vault.Document{
		doc("Journal.md", "İstanbul İzmir İznik notes: alice joined the whole tour and took photos."),
		doc("Alice.md", "Alice page content with enough words to be treated as substantive here."),
	}
	plan := Plan(docs, classify(docs), CategoryIsolated, DefaultPlannerConfig())

	a := findAction(t, plan, "Journal.md")
	assert.Contains(t, a.Proposed, "[[Alice|alice]]")
	assert.Contains(t, a.Proposed, "İstanbul İzmir İznik", "surrounding text untouched")
}

func TestPlanIsolatedNeverSelfLinks(t *testing.T) {
	docs := []vault.Document{
		doc("Alice.md", "Alice writes about Alice in the third person quite a lot these days."),
		doc("Other.md", "Unrelated content that does not mention anyone at all, just filler words."),
	}
	plan := Plan(docs, classify(docs), CategoryIsolated, DefaultPlannerConfig())
	for _, a := range plan.Actions {
		assert.NotEqual(t, "Alice.md", a.Path)
	}
}

// ---------- merge & summary ----------

func TestPlanMergesActionsOnSameDocument(t *testing.T) {
	// Hub.md has a broken link (rewrite) and is also the best candidate
	// for an orphan link: both changes must land in one action.
	docs := []vault.Document{
		doc("Hub.md", "Central hub mentions Gardening Notes and links [[Allice]] with enough words."),
		doc("Alice.md", "Alice page content links back to [[Hub]] so the hub stays referenced."),
		doc("Gardening Notes.md", "Gardening techniques composting schedules seasonal planting notes and many gardening details galore."),
	}
	plan := planAll(docs)

	hubActions := 0
	for _, a := range plan.Actions {
		if a.Path == "Hub.md" && !a.Create {
			hubActions++
			assert.Contains(t, a.Proposed, "[[Alice]]")
			assert.Contains(t, a.Proposed, "[[Gardening Notes]]")
			assert.Contains(t, a.Description, ";", "descriptions concatenate")
		}
	}
	assert.Equal(t, 1, hubActions)
	assert.Equal(t, plan.Summary.Total, len(plan.Actions), "summary counts the merged list")
}

func TestPlanChainsOrphanAndIsolatedEditsOnSameDocument(t *testing.T) {
	// Journal.md links to nothing but is also the best candidate to
	// receive orphan links; both strategies edit it and the merged
	// proposal must carry every edit.
	docs := []vault.Document{
		doc("Journal.md", "Met alice today and reviewed the Gardening Notes composting schedule in detail."),
		doc("Alice.md", "Alice keeps a [[Journal]] with enough words to be treated as substantive."),
		doc("Gardening Notes.md", "Gardening techniques composting schedules seasonal planting notes and many gardening details galore."),
	}
	plan := planAll(docs)

	a := findAction(t, plan, "Journal.md")
	assert.Contains(t, a.Proposed, "## See also")
	assert.Contains(t, a.Proposed, "- [[Alice]]")
	assert.Contains(t, a.Proposed, "- [[Gardening Notes]]")
	assert.Contains(t, a.Proposed, "Met [[Alice|alice]] today", "isolated edit survives chaining after the orphan insertions")
	assert.Contains(t, a.Description, ";")
}

func TestPlanDropsNoOpActions(t *testing.T) {
	// Hub.md contains an unclosed "[[Budget Planning" fragment: it is not
	// an extracted link, so Budget Planning.md still reports as an orphan,
	// but insertReference sees the existing prefix and returns the content
	// unchanged. The resulting no-op proposal must be dropped.
	docs := []vault.Document{
		doc("Hub.md", "Budget planning matters and an unclosed [[Budget Planning marker sits here. Links [[Other]] too."),
		doc("Other.md", "General material, see [[Hub]] for anything touching finances or accounting."),
		doc("Budget Planning.md", "Budget planning quarterly estimates spreadsheets forecasts and financial notes galore."),
	}
	plan := Plan(docs, classify(docs), CategoryOrphans, DefaultPlannerConfig())
	assert.Empty(t, plan.Actions)
}

func TestPlanCategoryFilter(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "Broken [[Nothing Matches This]] link and plenty of words besides it."),
		doc("B.md", "Isolated doc mentioning A somewhere? No links, though, and many words."),
	}
	plan := Plan(docs, classify(docs), CategoryOrphans, DefaultPlannerConfig())
	for _, a := range plan.Actions {
		assert.Equal(t, CategoryOrphans, a.Category)
	}
}

func TestEmptyPlan(t *testing.T) {
	docs := []vault.Document{
		doc("A.md", "Links to [[B]] cleanly."),
		doc("B.md", "Links back to [[A]] cleanly."),
	}
	plan := planAll(docs)
	assert.Empty(t, plan.Actions)
	assert.Zero(t, plan.Summary.Total)
}

// ---------- apply ----------

func TestApplyWritesActionsAndContinuesPastFailures(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "A.md"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Exists.md"), []byte("keep"), 0o644))

	plan := &FixPlan{Actions: []FixAction{
		{Category: CategoryLinks, Path: "A.md", Original: "old", Proposed: "new"},
		{Category: CategoryLinks, Path: "Exists.md", Proposed: "# Exists\n", Create: true},
		{Category: CategoryLinks, Path: "sub/New.md", Proposed: "# New\n", Create: true},
	}}

	result := Apply(root, plan)
	require.Len(t, result.Failed, 1, "existing stub target fails without aborting the plan")
	assert.Equal(t, "Exists.md", result.Failed[0].Action.Path)
	require.Len(t, result.Applied, 2)

	got, err := os.ReadFile(filepath.Join(root, "A.md"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	got, err = os.ReadFile(filepath.Join(root, "sub", "New.md"))
	require.NoError(t, err)
	assert.Equal(t, "# New\n", string(got))

	got, err = os.ReadFile(filepath.Join(root, "Exists.md"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(got), "failed creation leaves the file untouched")
}

func indexOf(s, sub string) int { return strings.Index(s, sub) }
func countOf(s, sub string) int { return strings.Count(s, sub) }
