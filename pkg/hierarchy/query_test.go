package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var simpleLineageRanks = []string{
	"domain", "phylum", "class", "order", "family", "genus",
}

func TestResolvedAsAndResolvedTo(t *testing.T) {
	h := feedSimpleLineage(t, newTestHierarchy())

	rank, err := h.ResolvedTo("d__Bacteria; p__Proteobacteria; c__Gammaproteobacteria; o__Enterobacterales; f__Enterobacteriaceae; g__Escherichia")
	require.NoError(t, err)
	assert.Equal(t, "genus", rank)

	ok, err := h.ResolvedAs("d__Bacteria; p__Proteobacteria", "phylum")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.ResolvedAs("d__Bacteria", "species")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRankRepresentatives(t *testing.T) {
	h := feedSimpleLineage(t, newTestHierarchy())

	reps, err := h.RankRepresentatives("genus", false)
	require.NoError(t, err)
	assert.Contains(t, reps, "Escherichia")

	_, err = h.RankRepresentatives("not-a-rank", false)
	assert.Error(t, err)
}

func TestTrimLineagesToRank(t *testing.T) {
	h := feedSimpleLineage(t, newTestHierarchy())

	leafMap := map[string]string{
		"seq1": "d__Bacteria; p__Proteobacteria; c__Gammaproteobacteria; o__Enterobacterales; f__Enterobacteriaceae; g__Escherichia; s__Escherichia coli",
		"seq2": "d__Bacteria",
	}

	trimmed, err := h.TrimLineagesToRank(leafMap, "genus")
	require.NoError(t, err)

	assert.Equal(t,
		"d__Bacteria; p__Proteobacteria; c__Gammaproteobacteria; o__Enterobacterales; f__Enterobacteriaceae; g__Escherichia",
		trimmed["seq1"])
	_, ok := trimmed["seq2"]
	assert.False(t, ok)
}

func TestSummarizeTaxa(t *testing.T) {
	h := feedSimpleLineage(t, newTestHierarchy())
	summary, err := h.SummarizeTaxa()
	require.NoError(t, err)
	assert.Contains(t, summary, "genus")
	assert.Contains(t, summary, "species")
}

func TestCheckLineageAppendsSpeciesFromOrganism(t *testing.T) {
	h := feedSimpleLineage(t, newTestHierarchy()) // registers the "s" -> species prefix

	_, err := h.Feed("Bacteria; Proteobacteria; Gammaproteobacteria; Enterobacterales; Enterobacteriaceae; Salmonella",
		lineageDetails(
			[]string{"Bacteria", "Proteobacteria", "Gammaproteobacteria", "Enterobacterales", "Enterobacteriaceae", "Salmonella"},
			simpleLineageRanks,
		))
	require.NoError(t, err)

	require.NoError(t, h.BuildMultifurcatingTrie(true, false))

	resolved, err := h.CheckLineage(
		"d__Bacteria; p__Proteobacteria; c__Gammaproteobacteria; o__Enterobacterales; f__Enterobacteriaceae; g__Salmonella",
		"Salmonella enterica", 0)
	require.NoError(t, err)
	assert.Contains(t, resolved, "s__Salmonella enterica")
}
