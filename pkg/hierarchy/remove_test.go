package hierarchy_test

import (
	"testing"

	"github.com/gnames/taxhier/pkg/hierarchy"
	"github.com/stretchr/testify/assert"
)

func TestRemoveLeafNodesDecrementsCoverageUpToRoot(t *testing.T) {
	h := newTestHierarchy()
	root := h.DigestTaxon("Bacteria", "domain", "d", nil)
	child := h.DigestTaxon("Proteobacteria", "phylum", "p", root)

	h.RemoveLeafNodes([]string{child.PrefixTaxon()})

	assert.Nil(t, h.GetTaxon("p__Proteobacteria"))
	assert.Nil(t, h.GetTaxon("d__Bacteria"))
}

func TestRemoveLeafNodesKeepsSharedAncestorAlive(t *testing.T) {
	h := newTestHierarchy()
	root := h.DigestTaxon("Bacteria", "domain", "d", nil)
	h.DigestTaxon("Bacteria", "domain", "d", nil) // re-fed independently, coverage now 2
	h.DigestTaxon("Proteobacteria", "phylum", "p", root)
	child2 := h.DigestTaxon("Firmicutes", "phylum", "p", root)

	h.RemoveLeafNodes([]string{child2.PrefixTaxon()})

	assert.NotNil(t, h.GetTaxon("d__Bacteria"))
	assert.Nil(t, h.GetTaxon("p__Firmicutes"))
}

func TestJetisonTaxaFromHierarchyRemovesByOrganismAndRank(t *testing.T) {
	h := newTestHierarchy()
	root := h.DigestTaxon("Bacteria", "domain", "d", nil)
	h.DigestTaxon("Escherichia", "genus", "g", root)

	h.JetisonTaxaFromHierarchy([]hierarchy.RemovalRecord{
		{Organism: "Escherichia", TaxonRank: "genus", Lineage: "d__Bacteria; g__Escherichia"},
	})

	assert.Nil(t, h.GetTaxon("g__Escherichia"))
}
