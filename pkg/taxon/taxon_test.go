package taxon_test

import (
	"testing"

	"github.com/gnames/taxhier/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(specs ...[2]string) []*taxon.Taxon {
	var prev *taxon.Taxon
	var res []*taxon.Taxon
	for _, s := range specs {
		t := taxon.New(s[0], s[1], s[1][0:1])
		t.Parent = prev
		res = append(res, t)
		prev = t
	}
	return res
}

func TestPrefixTaxon(t *testing.T) {
	tx := taxon.New("Escherichia", "genus", "g")
	assert.Equal(t, "g__Escherichia", tx.PrefixTaxon())
}

func TestNewAssignsStableUUID(t *testing.T) {
	a := taxon.New("Escherichia", "genus", "g")
	b := taxon.New("Escherichia", "genus", "g")
	assert.Equal(t, a.UUID, b.UUID, "UUID must be deterministic for the same PrefixTaxon")
	assert.NotEmpty(t, a.UUID)
}

func TestLineage(t *testing.T) {
	c := chain(
		[2]string{"Bacteria", "domain"},
		[2]string{"Proteobacteria", "phylum"},
		[2]string{"Gammaproteobacteria", "class"},
	)
	lin := c[2].Lineage()
	require.Len(t, lin, 3)
	assert.Equal(t, "Bacteria", lin[0].Name)
	assert.Equal(t, "Proteobacteria", lin[1].Name)
	assert.Equal(t, "Gammaproteobacteria", lin[2].Name)
}

func TestLineageRoot(t *testing.T) {
	root := taxon.New("Root", "root", "r")
	assert.Equal(t, []*taxon.Taxon{root}, root.Lineage())
}

func TestAbsorb(t *testing.T) {
	a := taxon.New("Bacteria", "domain", "d")
	b := taxon.New("Bacteria", "domain", "d")
	b.Coverage = 3
	a.Absorb(b)
	assert.Equal(t, 4, a.Coverage)
}

func TestTaxDistEqualNames(t *testing.T) {
	a := taxon.New("Bacteria", "domain", "d")
	b := taxon.New("Bacteria", "domain", "d")
	assert.Equal(t, 0, a.TaxDist(b))
}

func TestTaxDistBothRootless(t *testing.T) {
	a := taxon.New("Bacteria", "domain", "d")
	b := taxon.New("Archaea", "domain", "d")
	assert.Equal(t, 1, a.TaxDist(b))
}

func TestTaxDistAlongLineage(t *testing.T) {
	c := chain(
		[2]string{"Bacteria", "domain"},
		[2]string{"Proteobacteria", "phylum"},
		[2]string{"Gammaproteobacteria", "class"},
	)
	assert.Equal(t, 2, c[2].TaxDist(c[0]))
	assert.Equal(t, 2, c[0].TaxDist(c[2]), "delegates to the other side when not in lineage")
}

func TestValid(t *testing.T) {
	tx := taxon.New("Escherichia", "genus", "g")
	store := map[string]*taxon.Taxon{tx.PrefixTaxon(): tx}
	assert.True(t, tx.Valid(store))

	unclassified := taxon.New("unclassified", "no rank", "n")
	assert.False(t, unclassified.Valid(store))

	missing := taxon.New("Salmonella", "genus", "g")
	assert.False(t, missing.Valid(store))
}

func TestLCASharedAncestor(t *testing.T) {
	bacteria := taxon.New("Bacteria", "domain", "d")
	proteo := taxon.New("Proteobacteria", "phylum", "p")
	proteo.Parent = bacteria
	gamma := taxon.New("Gammaproteobacteria", "class", "c")
	gamma.Parent = proteo
	alpha := taxon.New("Alphaproteobacteria", "class", "c")
	alpha.Parent = proteo

	lca := taxon.LCA(gamma, alpha)
	require.NotNil(t, lca)
	assert.Equal(t, proteo, lca)
}

func TestLCANoSharedAncestor(t *testing.T) {
	a := taxon.New("Bacteria", "domain", "d")
	b := taxon.New("Archaea", "domain", "d")
	assert.Nil(t, taxon.LCA(a, b))
}

func TestLineageSlice(t *testing.T) {
	c := chain(
		[2]string{"Bacteria", "domain"},
		[2]string{"Proteobacteria", "phylum"},
		[2]string{"Gammaproteobacteria", "class"},
	)
	res := taxon.LineageSlice(c[2], c[0])
	require.Len(t, res, 2)
	assert.Equal(t, "Proteobacteria", res[0].Name)
	assert.Equal(t, "Gammaproteobacteria", res[1].Name)
}

func TestLineageSliceStopNotFound(t *testing.T) {
	c := chain(
		[2]string{"Bacteria", "domain"},
		[2]string{"Proteobacteria", "phylum"},
	)
	other := taxon.New("Archaea", "domain", "d")
	assert.Empty(t, taxon.LineageSlice(c[1], other))
}
