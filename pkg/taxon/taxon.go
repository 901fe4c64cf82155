// Package taxon defines the Taxon node: a single classification unit in
// a taxonomic hierarchy, linked to its parent by a non-owning pointer.
//
// A Taxon never owns its parent's lifetime - the owning Hierarchy assigns
// Parent only to taxa already present in its own store, so no Taxon can
// outlive the map that holds it.
package taxon

import (
	"github.com/gnames/gnuuid"
)

// TaxonSep separates a rank prefix from a taxon name in a prefixed key,
// e.g. "g__Escherichia". It is fixed, not user-configurable.
const TaxonSep = "__"

// Taxon is one classification unit: a name at a rank, linked to its
// parent taxon (nil for root-most nodes).
type Taxon struct {
	Name     string
	Rank     string
	Prefix   string
	Parent   *Taxon
	Coverage int

	// UUID is a deterministic UUIDv5 of PrefixTaxon(), assigned once at
	// construction. An alias twin made by hierarchy_key_chain aliasing is
	// a separate Taxon whose UUID derives from its own alias key.
	UUID string
}

// New creates a Taxon with coverage 1 and no parent.
func New(name, rank, prefix string) *Taxon {
	t := &Taxon{
		Name:     name,
		Rank:     rank,
		Prefix:   prefix,
		Coverage: 1,
	}
	t.UUID = gnuuid.New(t.PrefixTaxon()).String()
	return t
}

// PrefixTaxon returns the store key for this taxon, e.g. "g__Escherichia".
func (t *Taxon) PrefixTaxon() string {
	return t.Prefix + TaxonSep + t.Name
}

// Lineage returns the ordered chain of ancestors from root-most to self,
// walking Parent links. Terminates because parent links never cycle.
func (t *Taxon) Lineage() []*Taxon {
	var rev []*Taxon
	for cur := t; cur != nil; cur = cur.Parent {
		rev = append(rev, cur)
	}
	res := make([]*Taxon, len(rev))
	for i, v := range rev {
		res[len(rev)-1-i] = v
	}
	return res
}

// Absorb folds another Taxon's coverage into this one. Used only when a
// conflict-resolution representative replaces an obsolete duplicate.
func (t *Taxon) Absorb(other *Taxon) {
	t.Coverage += other.Coverage
}

// TaxDist returns the distance between two taxa along the parent chain.
// Equal names are distance 0. If both lack a parent, the distance is 1.
// Otherwise it walks up self's lineage until other is found, accumulating
// one step per level; if other is not in self's lineage, it delegates to
// other.TaxDist(self).
func (t *Taxon) TaxDist(other *Taxon) int {
	if t.Name == other.Name {
		return 0
	}
	if t.Parent == nil && other.Parent == nil {
		return 1
	}
	if !inLineageByName(t, other.Name) {
		return other.TaxDist(t)
	}
	return t.Parent.TaxDist(other) + 1
}

func inLineageByName(t *Taxon, name string) bool {
	for _, anc := range t.Lineage() {
		if anc.Name == name {
			return true
		}
	}
	return false
}

// Valid reports whether this taxon is usable: its name is not the
// "unclassified" sentinel, and its PrefixTaxon key is present in store.
func (t *Taxon) Valid(store map[string]*Taxon) bool {
	if t.Name == "unclassified" {
		return false
	}
	_, ok := store[t.PrefixTaxon()]
	return ok
}

// LCA returns the lowest common ancestor of two taxa by walking their
// lineages from the tip backward after trimming both to equal length.
// Returns nil if the lineages share no common ancestor.
func LCA(left, right *Taxon) *Taxon {
	l1 := left.Lineage()
	l2 := right.Lineage()

	for len(l1) > len(l2) {
		l1 = l1[:len(l1)-1]
	}
	for len(l2) > len(l1) {
		l2 = l2[:len(l2)-1]
	}

	for len(l1) > 0 && len(l2) > 0 {
		t1 := l1[len(l1)-1]
		t2 := l2[len(l2)-1]
		l1 = l1[:len(l1)-1]
		l2 = l2[:len(l2)-1]
		if t1 == t2 {
			return t1
		}
	}
	return nil
}

// LineageSlice returns every Taxon between start (inclusive) and stop
// (exclusive), in root-to-tip order, walking start's lineage. If stop is
// not found in start's lineage, the result is empty.
func LineageSlice(start, stop *Taxon) []*Taxon {
	lineage := start.Lineage()
	for len(lineage) > 0 {
		t := lineage[0]
		lineage = lineage[1:]
		if t == stop {
			break
		}
	}
	if len(lineage) == 0 {
		return nil
	}
	return lineage
}
