package hierarchy

import (
	"github.com/gnames/taxhier/pkg/rank"
	"github.com/gnames/taxhier/pkg/taxon"
)

// taxonPairKey canonicalises an unordered pair of taxa by their
// prefix_taxon keys so symmetric insertions never duplicate a conflict.
type taxonPairKey struct {
	a, b string
}

func canonicalPairKey(a, b *taxon.Taxon) taxonPairKey {
	ka, kb := a.PrefixTaxon(), b.PrefixTaxon()
	if ka > kb {
		ka, kb = kb, ka
	}
	return taxonPairKey{a: ka, b: kb}
}

func (h *Hierarchy) addConflict(a, b *taxon.Taxon) {
	h.conflicts[canonicalPairKey(a, b)] = struct{}{}
}

// ResolveConflicts processes every pending conflict pair, choosing a
// representative taxon and redirecting the obsolete one's descendants
// and coverage onto it. Returns a mapping from obsolete to representative
// Taxon for callers that must rewrite external references.
func (h *Hierarchy) ResolveConflicts() map[*taxon.Taxon]*taxon.Taxon {
	replaced := make(map[*taxon.Taxon]*taxon.Taxon)
	if len(h.conflicts) == 0 {
		return replaced
	}

	for key := range h.conflicts {
		delete(h.conflicts, key)

		nodeOne, okOne := h.store[key.a]
		nodeTwo, okTwo := h.store[key.b]
		if !okOne || !nodeOne.Valid(h.store) || !okTwo || !nodeTwo.Valid(h.store) {
			continue
		}

		var rep, obs *taxon.Taxon
		switch {
		case nodeOne.Rank == rank.NoRankName && nodeTwo.Rank == rank.NoRankName:
			if nodeOne.Coverage > nodeTwo.Coverage {
				rep, obs = nodeOne, nodeTwo
			} else {
				rep, obs = nodeTwo, nodeOne
			}
		case nodeOne.Rank == rank.NoRankName:
			rep, obs = nodeTwo, nodeOne
		case nodeTwo.Rank == rank.NoRankName:
			rep, obs = nodeOne, nodeTwo
		default:
			if h.logger != nil {
				h.logger.Debug("conflicting nodes both had valid ranks, skipping",
					"a", nodeOne.PrefixTaxon(), "b", nodeTwo.PrefixTaxon())
			}
			continue
		}

		h.RedirectHierarchyPaths(rep, obs)
		replaced[obs] = rep
		if h.logger != nil {
			h.logger.Debug("hierarchy conflict resolved",
				"obsolete", obs.PrefixTaxon(), "representative", rep.PrefixTaxon())
		}
	}
	return replaced
}

// RedirectHierarchyPaths folds obs into rep: rep absorbs obs's coverage
// (unless rep is already an ancestor of obs), every taxon parented by
// obs is reparented to rep, and every taxon from obs up to (but not
// including) their lowest common ancestor with rep loses one unit of
// coverage, leaving the hierarchy once its coverage reaches zero.
func (h *Hierarchy) RedirectHierarchyPaths(rep, obs *taxon.Taxon) {
	repInObsLineage := false
	for _, t := range obs.Lineage() {
		if t == rep {
			repInObsLineage = true
			break
		}
	}
	if !repInObsLineage {
		rep.Absorb(obs)
	}

	for _, t := range h.store {
		if t.Parent == obs && t != rep {
			t.Parent = rep
		}
	}

	lca := taxon.LCA(obs, rep)
	for _, t := range taxon.LineageSlice(obs, lca) {
		h.rmTaxonFromHierarchy(t, 1)
	}
}
