package hierarchy

import (
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/taxhier/pkg/herrors"
	"github.com/gnames/taxhier/pkg/rank"
	"github.com/gnames/taxhier/pkg/taxon"
)

// progressThreshold is the minimum leaf count before FeedLeafNodes
// reports bulk-ingestion progress.
const progressThreshold = 500

// Feed ingests one lineage string and its parallel rank details,
// creating or updating a Taxon for every segment. Returns the terminal
// (most-resolved) Taxon. On a mismatch between lineage and details, the
// partial branch already created is rolled back and an error returned.
func (h *Hierarchy) Feed(lineage string, details []LineageDetail) (*taxon.Taxon, error) {
	h.ranks.Whet()

	taxa := strings.Split(lineage, h.separator)
	var previous *taxon.Taxon

	for len(taxa) > 0 && len(details) > 0 {
		detail := details[0]
		details = details[1:]
		name := taxa[0]
		taxa = taxa[1:]

		if name != detail.ScientificName {
			if previous != nil {
				h.RemoveLeafNodes([]string{previous.PrefixTaxon()})
			}
			return nil, herrors.IngestionMismatch(lineage, name, detail.ScientificName)
		}

		rankName := h.ranks.CanonicalRank(detail.Rank)
		prefix := rankName[0:1]
		if err := h.ranks.AddRank(prefix, rankName); err != nil {
			return nil, err
		}

		t := h.DigestTaxon(name, rankName, prefix, previous)
		if t == nil && previous != nil {
			break
		}
		previous = t
	}

	if len(taxa) > 0 || len(details) > 0 {
		if previous != nil {
			h.RemoveLeafNodes([]string{previous.PrefixTaxon()})
		}
		return nil, herrors.IngestionMismatch(lineage, "<length mismatch>", "equal-length inputs")
	}

	h.lineagesFed++
	return previous, nil
}

// DigestTaxon adds a single taxon to the hierarchy, or resolves a clash
// if prefix+name is already present. Returns nil if name is blacklisted.
func (h *Hierarchy) DigestTaxon(name, rankName, prefix string, previous *taxon.Taxon) *taxon.Taxon {
	cut := prefix + taxon.TaxonSep
	if strings.HasPrefix(name, cut) {
		name = strings.TrimPrefix(name, cut)
	}
	prefixName := prefix + taxon.TaxonSep + name

	for _, bad := range h.badTaxa {
		if name == bad {
			return nil
		}
	}

	if existing, ok := h.store[prefixName]; ok {
		return h.EvaluateHierarchyClash(existing, previous, existing.Parent)
	}

	t := taxon.New(name, rankName, prefix)
	t.Parent = previous
	h.store[prefixName] = t
	return t
}

// EvaluateHierarchyClash decides whether newParent and existingParent
// are compatible parents for child. A nil or identical newParent just
// bumps child's coverage. Parents with no common ancestor are
// disambiguated by aliasing child via HierarchyKeyChain. When either
// parent's path to their LCA holds only "no rank" taxa, coverage is
// bumped and the pair is deferred to the conflict set, however far the
// parents are from the LCA. Otherwise a parent more than one step from
// the LCA aliases child via HierarchyKeyChain, and parents within one
// step bump coverage and are deferred to the conflict set.
func (h *Hierarchy) EvaluateHierarchyClash(child, newParent, existingParent *taxon.Taxon) *taxon.Taxon {
	if newParent == nil || newParent == existingParent {
		child.Coverage++
		return child
	}

	lca := taxon.LCA(newParent, existingParent)
	if lca == nil {
		return h.HierarchyKeyChain(child, newParent)
	}

	p1Ranks := rankSet(taxon.LineageSlice(newParent, lca))
	p2Ranks := rankSet(taxon.LineageSlice(existingParent, lca))
	p1Dist := newParent.TaxDist(lca)
	p2Dist := existingParent.TaxDist(lca)

	if onlyNoRank(p1Ranks) || onlyNoRank(p2Ranks) {
		child.Coverage++
		h.addConflict(newParent, existingParent)
		return child
	}

	if max(p1Dist, p2Dist) > 1 {
		return h.HierarchyKeyChain(child, newParent)
	}

	child.Coverage++
	h.addConflict(newParent, existingParent)
	return child
}

func rankSet(taxa []*taxon.Taxon) map[string]struct{} {
	res := make(map[string]struct{}, len(taxa))
	for _, t := range taxa {
		res[t.Rank] = struct{}{}
	}
	return res
}

func onlyNoRank(ranks map[string]struct{}) bool {
	if len(ranks) == 0 {
		return false
	}
	for r := range ranks {
		if r != rank.NoRankName {
			return false
		}
	}
	return true
}

// HierarchyKeyChain disambiguates child under parent by appending an
// incrementing "_N" suffix to its stored key, reusing an existing alias
// if one under the same parent already exists.
func (h *Hierarchy) HierarchyKeyChain(child, parent *taxon.Taxon) *taxon.Taxon {
	i := 1
	for {
		name := child.Name + "_" + strconv.Itoa(i)
		aliasKey := child.Prefix + taxon.TaxonSep + name

		existing, ok := h.store[aliasKey]
		if !ok {
			twin := taxon.New(name, child.Rank, child.Prefix)
			twin.Parent = parent
			h.store[twin.PrefixTaxon()] = twin
			if h.logger != nil {
				h.logger.Debug("taxon renamed due to diverging lineage",
					"name", child.Name, "alias", aliasKey)
			}
			return twin
		}
		if existing.Parent == parent {
			return existing
		}
		i++
	}
}

// FeedLeafNodes loads already rank-prefixed lineages attached to
// opaque leaf references, seeding the rank/prefix registry from
// prefixMap (or rank.DefaultLeafPrefixMap when nil).
func (h *Hierarchy) FeedLeafNodes(leaves []LeafReference, prefixMap map[string]string) {
	h.ranks.SeedPrefixMap(prefixMap)
	h.ranks.Whet()
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		h.fatal("feed leaf nodes: invalid rank prefix map", "error", err)
		return
	}

	var bar *pb.ProgressBar
	if len(leaves) >= progressThreshold {
		bar = pb.StartNew(len(leaves))
		defer bar.Finish()
	}

	for _, leaf := range leaves {
		if bar != nil {
			bar.Increment()
		}
		if leaf.Lineage == "" {
			continue
		}

		var previous *taxon.Taxon
		taxa := strings.Split(leaf.Lineage, h.separator)
		for len(taxa) > 0 {
			name := taxa[0]
			taxa = taxa[1:]

			prefix, _, found := strings.Cut(name, taxon.TaxonSep)
			if !found {
				if h.logger != nil {
					h.logger.Debug("unexpected taxon format, no rank prefix separator",
						"taxon", name, "lineage", leaf.Lineage)
				}
				break
			}
			rankName, ok := h.ranks.RankForPrefix(prefix)
			if !ok {
				if h.logger != nil {
					h.logger.Debug("rank prefix not registered", "prefix", prefix)
				}
				break
			}

			t := h.DigestTaxon(name, rankName, prefix, previous)
			if t == nil && previous != nil {
				break
			}
			previous = t
		}

		h.lineagesFed++
	}
}

// AppendToHierarchyDict adds a single child taxon directly under an
// existing parent identified by parentKey. Fails with UnknownParent if
// parentKey is absent or lacks a canonical rank-prefix.
func (h *Hierarchy) AppendToHierarchyDict(child, parentKey, rankName, rankPrefix string) error {
	if !h.canonicalPrefixRe.MatchString(parentKey) {
		h.fatal("append to hierarchy: parent lacks rank-prefix", "parent", parentKey)
		return herrors.UnknownParent(parentKey)
	}
	parent, ok := h.store[parentKey]
	if !ok {
		h.fatal("append to hierarchy: parent not in hierarchy", "parent", parentKey)
		return herrors.UnknownParent(parentKey)
	}

	h.ranks.Whet()
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return err
	}
	h.DigestTaxon(child, rankName, rankPrefix, parent)
	return nil
}
