package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/taxhier/pkg/herrors"
	"github.com/gnames/taxhier/pkg/taxon"
)

// ResolvedAs reports whether lineage is resolved to at least rankName
// (i.e. its terminal taxon's rank is no shallower).
func (h *Hierarchy) ResolvedAs(lineage, rankName string) (bool, error) {
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return false, err
	}
	wantDepth, ok := h.ranks.Depth(rankName)
	if !ok {
		return false, herrors.UnknownRank(rankName)
	}

	tip, err := h.terminalRank(lineage)
	if err != nil {
		return false, err
	}
	gotDepth, ok := h.ranks.Depth(tip)
	if !ok {
		return false, herrors.UnknownRank(tip)
	}
	return gotDepth >= wantDepth, nil
}

// ResolvedTo returns the canonical rank name of lineage's terminal taxon.
func (h *Hierarchy) ResolvedTo(lineage string) (string, error) {
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return "", err
	}
	return h.terminalRank(lineage)
}

func (h *Hierarchy) terminalRank(lineage string) (string, error) {
	segments := strings.Split(lineage, h.separator)
	tip := segments[len(segments)-1]
	if tip == "" {
		return "", herrors.MalformedLineage(tip, lineage)
	}
	prefix, _, ok := splitRankSegment(tip)
	if !ok {
		return "", herrors.MalformedLineage(tip, lineage)
	}
	rankName, known := h.ranks.RankForPrefix(prefix)
	if !known {
		return "", herrors.UnknownRank(prefix)
	}
	return rankName, nil
}

// RankRepresentatives returns the taxa in the hierarchy at rankName,
// named by prefix_taxon when withPrefix, by bare name otherwise.
func (h *Hierarchy) RankRepresentatives(rankName string, withPrefix bool) (map[string]struct{}, error) {
	if _, ok := h.ranks.Depth(rankName); !ok {
		return nil, herrors.UnknownRank(rankName)
	}

	taxa := make(map[string]struct{})
	for key, t := range h.store {
		if t.Rank != rankName {
			continue
		}
		if withPrefix {
			taxa[key] = struct{}{}
		} else {
			taxa[t.Name] = struct{}{}
		}
	}
	return taxa, nil
}

// TrimLineagesToRank trims every lineage in leafMap down to rankName,
// dropping entries whose lineage doesn't reach that depth as well as
// every single-segment lineage.
func (h *Hierarchy) TrimLineagesToRank(leafMap map[string]string, rankName string) (map[string]string, error) {
	depth, ok := h.ranks.Depth(rankName)
	if !ok {
		return nil, herrors.UnknownRank(rankName)
	}
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(leafMap))
	for k := range leafMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trimmed := make(map[string]string, len(leafMap))
	truncated := 0
	for _, node := range keys {
		segments := strings.Split(leafMap[node], h.separator)
		if len(segments) == 1 || len(segments) < depth {
			truncated++
			continue
		}

		kept := segments[:depth]
		prefix, _, ok := splitRankSegment(kept[len(kept)-1])
		if !ok {
			return nil, herrors.MalformedLineage(kept[len(kept)-1], leafMap[node])
		}
		gotRank, known := h.ranks.RankForPrefix(prefix)
		if !known {
			return nil, herrors.UnknownRank(prefix)
		}
		if gotRank != rankName {
			return nil, herrors.MalformedLineage(kept[len(kept)-1], leafMap[node])
		}

		trimmed[node] = strings.Join(kept, h.separator)
	}

	if h.logger != nil {
		h.logger.Debug("lineages truncated before rank were dropped",
			"rank", rankName, "dropped", truncated)
	}
	return trimmed, nil
}

// CheckLineage repairs an incomplete or misordered lineage: it appends
// organism as a species leaf when the lineage resolves only to genus,
// and truncates the lineage at the first rank that breaks canonical
// ordering or falls outside the accepted rank set.
func (h *Hierarchy) CheckLineage(lineage, organism string, verbosity int) (string, error) {
	if !h.trieKeyPrefix || !h.cleanTrie {
		h.cleanTrie = true
		if err := h.BuildMultifurcatingTrie(true, h.trieValuePrefix); err != nil {
			return "", err
		}
	}

	lineage, err := h.CleanLineageString(lineage, true)
	if err != nil {
		return "", err
	}
	if lineage == "" {
		return "", nil
	}

	if !h.ProjectLineage(lineage) {
		h.fatal("check lineage: lineage not in hierarchy", "lineage", lineage)
		return "", herrors.LineageNotFound(lineage)
	}

	if !h.canonicalPrefixRe.MatchString(organism) {
		for child, value := range h.trieChildren(lineage) {
			if value == organism {
				organism = lastSegment(child, h.separator)
			}
		}
	}

	lineageList := strings.Split(lineage, h.separator)
	rankResolution, err := h.ResolvedTo(lineage)
	if err != nil {
		return "", err
	}
	rankDepth, ok := h.ranks.Depth(rankResolution)
	if !ok {
		return "", herrors.UnknownRank(rankResolution)
	}

	switch {
	case h.properSpeciesRe.MatchString(lineageList[len(lineageList)-1]):
		if verbosity > 0 && h.logger != nil {
			h.logger.Debug("check lineage: already resolved to species")
		}
	case len(lineageList) == 6 && rankDepth == 6 && h.isBinomial(organism):
		if !h.canonicalPrefixRe.MatchString(organism) {
			speciesRank, _ := h.ranks.RankForPrefix("s")
			if speciesRank != "species" {
				h.fatal("check lineage: unexpected rank prefix for species")
				return "", herrors.UnknownRank("species")
			}
			organism = "s" + taxon.TaxonSep + organism
		}
		if err := h.AppendToHierarchyDict(organism, lineageList[len(lineageList)-1], "species", "s"); err != nil {
			return "", err
		}
		lineageList = append(lineageList, organism)
	default:
		if verbosity > 0 && h.logger != nil {
			h.logger.Debug("check lineage: truncated lineage")
		}
	}

	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return "", err
	}

	i := 0
	for ; i < len(lineageList); i++ {
		prefix, _, ok := splitRankSegment(lineageList[i])
		if !ok {
			return "", herrors.MalformedLineage(lineageList[i], lineage)
		}
		rankName, known := h.ranks.RankForPrefix(prefix)
		if !known {
			h.truncateLineage(lineageList, i)
			lineageList = lineageList[:i]
			break
		}
		depth, accepted := h.ranks.Depth(rankName)
		if !accepted {
			h.truncateLineage(lineageList, i)
			lineageList = lineageList[:i]
			break
		}
		if depth > i+1 {
			h.truncateLineage(lineageList, i)
			lineageList = lineageList[:i]
			break
		}
	}

	if len(lineageList) == 0 {
		lineageList = []string{rootLineage}
	}
	return strings.Join(lineageList, h.separator), nil
}

func (h *Hierarchy) truncateLineage(lineageList []string, from int) {
	for _, key := range lineageList[from:] {
		if t := h.GetTaxon(key); t != nil {
			h.rmTaxonFromHierarchy(t, 1)
		}
	}
}

func (h *Hierarchy) isBinomial(organism string) bool {
	if h.parsers != nil {
		return h.parsers.IsBinomial(organism)
	}
	return h.properSpeciesRe.MatchString(organism)
}

// trieChildren walks every lineage stored under the given prefix,
// mirroring the trie's prefix-iteration semantics.
func (h *Hierarchy) trieChildren(prefix string) map[string]string {
	out := make(map[string]string)
	it := h.trie.Root().Iterator()
	node := it.SeekPrefix([]byte(prefix))
	if node == nil {
		return out
	}
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		out[string(k)] = v
	}
	return out
}

func lastSegment(s, sep string) string {
	parts := strings.Split(s, sep)
	return parts[len(parts)-1]
}

// SummarizeTaxa renders a human-readable count of unique taxa per rank,
// ordered from root to species.
func (h *Hierarchy) SummarizeTaxa() (string, error) {
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return "", err
	}

	counts := make(map[string]int)
	for _, t := range h.store {
		counts[t.Rank]++
	}

	ranks := make([]string, 0, len(h.ranks.AcceptedRanksDepths))
	for r := range h.ranks.AcceptedRanksDepths {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		return h.ranks.AcceptedRanksDepths[ranks[i]] < h.ranks.AcceptedRanksDepths[ranks[j]]
	})

	var b strings.Builder
	b.WriteString("Number of unique lineages:\n")
	for _, r := range ranks {
		count, ok := counts[r]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\t%-11s %s\n", r, humanize.Comma(int64(count)))
	}
	return b.String(), nil
}
