package hierarchy

import (
	"sort"
	"strings"
	"time"

	adaptive "github.com/absolutelightning/go-immutable-adaptive-radix"
	"github.com/gnames/gnfmt"
	"github.com/gnames/taxhier/pkg/herrors"
	"github.com/gnames/taxhier/pkg/taxon"
	"golang.org/x/sync/errgroup"
)

const taxonSep = taxon.TaxonSep

// rootLineage is always present in the trie regardless of what has been
// fed, so an empty hierarchy still resolves "r__Root".
const rootLineage = "r__Root"

// Emit reconstructs the lineage string of prefixTaxon by walking its
// parent chain, returning "" if the taxon is unknown.
func (h *Hierarchy) Emit(prefixTaxon string, withPrefix bool) string {
	t := h.GetTaxon(prefixTaxon)
	if t == nil {
		return ""
	}
	lineage := t.Lineage()
	parts := make([]string, len(lineage))
	for i, tx := range lineage {
		if withPrefix {
			parts[i] = tx.PrefixTaxon()
		} else {
			parts[i] = tx.Name
		}
	}
	return strings.Join(parts, h.separator)
}

// BuildMultifurcatingTrie rebuilds the lineage trie from every taxon
// currently stored. Lineage strings are computed concurrently (read-only,
// across jobsNumber workers) and then inserted in sorted order into a
// fresh tree, so construction is deterministic regardless of goroutine
// scheduling.
func (h *Hierarchy) BuildMultifurcatingTrie(keyPrefix, valuePrefix bool) error {
	start := time.Now()
	h.trieKeyPrefix = keyPrefix
	h.trieValuePrefix = valuePrefix

	names := make([]string, 0, len(h.store))
	for name := range h.store {
		names = append(names, name)
	}

	lineages := make([]string, len(names))
	g := new(errgroup.Group)
	limit := h.jobsNumber
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			lineages[i] = h.Emit(name, true)
			return nil
		})
	}
	_ = g.Wait()

	lineageSet := make(map[string]struct{}, len(lineages)+1)
	lineageSet[rootLineage] = struct{}{}
	for _, lin := range lineages {
		if lin != "" {
			lineageSet[lin] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(lineageSet))
	for lin := range lineageSet {
		sorted = append(sorted, lin)
	}
	sort.Strings(sorted)

	tree := adaptive.NewRadixTree[string]()
	for _, lin := range sorted {
		cleanedValue, err := h.CleanLineageString(lin, valuePrefix)
		if err != nil {
			return err
		}
		valueParts := strings.Split(cleanedValue, h.separator)
		taxonSeg := valueParts[len(valueParts)-1]
		if !valuePrefix {
			taxonSeg = h.canonicalPrefixRe.ReplaceAllString(taxonSeg, "")
		}

		key := lin
		if h.cleanTrie {
			key, err = h.CleanLineageString(lin, keyPrefix)
			if err != nil {
				return err
			}
		} else if !keyPrefix {
			key = h.stripRankPrefix(lin)
		}

		if key != "" && taxonSeg != "" {
			tree, _, _ = tree.Insert([]byte(key), taxonSeg)
		}
	}

	h.trie = tree
	h.lineagesIntoTrie = h.lineagesFed
	if h.logger != nil {
		h.logger.Debug("rebuilt multifurcating trie",
			"taxa", len(names), "elapsed", gnfmt.TimeString(time.Since(start).Seconds()))
	}
	return nil
}

// TrieCheck rebuilds the trie if it has fallen behind the taxa fed into
// the hierarchy since the last build.
func (h *Hierarchy) TrieCheck() error {
	if h.lineagesFed != h.lineagesIntoTrie {
		return h.BuildMultifurcatingTrie(h.trieKeyPrefix, h.trieValuePrefix)
	}
	return nil
}

// QueryTrie returns the trie's stored value for lineage, or "" if
// lineage isn't present.
func (h *Hierarchy) QueryTrie(lineage string) string {
	v, ok := h.trie.Get([]byte(lineage))
	if !ok {
		if h.logger != nil {
			h.logger.Debug("lineage not present in trie", "lineage", lineage)
		}
		return ""
	}
	return v
}

// ProjectLineage reports whether lineage is present in the trie,
// rebuilding it first if it's stale.
func (h *Hierarchy) ProjectLineage(lineage string) bool {
	if err := h.TrieCheck(); err != nil {
		h.fatal("project lineage: trie rebuild failed", "error", err)
		return false
	}
	_, ok := h.trie.Get([]byte(lineage))
	return ok
}

// GetPrefixedLineageFromBare resolves a rank-prefix-free lineage to its
// canonical, rank-prefixed form by climbing from the full lineage toward
// the root until a trie hit is found. Returns "" if no prefix of the
// lineage matches.
func (h *Hierarchy) GetPrefixedLineageFromBare(bare string) string {
	if h.trieKeyPrefix || !h.trieValuePrefix {
		if err := h.BuildMultifurcatingTrie(false, true); err != nil {
			h.fatal("get prefixed lineage from bare: trie rebuild failed", "error", err)
			return ""
		}
	}

	lineageSplit := strings.Split(bare, h.separator)
	if h.cleanTrie {
		lineageSplit = h.rmBadTaxaFromLineage(lineageSplit)
		lineageSplit = h.rmAbsentTaxaFromLineage(lineageSplit)
	}

	var refLineage string
	for refLineage == "" && len(lineageSplit) > 0 {
		taxonSeg := h.QueryTrie(strings.Join(lineageSplit, h.separator))
		if taxonSeg != "" {
			emitted := h.Emit(taxonSeg, true)
			cleaned, err := h.CleanLineageString(emitted, true)
			if err != nil {
				h.fatal("get prefixed lineage from bare: clean failed", "error", err)
				return ""
			}
			refLineage = cleaned
		}
		lineageSplit = lineageSplit[:len(lineageSplit)-1]
	}
	return refLineage
}

// rmBadTaxaFromLineage filters taxa named in the hierarchy's bad-taxa
// list (e.g. "cellular organisms") out of an unprefixed lineage.
func (h *Hierarchy) rmBadTaxaFromLineage(splitLineage []string) []string {
	if len(h.badTaxa) == 0 {
		return splitLineage
	}
	cleaned := make([]string, 0, len(splitLineage))
	for _, t := range splitLineage {
		bad := false
		for _, b := range h.badTaxa {
			if t == b {
				bad = true
				break
			}
		}
		if !bad {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// rmAbsentTaxaFromLineage drops every element of an unprefixed lineage
// that doesn't name a taxon currently stored in the hierarchy.
func (h *Hierarchy) rmAbsentTaxaFromLineage(lineageList []string) []string {
	names := h.GetTaxonNames(false)
	cleaned := make([]string, 0, len(lineageList))
	for _, t := range lineageList {
		if _, ok := names[t]; ok {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// stripRankPrefix removes the rank-prefix segment from every taxon in a
// lineage string, leaving bare names joined by the hierarchy's separator.
func (h *Hierarchy) stripRankPrefix(lineage string) string {
	segments := strings.Split(lineage, h.separator)
	stripped := make([]string, len(segments))
	for i, seg := range segments {
		_, name, ok := splitRankSegment(seg)
		if !ok {
			name = seg
		}
		stripped[i] = name
	}
	return strings.Join(stripped, h.separator)
}

// CleanLineageString removes ranks that are unclassified ("no rank") or
// unrecognized from lineage, so that comparisons and trie lookups only
// ever see taxa the hierarchy considers canonical.
func (h *Hierarchy) CleanLineageString(lineage string, withPrefix bool) (string, error) {
	if err := h.ranks.ValidateRankPrefixes(); err != nil {
		return "", err
	}

	var reconstructed []string
	for _, seg := range strings.Split(lineage, h.separator) {
		prefix, name, ok := splitRankSegment(seg)
		if !ok {
			h.fatal("clean lineage string: rank-prefix required", "segment", seg, "lineage", lineage)
			return "", herrors.MalformedLineage(seg, lineage)
		}

		rankName, known := h.ranks.RankForPrefix(prefix)
		if h.noRankRe.MatchString(seg) || !known {
			continue
		}
		if _, accepted := h.ranks.Depth(rankName); !accepted {
			continue
		}

		out := seg
		if !withPrefix {
			out = h.canonicalPrefixRe.ReplaceAllString(out, "")
		}
		if name != "" {
			reconstructed = append(reconstructed, out)
		}
	}
	return strings.Join(reconstructed, h.separator), nil
}

// splitRankSegment splits a single rank-prefixed taxon segment (e.g.
// "d__Bacteria") into its prefix and name. If the name itself contains
// the taxon separator, every occurrence past the first is collapsed to
// a single underscore before retrying, matching how the hierarchy tames
// names with embedded double-underscores.
func splitRankSegment(seg string) (prefix, name string, ok bool) {
	parts := strings.SplitN(seg, taxonSep, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	if !strings.Contains(parts[1], taxonSep) {
		return parts[0], parts[1], true
	}

	collapsed := collapseInteriorSeparator(seg)
	parts = strings.SplitN(collapsed, taxonSep, 2)
	if len(parts) != 2 || strings.Contains(parts[1], taxonSep) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func collapseInteriorSeparator(seg string) string {
	first := strings.Index(seg, taxonSep)
	if first < 0 {
		return seg
	}
	head := seg[:first+len(taxonSep)]
	tail := strings.ReplaceAll(seg[first+len(taxonSep):], taxonSep, "_")
	return head + tail
}
