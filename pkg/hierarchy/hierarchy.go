// Package hierarchy implements the Taxonomic Hierarchy: a parent-linked
// taxon graph that canonicalizes, reconciles, queries, and projects
// lineages of reference sequences.
//
// A Hierarchy owns every Taxon it creates, keyed by prefix__name (e.g.
// "g__Escherichia"). It is not safe for concurrent mutation - callers
// own a Hierarchy exclusively for the duration of each operation, per
// the single-writer resource model.
package hierarchy

import (
	"log/slog"
	"regexp"

	adaptive "github.com/absolutelightning/go-immutable-adaptive-radix"
	"github.com/gnames/taxhier/pkg/config"
	"github.com/gnames/taxhier/pkg/parserpool"
	"github.com/gnames/taxhier/pkg/rank"
	"github.com/gnames/taxhier/pkg/taxon"
)

// LineageDetail pairs a scientific name with its rank, as supplied
// alongside a lineage string to Feed.
type LineageDetail struct {
	ScientificName string
	Rank           string
}

// LeafReference is an opaque tree-leaf identifier plus its already
// rank-prefixed lineage string, the shape FeedLeafNodes consumes.
type LeafReference struct {
	ID      string
	Lineage string
}

// RemovalRecord identifies a lineage to remove from the hierarchy by
// organism name, full lineage string, and an optional rank hint.
type RemovalRecord struct {
	Organism  string
	Lineage   string
	TaxonRank string
}

// Hierarchy owns the taxon store, the rank/prefix registry, the pending
// conflict set, and the lineage trie derived from them.
type Hierarchy struct {
	store map[string]*taxon.Taxon
	ranks *rank.Registry

	conflicts map[taxonPairKey]struct{}

	trie             *adaptive.RadixTree[string]
	trieKeyPrefix    bool
	trieValuePrefix  bool
	cleanTrie        bool
	lineagesFed      int
	lineagesIntoTrie int

	separator  string
	badTaxa    []string
	jobsNumber int

	canonicalPrefixRe *regexp.Regexp
	properSpeciesRe   *regexp.Regexp
	noRankRe          *regexp.Regexp

	parsers parserpool.Pool
	logger  *slog.Logger
}

// New creates an empty Hierarchy configured from cfg. logger must not be
// nil; parsers may be nil, in which case CheckLineage's Binomial test
// falls back to the plain regex shape check.
func New(cfg *config.Config, logger *slog.Logger, parsers parserpool.Pool) *Hierarchy {
	h := &Hierarchy{
		store:     make(map[string]*taxon.Taxon),
		ranks:     rank.New(logger),
		conflicts: make(map[taxonPairKey]struct{}),
		trie:      adaptive.NewRadixTree[string](),

		trieKeyPrefix:   true,
		trieValuePrefix: false,
		cleanTrie:       cfg.Hierarchy.CleanTrie,

		separator:  cfg.Hierarchy.Separator,
		badTaxa:    cfg.Hierarchy.BadTaxa,
		jobsNumber: cfg.JobsNumber,

		canonicalPrefixRe: regexp.MustCompile(`^[nrdpcofgs]` + taxon.TaxonSep),
		properSpeciesRe:   regexp.MustCompile(`^(s` + taxon.TaxonSep + `)?[A-Z][a-z]+ [a-z]+$`),
		noRankRe:          regexp.MustCompile(`^` + rank.NoRankName[0:1] + taxon.TaxonSep + `.*`),

		parsers: parsers,
		logger:  logger,
	}
	return h
}

// GetTaxon returns the Taxon stored under prefixTaxon, or nil if absent.
func (h *Hierarchy) GetTaxon(prefixTaxon string) *taxon.Taxon {
	t, ok := h.store[prefixTaxon]
	if !ok {
		if h.logger != nil {
			h.logger.Debug("taxon not present in hierarchy", "prefix_taxon", prefixTaxon)
		}
		return nil
	}
	return t
}

// GetTaxonNames returns every stored taxon's name, or its prefix_taxon
// key when withPrefix is true.
func (h *Hierarchy) GetTaxonNames(withPrefix bool) map[string]struct{} {
	res := make(map[string]struct{}, len(h.store))
	for key, t := range h.store {
		if withPrefix {
			res[key] = struct{}{}
		} else {
			res[t.Name] = struct{}{}
		}
	}
	return res
}

// GetState returns a diagnostic snapshot of the hierarchy's internal
// bookkeeping: trie flags, counters, and configuration. Logged at Error
// level ahead of every fatal, invariant-breaking condition, and exposed
// here for callers performing their own diagnostics.
func (h *Hierarchy) GetState() map[string]any {
	return map[string]any{
		"clean_trie":            h.cleanTrie,
		"trie_key_prefix":       h.trieKeyPrefix,
		"trie_value_prefix":     h.trieValuePrefix,
		"accepted_ranks_depths": h.ranks.AcceptedRanksDepths,
		"lineages_fed":          h.lineagesFed,
		"lineages_into_trie":    h.lineagesIntoTrie,
		"taxon_sep":             taxon.TaxonSep,
		"separator":             h.separator,
		"conflicts_pending":     len(h.conflicts),
		"taxa_stored":           len(h.store),
	}
}

func (h *Hierarchy) fatal(msg string, args ...any) {
	if h.logger != nil {
		logArgs := append([]any{"state", h.GetState()}, args...)
		h.logger.Error(msg, logArgs...)
	}
}

func (h *Hierarchy) rmTaxonFromHierarchy(t *taxon.Taxon, decrement int) {
	t.Coverage -= decrement
	if t.Coverage <= 0 {
		delete(h.store, t.PrefixTaxon())
	}
}
