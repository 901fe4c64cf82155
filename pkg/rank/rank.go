// Package rank provides the canonical rank/depth table and the
// prefix->rank registry that a Hierarchy consults while ingesting and
// validating lineages.
//
// The prefix registry models spec.md's "Rank prefix map polymorphism"
// design note as a tagged variant per prefix: Mutable (a set of
// candidate rank names, accumulated during ingestion) or Validated (a
// single rank name, collapsed by ValidateRankPrefixes). Whet reverses
// that collapse so ingestion can resume.
package rank

import (
	"log/slog"
	"sort"

	"github.com/gnames/taxhier/pkg/herrors"
)

// NoRankName is the sentinel rank for taxa whose rank could not be
// classified into the canonical set.
const NoRankName = "no rank"

// Entry is the tagged-variant value of the prefix registry: either
// Mutable (Names non-nil, accumulating candidate rank names) or
// Validated (Rank set, Names nil).
type Entry struct {
	Names map[string]struct{}
	Rank  string
}

func mutableEntry(names ...string) *Entry {
	e := &Entry{Names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		e.Names[n] = struct{}{}
	}
	return e
}

// Validated reports whether this entry has been collapsed to a single
// rank name.
func (e *Entry) Validated() bool {
	return e.Names == nil
}

// Registry holds the canonical rank/depth table, rank-name aliases, and
// the mutable prefix->rank(s) map.
type Registry struct {
	// AcceptedRanksDepths maps each canonical rank name to its depth,
	// root=0 through species=7.
	AcceptedRanksDepths map[string]int

	// NameAliases maps a non-canonical rank name (as seen in ingested
	// records) to its canonical equivalent, e.g. "superkingdom" ->
	// "domain".
	NameAliases map[string]string

	Prefixes map[string]*Entry

	validated bool
	Logger    *slog.Logger
}

// New creates a Registry seeded with the canonical ranks root through
// species, the superkingdom/strain aliases, and the "no rank"/"root"
// prefix entries every hierarchy starts with.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		AcceptedRanksDepths: map[string]int{
			"root": 0, "domain": 1, "phylum": 2, "class": 3,
			"order": 4, "family": 5, "genus": 6, "species": 7,
		},
		NameAliases: map[string]string{
			"superkingdom": "domain",
			"strain":       "type_strain",
		},
		Prefixes: map[string]*Entry{
			"n": mutableEntry(NoRankName),
			"r": mutableEntry("root"),
		},
		Logger: logger,
	}
}

// CanonicalRank resolves an ingested rank name to its canonical form:
// unchanged if already accepted, aliased via NameAliases, or NoRankName
// otherwise.
func (r *Registry) CanonicalRank(rank string) string {
	if _, ok := r.AcceptedRanksDepths[rank]; ok {
		return rank
	}
	if alias, ok := r.NameAliases[rank]; ok {
		return alias
	}
	return NoRankName
}

// Depth returns the depth of a canonical rank name.
func (r *Registry) Depth(rank string) (int, bool) {
	d, ok := r.AcceptedRanksDepths[rank]
	return d, ok
}

// Whet ensures every Prefixes entry is Mutable, so ingestion can resume
// adding candidate rank names after a prior ValidateRankPrefixes call.
// A no-op when the registry is already mutable.
func (r *Registry) Whet() {
	if !r.validated {
		return
	}
	for _, e := range r.Prefixes {
		if e.Names == nil {
			e.Names = map[string]struct{}{e.Rank: {}}
			e.Rank = ""
		}
	}
	r.validated = false
}

// AddRank records rank as a candidate name for prefix, creating the
// entry if absent. The registry must be Mutable (see Whet); calling
// this on a Validated registry returns an error.
func (r *Registry) AddRank(prefix, rank string) error {
	if r.validated {
		return herrors.UnknownRank(rank)
	}
	e, ok := r.Prefixes[prefix]
	if !ok {
		r.Prefixes[prefix] = mutableEntry(rank)
		return nil
	}
	if e.Names == nil {
		return herrors.UnknownRank(rank)
	}
	e.Names[rank] = struct{}{}
	return nil
}

// ValidateRankPrefixes collapses every Mutable entry to a single
// Validated rank name. Fails with PrefixAmbiguity if any prefix
// accumulated more than one distinct candidate name. A no-op when the
// registry is already validated.
func (r *Registry) ValidateRankPrefixes() error {
	if r.validated {
		return nil
	}
	for prefix, e := range r.Prefixes {
		if e.Names == nil {
			continue
		}
		switch len(e.Names) {
		case 0:
			if r.Logger != nil {
				r.Logger.Warn("prefix exists for missing rank name", "prefix", prefix)
			}
		case 1:
			for name := range e.Names {
				e.Rank = name
			}
			e.Names = nil
		default:
			names := make([]string, 0, len(e.Names))
			for name := range e.Names {
				names = append(names, name)
			}
			sort.Strings(names)
			return herrors.PrefixAmbiguity(prefix, names)
		}
	}
	r.validated = true
	return nil
}

// RankForPrefix returns the rank name registered for prefix. Only
// meaningful after ValidateRankPrefixes; a Mutable entry with exactly
// one candidate also resolves transparently.
func (r *Registry) RankForPrefix(prefix string) (string, bool) {
	e, ok := r.Prefixes[prefix]
	if !ok {
		return "", false
	}
	if e.Names == nil {
		return e.Rank, true
	}
	if len(e.Names) == 1 {
		for name := range e.Names {
			return name, true
		}
	}
	return "", false
}

// DefaultLeafPrefixMap is the rank-prefix table used by FeedLeafNodes
// when the caller supplies none: single-letter prefixes for the eight
// canonical non-root, non-"no rank" ranks.
func DefaultLeafPrefixMap() map[string]string {
	return map[string]string{
		"d": "domain", "p": "phylum", "c": "class", "o": "order",
		"f": "family", "g": "genus", "s": "species", "t": "type_strain",
	}
}

// SeedPrefixMap merges a prefix->rank map (custom, or
// DefaultLeafPrefixMap when nil) into the registry as Mutable entries,
// matching feed_leaf_nodes' rank_prefix_map.update behaviour.
func (r *Registry) SeedPrefixMap(custom map[string]string) {
	m := custom
	if m == nil {
		m = DefaultLeafPrefixMap()
	}
	for prefix, rankName := range m {
		r.Prefixes[prefix] = mutableEntry(rankName)
	}
}
