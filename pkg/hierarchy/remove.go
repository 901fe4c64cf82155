package hierarchy

import "sort"

// RemoveLeafNodes decrements the coverage of each named taxon and every
// ancestor in its lineage, dropping any that reach zero coverage. The
// trie is rebuilt afterward if it fell behind.
func (h *Hierarchy) RemoveLeafNodes(taxaKeys []string) {
	sorted := append([]string(nil), taxaKeys...)
	sort.Strings(sorted)

	for _, key := range sorted {
		leaf := h.GetTaxon(key)
		if leaf == nil {
			continue
		}
		for _, t := range leaf.Lineage() {
			h.rmTaxonFromHierarchy(t, 1)
		}
		h.lineagesFed--
	}

	if err := h.TrieCheck(); err != nil {
		h.fatal("remove leaf nodes: trie rebuild failed", "error", err)
	}
}

// JetisonTaxaFromHierarchy removes the lineages described by records,
// resolving each to its prefix_taxon key before delegating to
// RemoveLeafNodes.
func (h *Hierarchy) JetisonTaxaFromHierarchy(records []RemovalRecord) {
	taxaNames := make([]string, 0, len(records))
	for _, rec := range records {
		var key string
		switch {
		case rec.Organism != "" && !h.canonicalPrefixRe.MatchString(rec.Organism):
			if rec.TaxonRank != "" {
				candidate := string(rec.TaxonRank[0]) + taxonSep + rec.Organism
				if _, ok := h.store[candidate]; ok {
					key = candidate
				} else {
					key = lastSegment(rec.Lineage, h.separator)
				}
			} else {
				key = lastSegment(rec.Lineage, h.separator)
			}
		case rec.Organism != "":
			if _, ok := h.store[rec.Organism]; ok {
				key = rec.Organism
			} else {
				continue
			}
		default:
			continue
		}
		taxaNames = append(taxaNames, key)
	}

	if h.logger != nil {
		h.logger.Debug("removing taxa from hierarchy", "count", len(taxaNames))
	}
	h.RemoveLeafNodes(taxaNames)
}
