// Package herrors holds the concrete error values a Hierarchy can
// return. Each wraps a gn.Error so callers get a stable error code
// alongside the usual Go error chain (errors.Is/As both work).
package herrors

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/taxhier/pkg/errcode"
)

// IngestionMismatch is returned by Feed when the lineage string and its
// parallel details slice disagree in length or in scientific-name order.
// The partial branch already created for the current call is rolled back
// before this is returned.
func IngestionMismatch(lineage, taxon, wantName string) error {
	return &gn.Error{
		Code: errcode.IngestionMismatchError,
		Msg: fmt.Sprintf(
			"lineage %q and its details disagree at taxon %q (want %q)",
			lineage, taxon, wantName,
		),
		Err: fmt.Errorf("ingestion mismatch"),
	}
}

// PrefixAmbiguity is returned by ValidateRankPrefixes when a single rank
// prefix has been observed mapping to more than one rank name.
func PrefixAmbiguity(prefix string, names []string) error {
	return &gn.Error{
		Code: errcode.PrefixAmbiguityError,
		Msg: fmt.Sprintf(
			"rank prefix %q maps to more than one rank name: %v", prefix, names,
		),
		Err: fmt.Errorf("ambiguous rank prefix"),
	}
}

// UnknownParent is returned by AppendToHierarchyDict when the named
// parent taxon is absent from the hierarchy, or lacks a canonical
// rank-prefix.
func UnknownParent(parentKey string) error {
	return &gn.Error{
		Code: errcode.UnknownParentError,
		Msg:  fmt.Sprintf("parent taxon %q is not in the hierarchy", parentKey),
		Err:  fmt.Errorf("unknown parent"),
	}
}

// MalformedLineage is returned when a lineage segment cannot be split
// into a rank-prefix and a taxon name.
func MalformedLineage(segment, lineage string) error {
	return &gn.Error{
		Code: errcode.MalformedLineageError,
		Msg: fmt.Sprintf(
			"taxon %q in lineage %q is missing a rank-prefix", segment, lineage,
		),
		Err: fmt.Errorf("malformed lineage"),
	}
}

// UnknownRank is returned when a rank name is required to be one of the
// canonical ranks and is not.
func UnknownRank(rank string) error {
	return &gn.Error{
		Code: errcode.UnknownRankError,
		Msg:  fmt.Sprintf("rank %q is not an accepted taxonomic rank", rank),
		Err:  fmt.Errorf("unknown rank"),
	}
}

// LineageNotFound is returned when a lineage is expected to already be
// present in the lineage trie and isn't.
func LineageNotFound(lineage string) error {
	return &gn.Error{
		Code: errcode.LineageNotFoundError,
		Msg:  fmt.Sprintf("lineage %q is not in the taxonomic hierarchy", lineage),
		Err:  fmt.Errorf("lineage not found"),
	}
}
