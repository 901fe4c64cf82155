// Package errcode enumerates the error codes raised while building and
// querying a TaxonomicHierarchy.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Ingestion errors
	IngestionMismatchError
	UnknownRankError

	// Rank/prefix discipline errors
	PrefixAmbiguityError

	// Hierarchy mutation errors
	UnknownParentError

	// Lineage parsing/query errors
	MalformedLineageError
	LineageNotFoundError
)
