package domain

import (
	"fmt"
	"strings"
)

// FilterMode controls how the per-field substring checks of a table filter combine.
type FilterMode string

const (
	// FilterMatchAny passes a row when any searchable field contains the filter text.
	FilterMatchAny FilterMode = "any"
	// FilterMatchAll passes a row only when every searchable field contains it.
	FilterMatchAll FilterMode = "all"
)

// ParseFilterMode parses "any" or "all" (case-insensitive). Empty means any.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FilterMatchAny), "or":
		return FilterMatchAny, nil
	case string(FilterMatchAll), "and":
		return FilterMatchAll, nil
	default:
		return "", fmt.Errorf("invalid filter mode %q: must be 'any' or 'all'", s)
	}
}

// DefaultTableLength is the page length used when a table request omits one.
const DefaultTableLength = 10

// TableRequest is a paged, filtered, sorted view request over an entity collection.
type TableRequest struct {
	Draw       string // opaque token, echoed back verbatim
	Filter     string // free text; blank means no filtering
	SortColumn string // field name; blank orders by identifier only
	Descending bool
	Start      int
	Length     int
}

// Validate checks the paging bounds.
func (r TableRequest) Validate() error {
	if r.Start < 0 {
		return ErrInvalidPage("start must not be negative, got %d", r.Start)
	}
	if r.Length <= 0 {
		return ErrInvalidPage("length must be positive, got %d", r.Length)
	}
	return nil
}

// TableResult is one page of a table view plus its counts.
type TableResult[T any] struct {
	Draw            string
	RecordsTotal    int // size of the unfiltered collection
	RecordsFiltered int // size after filtering, before paging
	Data            []T
}
