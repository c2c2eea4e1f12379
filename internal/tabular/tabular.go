// Package tabular serves paged, filtered, sorted views over an in-memory
// entity collection, with the sort column chosen by the caller at request time.
package tabular

import (
	"slices"
	"strings"

	"identity-console/internal/domain"
	"identity-console/internal/fields"
)

// Options describes how rows of T are searched and identified.
type Options[T any] struct {
	// Searchable fields are checked for the filter text as a case-sensitive substring.
	Searchable []func(T) string
	// ID returns the row's unique identifier, the tiebreak for equal sort keys.
	ID func(T) string
	// Match combines the per-field checks; the zero value means FilterMatchAny.
	Match domain.FilterMode
}

// Query filters, sorts and windows rows. rows is not modified.
//
// The sort is stable and falls back to ascending ID on equal keys, so the
// same request against an unchanged collection always yields the same order
// and consecutive pages never overlap or skip rows.
func Query[T any](rows []T, reg *fields.Registry[T], opts Options[T], req domain.TableRequest) (*domain.TableResult[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var sortBy *fields.Descriptor[T]
	if req.SortColumn != "" {
		d, err := reg.Resolve(req.SortColumn)
		if err != nil {
			return nil, err
		}
		sortBy = &d
	}

	filtered := filter(rows, req.Filter, opts)

	slices.SortStableFunc(filtered, func(a, b T) int {
		if sortBy != nil {
			c := sortBy.Compare(a, b)
			if req.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		if opts.ID == nil {
			return 0
		}
		return strings.Compare(opts.ID(a), opts.ID(b))
	})

	return &domain.TableResult[T]{
		Draw:            req.Draw,
		RecordsTotal:    len(rows),
		RecordsFiltered: len(filtered),
		Data:            window(filtered, req.Start, req.Length),
	}, nil
}

// filter returns a new slice holding the rows that pass the filter text.
func filter[T any](rows []T, text string, opts Options[T]) []T {
	out := make([]T, 0, len(rows))
	if strings.TrimSpace(text) == "" {
		return append(out, rows...)
	}
	for _, row := range rows {
		if matches(row, text, opts) {
			out = append(out, row)
		}
	}
	return out
}

func matches[T any](row T, text string, opts Options[T]) bool {
	if len(opts.Searchable) == 0 {
		return false
	}
	all := opts.Match == domain.FilterMatchAll
	for _, field := range opts.Searchable {
		hit := strings.Contains(field(row), text)
		if hit && !all {
			return true
		}
		if !hit && all {
			return false
		}
	}
	return all
}

func window[T any](rows []T, start, length int) []T {
	if start >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if length < end-start {
		end = start + length
	}
	return rows[start:end]
}
