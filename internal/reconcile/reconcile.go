// Package reconcile turns a client-submitted desired association set into the
// minimal add/remove delta against the persisted set, and applies it.
package reconcile

import (
	"context"
	"fmt"

	"identity-console/internal/claimtype"
	"identity-console/internal/domain"
)

// Delta is the work needed to turn an actual set into a desired one.
// Add and Remove are disjoint and free of duplicates.
type Delta[K comparable] struct {
	Add    []K
	Remove []K
}

// Empty reports whether there is nothing to apply.
func (d Delta[K]) Empty() bool { return len(d.Add) == 0 && len(d.Remove) == 0 }

// Diff computes desired − actual and actual − desired with set semantics.
// Duplicates collapse; Add keeps desired's first-seen order and Remove keeps
// actual's, so the result is deterministic for a given input.
func Diff[K comparable](desired, actual []K) Delta[K] {
	want := make(map[K]struct{}, len(desired))
	for _, k := range desired {
		want[k] = struct{}{}
	}
	have := make(map[K]struct{}, len(actual))
	for _, k := range actual {
		have[k] = struct{}{}
	}

	var d Delta[K]
	seen := make(map[K]struct{}, len(desired)+len(actual))
	for _, k := range desired {
		if _, ok := have[k]; ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		d.Add = append(d.Add, k)
	}
	for _, k := range actual {
		if _, ok := want[k]; ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		d.Remove = append(d.Remove, k)
	}
	return d
}

// Roles diffs role names.
func Roles(desired, actual []string) Delta[string] {
	return Diff(desired, actual)
}

// Claims translates the symbolic types of desired through reg and diffs the
// result against the persisted claims. A type reg does not know is accepted
// verbatim only when a persisted claim already carries it, so a stored claim
// shown under its raw URI survives being submitted back. Any other unknown
// type fails the whole call before a delta exists, so nothing can be applied
// from a half-valid request.
func Claims(reg *claimtype.Registry, desired []domain.ClaimInput, actual []domain.Claim) (Delta[domain.ClaimKey], error) {
	have := make([]domain.ClaimKey, len(actual))
	stored := make(map[string]struct{}, len(actual))
	for i, c := range actual {
		have[i] = c.Key()
		stored[c.Type] = struct{}{}
	}

	want := make([]domain.ClaimKey, 0, len(desired))
	for _, in := range desired {
		uri, err := reg.CanonicalOf(in.Type)
		if err != nil {
			if _, ok := stored[in.Type]; !ok {
				return Delta[domain.ClaimKey]{}, err
			}
			uri = in.Type
		}
		want = append(want, domain.ClaimKey{Type: uri, Value: in.Value})
	}
	return Diff(want, have), nil
}

// PartialError reports an Apply that stopped part way. Mutations before the
// failing one were committed and are not rolled back.
type PartialError struct {
	Op      string // "add" or "remove"
	Key     string
	Applied int // mutations committed before the failure
	Pending int // mutations not attempted, including the failing one
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("%s %s failed after %d of %d changes: %v",
		e.Op, e.Key, e.Applied, e.Applied+e.Pending, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Apply submits each addition and then each removal independently. The first
// failure stops the sequence and is returned as a *PartialError. Calling Diff
// again against the updated actual state yields only the remaining work.
func Apply[K comparable](ctx context.Context, d Delta[K], add, remove func(context.Context, K) error) error {
	total := len(d.Add) + len(d.Remove)
	applied := 0
	step := func(op string, keys []K, fn func(context.Context, K) error) error {
		for _, k := range keys {
			if err := fn(ctx, k); err != nil {
				return &PartialError{
					Op:      op,
					Key:     fmt.Sprint(k),
					Applied: applied,
					Pending: total - applied,
					Err:     err,
				}
			}
			applied++
		}
		return nil
	}
	if err := step("add", d.Add, add); err != nil {
		return err
	}
	return step("remove", d.Remove, remove)
}
