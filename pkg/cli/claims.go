package cli

import (
	"fmt"
	"slices"
	"strings"
)

// claimPair is a claim on the wire: symbolic type and value.
type claimPair struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// claimRow is a claim as the API presents it.
type claimRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// parseClaims parses "Type=Value" arguments. The value may contain '='.
func parseClaims(args []string) ([]claimPair, error) {
	out := make([]claimPair, 0, len(args))
	for _, a := range args {
		typ, val, ok := strings.Cut(a, "=")
		typ = strings.TrimSpace(typ)
		if !ok || typ == "" {
			return nil, fmt.Errorf("invalid claim %q: expected Type=Value", a)
		}
		out = append(out, claimPair{Type: typ, Value: val})
	}
	return out, nil
}

func claimsFromRows(rows []claimRow) []claimPair {
	out := make([]claimPair, len(rows))
	for i, r := range rows {
		out[i] = claimPair{Type: r.Key, Value: r.Value}
	}
	return out
}

// editClaims replaces current with set when set is non-nil, then appends
// add and drops remove. Claim types compare case-insensitively.
func editClaims(current, set, add, remove []claimPair) []claimPair {
	out := current
	if set != nil {
		out = set
	}
	out = slices.Clone(out)
	for _, c := range add {
		if !slices.ContainsFunc(out, claimMatcher(c)) {
			out = append(out, c)
		}
	}
	for _, c := range remove {
		out = slices.DeleteFunc(out, claimMatcher(c))
	}
	return out
}

func claimMatcher(c claimPair) func(claimPair) bool {
	return func(o claimPair) bool {
		return strings.EqualFold(o.Type, c.Type) && o.Value == c.Value
	}
}

// editNames is editClaims for role names, compared case-insensitively.
func editNames(current, set, add, remove []string) []string {
	out := current
	if set != nil {
		out = set
	}
	out = slices.Clone(out)
	for _, n := range add {
		if !slices.ContainsFunc(out, nameMatcher(n)) {
			out = append(out, n)
		}
	}
	for _, n := range remove {
		out = slices.DeleteFunc(out, nameMatcher(n))
	}
	return out
}

func nameMatcher(n string) func(string) bool {
	return func(o string) bool { return strings.EqualFold(o, n) }
}
