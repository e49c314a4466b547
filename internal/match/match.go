// Package match filters and orders labelled items against a free-text query.
//
// Every item is assigned a Tier describing how closely its key matches the
// query. Items below the threshold are dropped; the rest are ordered by tier,
// highest first, with ties kept in their original order. An empty query keeps
// every item in its original order.
package match

import (
	"slices"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tier ranks the closeness of a match. Higher is closer.
type Tier int

const (
	NoMatch Tier = iota
	// Fuzzy means the query runes appear in order but not contiguously.
	Fuzzy
	Contains
	WordStartsWith
	StartsWith
	Equal
	CaseSensitiveEqual
)

func (t Tier) String() string {
	switch t {
	case Fuzzy:
		return "fuzzy"
	case Contains:
		return "contains"
	case WordStartsWith:
		return "word-starts-with"
	case StartsWith:
		return "starts-with"
	case Equal:
		return "equal"
	case CaseSensitiveEqual:
		return "case-sensitive-equal"
	default:
		return "none"
	}
}

// Options configures Rank. A zero Threshold means Contains.
type Options[T any] struct {
	Key       func(T) string
	Threshold Tier
}

// Rank returns the items whose key reaches the threshold, closest first.
// The input slice is never modified.
func Rank[T any](items []T, query string, opts Options[T]) []T {
	if query == "" {
		return slices.Clone(items)
	}
	threshold := opts.Threshold
	if threshold <= NoMatch {
		threshold = Contains
	}
	type scored struct {
		item T
		tier Tier
	}
	normQuery := Normalize(query)
	matched := make([]scored, 0, len(items))
	for _, item := range items {
		tier := tierFor(opts.Key(item), query, normQuery)
		if tier < threshold {
			continue
		}
		matched = append(matched, scored{item: item, tier: tier})
	}
	slices.SortStableFunc(matched, func(a, b scored) int {
		return int(b.tier) - int(a.tier)
	})
	out := make([]T, len(matched))
	for i, m := range matched {
		out[i] = m.item
	}
	return out
}

// TierOf reports how label matches query.
func TierOf(label, query string) Tier {
	if query == "" {
		return StartsWith
	}
	return tierFor(label, query, Normalize(query))
}

func tierFor(label, query, normQuery string) Tier {
	if label == query {
		return CaseSensitiveEqual
	}
	normLabel := Normalize(label)
	switch {
	case normLabel == normQuery:
		return Equal
	case strings.HasPrefix(normLabel, normQuery):
		return StartsWith
	case strings.Contains(normLabel, " "+normQuery):
		return WordStartsWith
	case strings.Contains(normLabel, normQuery):
		return Contains
	case fuzzy.MatchNormalizedFold(query, label):
		return Fuzzy
	}
	return NoMatch
}

// Normalize lower-cases s and strips combining marks so "Éther" and "ether"
// compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
