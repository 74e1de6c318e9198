package feedback

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// CanonicalTags is the curated feedback vocabulary shown to reviewers.
var CanonicalTags = []string{
	"Innovative",
	"Needs Improvement",
	"Market Potential",
	"Technical Feasibility",
	"Scalable",
	"User-Friendly",
	"Profitable",
	"Solves Real Problem",
	"Unique",
	"Competitive",
}

const (
	minFreeTagLen = 3
	maxFreeTagLen = 20
)

// FilterTags keeps canonical tags verbatim and any other tag whose length
// is 3..20 characters. Everything else is dropped, order is kept.
func FilterTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if slices.Contains(CanonicalTags, tag) {
			out = append(out, tag)
			continue
		}
		if n := utf8.RuneCountInString(tag); n >= minFreeTagLen && n <= maxFreeTagLen {
			out = append(out, tag)
		}
	}
	return out
}

// joinTags stores tags comma-joined. nil input (no tags sent) stays NULL.
func joinTags(tags []string) *string {
	if tags == nil {
		return nil
	}
	s := strings.Join(FilterTags(tags), ",")
	return &s
}
