package analysis

import (
	"regexp"
	"strings"
)

const (
	DefaultSummary = "Analysis could not be generated properly."
	DefaultSection = "Not available."
)

// Sections is a completion split into the SWOT parts.
type Sections struct {
	Summary       string
	Strengths     string
	Weaknesses    string
	Opportunities string
	Threats       string
}

// trailingNumber strips a list number left over from the next heading, e.g. "...\n2."
var trailingNumber = regexp.MustCompile(`\s*\d+\.\s*$`)

// ExtractSections splits a completion into its sections.
//
// Behavior:
//   - Headings are found case-insensitively, first occurrence wins, an
//     optional ":" after the heading is skipped.
//   - A section runs up to the next heading; Summary also stops at the first
//     bullet ("•" or "*"), Threats runs to the end.
//   - A section whose heading (or terminating heading) is missing gets its default.
func ExtractSections(text string) Sections {
	s := Sections{
		Summary:       DefaultSummary,
		Strengths:     DefaultSection,
		Weaknesses:    DefaultSection,
		Opportunities: DefaultSection,
		Threats:       DefaultSection,
	}
	set := func(dst *string, heading string, stops ...string) {
		if v, ok := section(text, heading, stops); ok {
			*dst = v
		}
	}
	set(&s.Summary, "summary", "strengths", "•", "*")
	set(&s.Strengths, "strengths", "weaknesses")
	set(&s.Weaknesses, "weaknesses", "opportunities")
	set(&s.Opportunities, "opportunities", "threats")
	set(&s.Threats, "threats")
	return s
}

// indexFold is a case-insensitive strings.Index that keeps byte offsets of s.
func indexFold(s, sub string) int {
	loc := regexp.MustCompile("(?i)" + regexp.QuoteMeta(sub)).FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func section(text, heading string, stops []string) (string, bool) {
	i := indexFold(text, heading)
	if i < 0 {
		return "", false
	}
	start := i + len(heading)
	if start < len(text) && text[start] == ':' {
		start++
	}
	body := strings.TrimLeft(text[start:], " \t\r\n")
	if body == "" {
		return "", false
	}
	if len(stops) == 0 {
		return strings.TrimSpace(body), true
	}

	// the body holds at least one character before a stop may match
	end := -1
	for _, stop := range stops {
		if j := indexFold(body[1:], stop); j >= 0 && (end < 0 || j+1 < end) {
			end = j + 1
		}
	}
	if end < 0 {
		return "", false
	}
	out := trailingNumber.ReplaceAllString(body[:end], "")
	out = strings.TrimSpace(out)
	if out == "" {
		return "", false
	}
	return out, true
}
