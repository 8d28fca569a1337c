// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match decides which stored papers are referenced in a document's
// text. Matching is deliberately permissive: a candidate is cited when its
// normalized title appears anywhere in the normalized document body, with
// no scoring and no co-occurrence requirements on authors or years.
package match

import (
	"strings"
	"unicode"

	"github.com/johnmark127/r-kive-sub000/pkg/types"
)

// Normalize lowercases s and removes all whitespace, hyphens, and
// underscores, so that matching is insensitive to casing, line breaks, and
// word joining.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Matches reports whether the candidate title appears in the document text
// under normalization. An empty title never matches.
func Matches(text, title string) bool {
	normTitle := Normalize(title)
	if normTitle == "" {
		return false
	}
	return strings.Contains(Normalize(text), normTitle)
}

// FindCited returns the subset of candidates whose titles appear in text,
// in candidate order. The caller is responsible for excluding the paper
// being processed from candidates.
func FindCited(text string, candidates []types.Paper) []types.Paper {
	normText := Normalize(text)

	var cited []types.Paper
	for _, c := range candidates {
		normTitle := Normalize(c.Title)
		if normTitle == "" {
			continue
		}
		if strings.Contains(normText, normTitle) {
			cited = append(cited, c)
		}
	}
	return cited
}

// referenceHeadings are the section titles that start a bibliography.
var referenceHeadings = []string{"references", "bibliography", "works cited"}

// ReferencesSection isolates the text following a references or
// bibliography heading, up to the next heading-looking line or the end of
// the document. It returns an empty string when no such heading exists.
//
// The pipeline does not call this: matching runs over the whole document
// body, which tolerates missing or unusual headings at the cost of false
// positives. The isolation is kept available pending a product decision on
// narrowing the search.
func ReferencesSection(text string) string {
	lines := strings.Split(text, "\n")
	var collecting bool
	var sectionLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if isReferenceHeading(trimmed) {
			collecting = true
			continue
		}
		if collecting && looksLikeHeading(trimmed) {
			break
		}
		if collecting {
			sectionLines = append(sectionLines, line)
		}
	}

	return strings.TrimSpace(strings.Join(sectionLines, "\n"))
}

func isReferenceHeading(line string) bool {
	lower := strings.ToLower(strings.TrimLeft(line, "#0123456789. \t"))
	for _, h := range referenceHeadings {
		if lower == h || strings.HasPrefix(lower, h) && len(lower) <= len(h)+1 {
			return true
		}
	}
	return false
}

// looksLikeHeading flags short title-cased or markdown-style lines that
// likely start a new section (appendices typically follow references).
func looksLikeHeading(line string) bool {
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "#") {
		return true
	}
	if len(line) > 60 {
		return false
	}
	lower := strings.ToLower(strings.TrimLeft(line, "0123456789. \t"))
	return strings.HasPrefix(lower, "appendix") || strings.HasPrefix(lower, "acknowledg")
}
