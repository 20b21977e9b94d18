package scraper

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	caseNumberRe  = regexp.MustCompile(`Mál nr\. (.+?)\)`)
	// Fallback when the h4 does not follow the "(Mál nr. …)" form.
	caseNumberSimpleRe = regexp.MustCompile(`([\w\d]+/\d{4})`)
)

// CleanText collapses all whitespace runs to single spaces and trims.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// CaseNumber extracts "Number/Year" from heading text like
// "(Mál nr. F143/2023)". Unparseable headings yield "Unknown" so a badly
// formatted case still produces a record.
func CaseNumber(heading string) string {
	if m := caseNumberRe.FindStringSubmatch(heading); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := caseNumberSimpleRe.FindStringSubmatch(heading); m != nil {
		return m[1]
	}
	return "Unknown"
}

// CaseURL builds the deterministic document URL for a candidate ID.
func CaseURL(baseURL string, id CandidateID) string {
	return fmt.Sprintf("%s/mal/nr/%d/skoda/mal/", strings.TrimRight(baseURL, "/"), id)
}

// Known document-type labels used on the site, mapped to English kinds.
// Unrecognized labels pass through the extractor untouched; this map only
// annotates logs and never rejects a page.
var knownTypeLabels = map[string]string{
	"Álit":    "opinion",
	"Bréf":    "letter",
	"Yfirlit": "overview",
}

// DocumentKind returns the English kind for a known type label, or "" when
// the label is unrecognized.
func DocumentKind(label string) string {
	return knownTypeLabels[label]
}
