package scraper

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Default structural markers of a genuine case page and of the site's
// "not found" / redirect-to-search template. CMS soft-404s answer with HTTP
// 200, so validity must come from content inspection, never the status code.
var (
	defaultRequiredSelectors = []string{".page-header h1", "section.case", ".alit"}
	defaultNotFoundMarkers   = []string{
		"síðan fannst ekki",
		"efnið fannst ekki",
		"engar niðurstöður",
		"page not found",
		"error 404",
	}
)

// HeuristicClassifier implements Classifier using structural HTML signals.
type HeuristicClassifier struct {
	requiredSelectors []string
	notFoundMarkers   [][]byte
}

// NewHeuristicClassifier constructs a classifier. Empty argument slices fall
// back to the site's known markers.
func NewHeuristicClassifier(selectors, markers []string) *HeuristicClassifier {
	if len(selectors) == 0 {
		selectors = defaultRequiredSelectors
	}
	if len(markers) == 0 {
		markers = defaultNotFoundMarkers
	}
	lowered := make([][]byte, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		lowered = append(lowered, bytes.ToLower([]byte(m)))
	}
	return &HeuristicClassifier{
		requiredSelectors: selectors,
		notFoundMarkers:   lowered,
	}
}

// Classify returns VerdictValid iff the markup has every required structural
// element with a non-empty title and matches no not-found marker. Malformed
// or empty markup is invalid.
func (c *HeuristicClassifier) Classify(markup []byte) Verdict {
	if len(markup) == 0 {
		return VerdictInvalid
	}
	if c.containsMarker(markup) {
		return VerdictInvalid
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return VerdictInvalid
	}
	for _, sel := range c.requiredSelectors {
		if doc.Find(sel).Length() == 0 {
			return VerdictInvalid
		}
	}
	if CleanText(doc.Find(c.requiredSelectors[0]).First().Text()) == "" {
		return VerdictInvalid
	}
	return VerdictValid
}

func (c *HeuristicClassifier) containsMarker(markup []byte) bool {
	lowered := bytes.ToLower(markup)
	for _, m := range c.notFoundMarkers {
		if bytes.Contains(lowered, m) {
			return true
		}
	}
	return false
}
