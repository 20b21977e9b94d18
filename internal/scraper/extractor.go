package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrExtraction marks a page that passed classification but is missing
// structure the extractor requires. Callers skip the record and continue.
var ErrExtraction = errors.New("case page extraction failed")

// CaseExtractor implements Extractor for the ombudsman case page layout.
//
// Layout notes: the document-type label ("Álit", "Bréf", …) is the page
// header; the case number lives in the section.case h4 as "(Mál nr. X/Year)";
// the abstract sits under .reifun and the body paragraphs under .alit.
type CaseExtractor struct {
	baseURL string
}

// NewCaseExtractor builds an extractor that stamps records with URLs under
// baseURL.
func NewCaseExtractor(baseURL string) *CaseExtractor {
	return &CaseExtractor{baseURL: baseURL}
}

// Extract parses a valid case page into a CaseRecord.
func (e *CaseExtractor) Extract(id CandidateID, markup []byte) (CaseRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return CaseRecord{}, fmt.Errorf("%w: parse markup: %v", ErrExtraction, err)
	}

	typeLabel := CleanText(doc.Find(".page-header h1").First().Text())
	if typeLabel == "" {
		return CaseRecord{}, fmt.Errorf("%w: missing document-type heading", ErrExtraction)
	}

	body := doc.Find(".alit")
	if body.Length() == 0 {
		return CaseRecord{}, fmt.Errorf("%w: missing case body region", ErrExtraction)
	}

	heading := CleanText(doc.Find("section.case h4").First().Text())
	title := fmt.Sprintf("%s UA %s", typeLabel, CaseNumber(heading))

	record := CaseRecord{
		Title:       title,
		OriginalURL: CaseURL(e.baseURL, id),
		Type:        typeLabel,
		Abstract:    extractAbstract(doc),
		Content:     extractParagraphs(body),
		ID:          id,
	}
	return record, nil
}

// extractAbstract joins the non-empty .reifun paragraphs with blank lines.
// A missing abstract is an empty string, not an error.
func extractAbstract(doc *goquery.Document) string {
	var parts []string
	doc.Find(".reifun p").Each(func(_ int, s *goquery.Selection) {
		if txt := CleanText(s.Text()); txt != "" {
			parts = append(parts, txt)
		}
	})
	return strings.Join(parts, "\n\n")
}

// extractParagraphs indexes the non-empty body paragraphs in document order.
// Empty paragraphs are dropped before indexing, so indices stay contiguous
// from zero.
func extractParagraphs(body *goquery.Selection) []Paragraph {
	content := make([]Paragraph, 0)
	body.Find("p").Each(func(_ int, s *goquery.Selection) {
		txt := CleanText(s.Text())
		if txt == "" {
			return
		}
		content = append(content, Paragraph{Index: len(content), Text: txt})
	})
	return content
}
