package scraper

import (
	"context"
	"time"
)

// Fetcher retrieves the page for one candidate ID. Implementations own their
// retry behavior; the returned Outcome is terminal for this scan pass.
type Fetcher interface {
	Fetch(ctx context.Context, id CandidateID) FetchResult
}

// Classifier decides whether fetched markup is a genuine case page. Soft-404
// detection lives entirely behind this interface so its site-coupled matching
// rules can evolve without touching the fetcher, extractor, or scanner.
type Classifier interface {
	Classify(markup []byte) Verdict
}

// Extractor converts a valid case page into a CaseRecord. It is called only
// on pages the classifier accepted and returns ErrExtraction when required
// structure is missing anyway.
type Extractor interface {
	Extract(id CandidateID, markup []byte) (CaseRecord, error)
}

// IDSource produces windows of candidate IDs for the scanner. Discovery is a
// pluggable capability: the default walks IDs downward, but a sitemap-driven
// source can be substituted without changing the scanner.
type IDSource interface {
	// Next returns the next window of candidate IDs to probe, or an empty
	// slice once the source is exhausted. IDs are never repeated.
	Next() []CandidateID

	// NextCandidate reports the highest ID the source would hand out next.
	NextCandidate() CandidateID
}

// Sink persists the assembled output sequence.
type Sink interface {
	Write(ctx context.Context, records []CaseRecord) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock with the real time.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
