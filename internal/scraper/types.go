// Package scraper defines core types shared across the scan pipeline.
package scraper

import "time"

// CandidateID is a numeric probe into the site's internal document ID space.
// It is not guaranteed to resolve to a real document.
type CandidateID int64

// Outcome classifies the terminal result of fetching one candidate.
type Outcome string

// Fetch outcomes.
const (
	// OutcomeSuccess means a 2xx response with a body.
	OutcomeSuccess Outcome = "success"
	// OutcomeNotFound means the site reported no such document (HTTP 404).
	OutcomeNotFound Outcome = "not_found"
	// OutcomeTransient means retries were exhausted on network/5xx/429 errors.
	OutcomeTransient Outcome = "transient_error"
	// OutcomePermanent means a non-retryable client error (4xx other than 404/429).
	OutcomePermanent Outcome = "permanent_error"
)

// FetchResult is the per-candidate result produced by a Fetcher. It is
// consumed immediately by the classifier and never persisted.
type FetchResult struct {
	ID         CandidateID
	Outcome    Outcome
	StatusCode int
	Body       []byte
	Attempts   int
	Duration   time.Duration
}

// Verdict is the classifier's decision about fetched markup.
type Verdict string

// Classifier verdicts.
const (
	VerdictValid   Verdict = "valid"
	VerdictInvalid Verdict = "invalid"
)

// ClassifiedPage pairs a candidate with its verdict. Markup is retained only
// for valid pages, which the extractor consumes.
type ClassifiedPage struct {
	ID      CandidateID
	Verdict Verdict
	Markup  []byte
}

// Paragraph is one non-empty body paragraph with its zero-based position.
type Paragraph struct {
	Index int    `json:"index"`
	Text  string `json:"paragraphText"`
}

// CaseRecord is the durable structured form of one published case document.
// The JSON field names are a compatibility contract with downstream
// consumers; do not rename them.
type CaseRecord struct {
	Title       string      `json:"title"`
	OriginalURL string      `json:"originalUrl"`
	Type        string      `json:"type"`
	Abstract    string      `json:"abstract"`
	Content     []Paragraph `json:"content"`

	// ID orders records deterministically; it is not part of the contract.
	ID CandidateID `json:"-"`
}

// ScanStatus is the terminal state of a scan run.
type ScanStatus string

// Terminal scan states.
const (
	// ScanDone means the target count of valid cases was collected.
	ScanDone ScanStatus = "done"
	// ScanExhausted means the ID floor was reached first. Not an error;
	// the scan yields whatever was collected.
	ScanExhausted ScanStatus = "exhausted"
)

// ScanState is the scanner's mutable bookkeeping. Only the scanner writes it.
type ScanState struct {
	NextCandidateID CandidateID `json:"nextCandidateId"`
	CollectedCount  int         `json:"collectedCount"`
	TargetCount     int         `json:"targetCount"`
}

// ScanReport summarizes one finished scan run.
type ScanReport struct {
	Status      ScanStatus
	State       ScanState
	Probed      int
	NotFound    int
	Transient   int
	Permanent   int
	Invalid     int
	ExtractErrs int
	Started     time.Time
	Finished    time.Time
}

// Elapsed returns the wall time of the run.
func (r ScanReport) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}
