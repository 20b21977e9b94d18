package scraper

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/althingi-data/umbodsmadur-crawler/internal/progress"
)

// ScannerConfig controls a scan run.
type ScannerConfig struct {
	// TargetCount is the number of valid cases to collect.
	TargetCount int
	// Concurrency bounds simultaneous in-flight candidate pipelines. This is
	// the primary tunable for throughput versus politeness.
	Concurrency int
}

// Scanner drives the backward ID scan: it pulls candidate windows from the
// IDSource, runs fetch-classify-extract pipelines concurrently, and stops at
// the target count or when the source is exhausted.
//
// Single-writer discipline: goroutines only append results and bump counters
// under one mutex; ScanState itself is advanced between windows by the Run
// loop alone. Per-candidate failures never abort the scan.
type Scanner struct {
	fetcher    Fetcher
	classifier Classifier
	extractor  Extractor
	source     IDSource
	clock      Clock
	emitter    progress.Emitter
	runID      uuid.UUID
	logger     *zap.Logger
	cfg        ScannerConfig
}

// NewScanner constructs a Scanner. Configuration errors are the only fatal
// errors the scan machinery produces.
func NewScanner(
	fetcher Fetcher,
	classifier Classifier,
	extractor Extractor,
	source IDSource,
	clock Clock,
	emitter progress.Emitter,
	runID uuid.UUID,
	cfg ScannerConfig,
	logger *zap.Logger,
) (*Scanner, error) {
	if fetcher == nil || classifier == nil || extractor == nil || source == nil {
		return nil, fmt.Errorf("scanner requires fetcher, classifier, extractor, and id source")
	}
	if cfg.TargetCount <= 0 {
		return nil, fmt.Errorf("target count must be > 0, got %d", cfg.TargetCount)
	}
	if cfg.Concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be > 0, got %d", cfg.Concurrency)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		fetcher:    fetcher,
		classifier: classifier,
		extractor:  extractor,
		source:     source,
		clock:      clock,
		emitter:    emitter,
		runID:      runID,
		logger:     logger,
		cfg:        cfg,
	}, nil
}

type scanTally struct {
	mu          sync.Mutex
	records     []CaseRecord
	probed      int
	notFound    int
	transient   int
	permanent   int
	invalid     int
	extractErrs int
}

// Run executes the scan until the target count is reached or the ID space is
// exhausted. The returned records are in canonical descending-ID order and
// the report carries the terminal status; Exhausted is an outcome, not an
// error. Cancelling ctx stops new windows promptly; in-flight candidates
// finish or abandon without corrupting collected output.
func (s *Scanner) Run(ctx context.Context) ([]CaseRecord, ScanReport) {
	started := s.clock.Now()
	s.emit(progress.Event{
		Stage:  progress.StageScanStart,
		Target: s.cfg.TargetCount,
	})
	s.logger.Info("scan started",
		zap.String("run_id", s.runID.String()),
		zap.Int64("start_id", int64(s.source.NextCandidate())),
		zap.Int("target", s.cfg.TargetCount),
	)

	tally := &scanTally{}
	var collected atomic.Int64
	target := int64(s.cfg.TargetCount)

	for ctx.Err() == nil && collected.Load() < target {
		window := s.source.Next()
		if len(window) == 0 {
			break
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Concurrency)
		for _, id := range window {
			id := id
			g.Go(func() error {
				// Once the target is met, stop issuing fetches; IDs already
				// handed out are simply abandoned.
				if collected.Load() >= target {
					return nil
				}
				s.processCandidate(gctx, id, tally, &collected)
				return nil
			})
		}
		// Pipelines never return errors; Wait only synchronizes the window.
		_ = g.Wait()
	}

	status := ScanExhausted
	if collected.Load() >= target {
		status = ScanDone
	}

	records := Assemble(tally.records, s.cfg.TargetCount)
	finished := s.clock.Now()
	report := ScanReport{
		Status: status,
		State: ScanState{
			NextCandidateID: s.source.NextCandidate(),
			CollectedCount:  len(records),
			TargetCount:     s.cfg.TargetCount,
		},
		Probed:      tally.probed,
		NotFound:    tally.notFound,
		Transient:   tally.transient,
		Permanent:   tally.permanent,
		Invalid:     tally.invalid,
		ExtractErrs: tally.extractErrs,
		Started:     started,
		Finished:    finished,
	}

	s.emit(progress.Event{
		Stage:     progress.StageScanDone,
		Outcome:   string(status),
		Collected: len(records),
		Target:    s.cfg.TargetCount,
		Dur:       report.Elapsed(),
	})
	s.logger.Info("scan finished",
		zap.String("run_id", s.runID.String()),
		zap.String("status", string(status)),
		zap.Int("collected", len(records)),
		zap.Int("probed", report.Probed),
		zap.Int("not_found", report.NotFound),
		zap.Int("transient_errors", report.Transient),
		zap.Int("permanent_errors", report.Permanent),
		zap.Int("invalid_pages", report.Invalid),
		zap.Int("extraction_errors", report.ExtractErrs),
		zap.Duration("elapsed", report.Elapsed()),
	)
	return records, report
}

func (s *Scanner) processCandidate(ctx context.Context, id CandidateID, tally *scanTally, collected *atomic.Int64) {
	res := s.fetcher.Fetch(ctx, id)
	s.emit(progress.Event{
		Stage:       progress.StageProbeDone,
		CandidateID: int64(id),
		Outcome:     string(res.Outcome),
		Attempts:    res.Attempts,
		Collected:   int(collected.Load()),
		Target:      s.cfg.TargetCount,
		Dur:         res.Duration,
	})

	tally.mu.Lock()
	tally.probed++
	tally.mu.Unlock()

	switch res.Outcome {
	case OutcomeNotFound:
		// Expected for ID gaps; skipped silently at scan-step granularity.
		tally.mu.Lock()
		tally.notFound++
		tally.mu.Unlock()
		return
	case OutcomeTransient:
		tally.mu.Lock()
		tally.transient++
		tally.mu.Unlock()
		return
	case OutcomePermanent:
		tally.mu.Lock()
		tally.permanent++
		tally.mu.Unlock()
		return
	}

	if s.classifier.Classify(res.Body) != VerdictValid {
		tally.mu.Lock()
		tally.invalid++
		tally.mu.Unlock()
		return
	}

	record, err := s.extractor.Extract(id, res.Body)
	if err != nil {
		s.logger.Warn("extraction failed on classified page",
			zap.Int64("candidate_id", int64(id)),
			zap.Error(err),
		)
		tally.mu.Lock()
		tally.extractErrs++
		tally.mu.Unlock()
		return
	}

	tally.mu.Lock()
	tally.records = append(tally.records, record)
	tally.mu.Unlock()
	n := collected.Add(1)

	s.emit(progress.Event{
		Stage:       progress.StageCaseFound,
		CandidateID: int64(id),
		Collected:   int(n),
		Target:      s.cfg.TargetCount,
	})
	s.logger.Info("case collected",
		zap.Int64("candidate_id", int64(id)),
		zap.String("title", record.Title),
		zap.String("type", record.Type),
		zap.String("kind", DocumentKind(record.Type)),
		zap.Int64("collected", n),
	)
}

func (s *Scanner) emit(evt progress.Event) {
	if s.emitter == nil {
		return
	}
	evt.RunID = progress.UUIDToBytes(s.runID)
	evt.TS = s.clock.Now()
	s.emitter.Emit(evt)
}
