package sinks

import (
	"context"
	"sync"
	"time"

	"github.com/althingi-data/umbodsmadur-crawler/internal/progress"
)

// Snapshot is the externally visible view of a running (or finished) scan,
// served by the status endpoint.
type Snapshot struct {
	RunID         string         `json:"runId"`
	Running       bool           `json:"running"`
	Status        string         `json:"status,omitempty"`
	Collected     int            `json:"collected"`
	Target        int            `json:"target"`
	Probed        int            `json:"probed"`
	Outcomes      map[string]int `json:"outcomes"`
	LastCandidate int64          `json:"lastCandidateId,omitempty"`
	StartedAt     time.Time      `json:"startedAt,omitzero"`
	FinishedAt    time.Time      `json:"finishedAt,omitzero"`
}

// StateSink folds the event stream into the latest Snapshot. It is the
// in-memory backing for the /status endpoint.
type StateSink struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewStateSink returns an empty StateSink.
func NewStateSink() *StateSink {
	return &StateSink{snap: Snapshot{Outcomes: make(map[string]int)}}
}

// Consume folds one event into the snapshot.
func (s *StateSink) Consume(_ context.Context, evt progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.RunID = evt.RunUUID().String()
	switch evt.Stage {
	case progress.StageScanStart:
		s.snap = Snapshot{
			RunID:     evt.RunUUID().String(),
			Running:   true,
			Target:    evt.Target,
			Outcomes:  make(map[string]int),
			StartedAt: evt.TS,
		}
	case progress.StageProbeDone:
		s.snap.Probed++
		s.snap.Outcomes[evt.Outcome]++
		s.snap.LastCandidate = evt.CandidateID
	case progress.StageCaseFound:
		s.snap.Collected = evt.Collected
		s.snap.LastCandidate = evt.CandidateID
	case progress.StageScanDone:
		s.snap.Running = false
		s.snap.Status = evt.Outcome
		s.snap.Collected = evt.Collected
		s.snap.FinishedAt = evt.TS
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *StateSink) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.snap
	out.Outcomes = make(map[string]int, len(s.snap.Outcomes))
	for k, v := range s.snap.Outcomes {
		out.Outcomes[k] = v
	}
	return out
}

// Close implements the Sink interface; it performs no action.
func (s *StateSink) Close(context.Context) error {
	return nil
}
