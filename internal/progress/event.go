// Package progress defines the event stream emitted by a scan run and a
// non-blocking hub that fans events out to sinks.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the milestone an Event represents.
type Stage string

// Supported progress stages.
const (
	StageScanStart Stage = "SCAN_START"
	StageScanDone  Stage = "SCAN_DONE"
	StageProbeDone Stage = "PROBE_DONE"
	StageCaseFound Stage = "CASE_FOUND"
)

// Event captures one milestone of scan progress.
type Event struct {
	// RunID uniquely identifies a scan run in 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage is the milestone that occurred.
	Stage Stage
	// CandidateID scopes probe and case events to one probed ID.
	CandidateID int64
	// Outcome carries the fetch outcome for probes, or the terminal scan
	// status for SCAN_DONE.
	Outcome string
	// Attempts is the fetch attempt count for probe events.
	Attempts int
	// Collected is the running count of valid cases found so far.
	Collected int
	// Target is the configured target count.
	Target int
	// Dur captures probe latency and total scan runtime.
	Dur time.Duration
	// Note lets emitters attach low-volume context (e.g. error text).
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageScanStart, StageScanDone:
	case StageProbeDone:
		if e.Outcome == "" {
			return errors.New("probe event requires an outcome")
		}
	case StageCaseFound:
		if e.CandidateID <= 0 {
			return errors.New("case event requires a candidate id")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
