package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/althingi-data/umbodsmadur-crawler/internal/progress"
)

func testEvent(stage progress.Stage, runID uuid.UUID) progress.Event {
	return progress.Event{
		RunID:       progress.UUIDToBytes(runID),
		TS:          time.Now().UTC(),
		Stage:       stage,
		CandidateID: 97,
		Outcome:     "success",
		Attempts:    1,
		Collected:   1,
		Target:      3,
	}
}

func TestStateSinkFoldsRun(t *testing.T) {
	t.Parallel()

	sink := NewStateSink()
	ctx := context.Background()
	runID := uuid.New()

	start := testEvent(progress.StageScanStart, runID)
	start.Target = 3
	require.NoError(t, sink.Consume(ctx, start))

	snap := sink.Snapshot()
	require.Equal(t, runID.String(), snap.RunID)
	require.True(t, snap.Running)
	require.Equal(t, 3, snap.Target)
	require.Zero(t, snap.Probed)

	probe := testEvent(progress.StageProbeDone, runID)
	probe.Outcome = "not_found"
	probe.CandidateID = 100
	require.NoError(t, sink.Consume(ctx, probe))

	found := testEvent(progress.StageCaseFound, runID)
	found.Collected = 1
	require.NoError(t, sink.Consume(ctx, found))

	snap = sink.Snapshot()
	require.Equal(t, 1, snap.Probed)
	require.Equal(t, 1, snap.Outcomes["not_found"])
	require.Equal(t, 1, snap.Collected)
	require.Equal(t, int64(97), snap.LastCandidate)

	done := testEvent(progress.StageScanDone, runID)
	done.Outcome = "done"
	done.Collected = 3
	require.NoError(t, sink.Consume(ctx, done))

	snap = sink.Snapshot()
	require.False(t, snap.Running)
	require.Equal(t, "done", snap.Status)
	require.Equal(t, 3, snap.Collected)
	require.False(t, snap.FinishedAt.IsZero())
}

func TestStateSinkNewRunResetsCounters(t *testing.T) {
	t.Parallel()

	sink := NewStateSink()
	ctx := context.Background()

	require.NoError(t, sink.Consume(ctx, testEvent(progress.StageProbeDone, uuid.New())))

	second := uuid.New()
	require.NoError(t, sink.Consume(ctx, testEvent(progress.StageScanStart, second)))

	snap := sink.Snapshot()
	require.Equal(t, second.String(), snap.RunID)
	require.Zero(t, snap.Probed)
	require.Empty(t, snap.Outcomes)
}

func TestStateSinkSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	sink := NewStateSink()
	require.NoError(t, sink.Consume(context.Background(), testEvent(progress.StageProbeDone, uuid.New())))

	snap := sink.Snapshot()
	snap.Outcomes["success"] = 99

	require.Equal(t, 1, sink.Snapshot().Outcomes["success"])
}
