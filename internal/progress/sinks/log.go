// Package sinks provides progress.Sink implementations.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/althingi-data/umbodsmadur-crawler/internal/progress"
)

// LogSink emits structured logs for each progress event. Probe events log at
// debug so a large scan does not flood the output; milestones log at info.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event using structured fields.
func (s *LogSink) Consume(_ context.Context, evt progress.Event) error {
	fields := []zap.Field{
		zap.String("run_id", evt.RunUUID().String()),
		zap.String("stage", string(evt.Stage)),
		zap.Int64("candidate_id", evt.CandidateID),
		zap.String("outcome", evt.Outcome),
		zap.Int("attempts", evt.Attempts),
		zap.Int("collected", evt.Collected),
		zap.Duration("dur", evt.Dur),
	}
	if evt.Note != "" {
		fields = append(fields, zap.String("note", evt.Note))
	}
	if evt.Stage == progress.StageProbeDone {
		s.logger.Debug("scan progress", fields...)
		return nil
	}
	s.logger.Info("scan progress", fields...)
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
