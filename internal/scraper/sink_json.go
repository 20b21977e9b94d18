package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// JSONFileSink writes the assembled records to disk as a single JSON array
// matching the downstream schema.
type JSONFileSink struct {
	path   string
	pretty bool
	logger *zap.Logger
}

// NewJSONFileSink returns a sink writing to path. Parent directories are
// created on demand.
func NewJSONFileSink(path string, pretty bool, logger *zap.Logger) (*JSONFileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path must be set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONFileSink{path: path, pretty: pretty, logger: logger}, nil
}

// Write serializes records to the configured path. A nil slice is written as
// an empty array so the output stays schema-conformant even for a scan that
// found nothing.
func (s *JSONFileSink) Write(ctx context.Context, records []CaseRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	if records == nil {
		records = []CaseRecord{}
	}

	var (
		payload []byte
		err     error
	)
	if s.pretty {
		payload, err = json.MarshalIndent(records, "", "  ")
	} else {
		payload, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write output %s: %w", s.path, err)
	}
	s.logger.Info("output written",
		zap.String("path", s.path),
		zap.Int("records", len(records)),
		zap.Int("bytes", len(payload)),
	)
	return nil
}
