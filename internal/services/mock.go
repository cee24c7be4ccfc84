package services

import (
	"context"
	"time"

	"dupsweep/internal/domain"
)

// MockScanner replays a fixed set of records and then fails with Err, if
// set. It lets callers exercise partial scans without a filesystem.
type MockScanner struct {
	Records []domain.FileRecord
	Err     error
	Delay   time.Duration
}

func NewMockScanner(records []domain.FileRecord, err error) *MockScanner {
	return &MockScanner{Records: records, Err: err}
}

func (scanner *MockScanner) Scan(ctx context.Context, req ScanRequest, sink RecordSink) (ScanResult, error) {
	start := time.Now()
	if scanner.Delay > 0 {
		select {
		case <-ctx.Done():
			return ScanResult{ScanID: req.ScanID}, ctx.Err()
		case <-time.After(scanner.Delay):
		}
	}
	var files int64
	for _, record := range scanner.Records {
		if ctx.Err() != nil {
			return ScanResult{ScanID: req.ScanID, Files: files}, ctx.Err()
		}
		sink.Ingest(record)
		files++
	}
	return ScanResult{
		ScanID:   req.ScanID,
		Roots:    NormalizeRoots(req.Roots),
		Files:    files,
		Duration: time.Since(start),
	}, scanner.Err
}
