package services

import (
	"context"

	"dupsweep/internal/domain"
)

// RecordSink consumes scanned files. Calls are serialized by the scanner.
type RecordSink interface {
	Ingest(record domain.FileRecord)
}

type Scanner interface {
	Scan(ctx context.Context, req ScanRequest, sink RecordSink) (ScanResult, error)
}
