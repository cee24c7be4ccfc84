package ui

import (
	"dupsweep/internal/index"
	"dupsweep/internal/services"
	"dupsweep/internal/session"
)

// Scan messages carry the sequence number of the scan that produced them so
// results of a superseded scan can be dropped.
type scanResultMsg struct {
	seq     int
	summary session.ScanSummary
	err     error
}

type scanProgressMsg struct {
	seq      int
	progress services.ScanProgress
	done     bool
}

type removeResultMsg struct {
	report index.RemovalReport
}
