package services

import "time"

type ScanResult struct {
	ScanID   string
	Roots    []string
	Files    int64
	Dirs     int64
	Duration time.Duration
}

type ScanProgress struct {
	ScanID  string
	Scanned int64
	Current string
}
