package services

type ScanRequest struct {
	ScanID string
	Roots  []string
	// Progress receives best-effort updates while the scan runs. The scanner
	// never blocks on it and never closes it.
	Progress chan<- ScanProgress
}
