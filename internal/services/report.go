package services

import (
	"encoding/json"
	"io"
	"time"

	"dupsweep/internal/domain"
)

const reportVersion = 1

type Report struct {
	Version   int           `json:"version"`
	ScanID    string        `json:"scanId"`
	Roots     []string      `json:"roots"`
	MinSize   uint64        `json:"minSize"`
	Generated time.Time     `json:"generated"`
	Error     string        `json:"error,omitempty"`
	Summary   ReportSummary `json:"summary"`
	Groups    []ReportGroup `json:"groups"`
}

type ReportSummary struct {
	FilesScanned     int64  `json:"filesScanned"`
	Groups           int    `json:"groups"`
	Duplicates       int    `json:"duplicates"`
	ReclaimableBytes uint64 `json:"reclaimableBytes"`
	Reclaimable      string `json:"reclaimable"`
}

type ReportGroup struct {
	Name    string         `json:"name"`
	Size    uint64         `json:"size"`
	Members []ReportMember `json:"members"`
}

type ReportMember struct {
	Path   string `json:"path"`
	Marked bool   `json:"marked"`
}

// BuildReport describes a finished (or aborted) scan. scanErr is recorded
// but does not prevent the partial groups from being reported.
func BuildReport(result ScanResult, minSize uint64, groups []domain.DuplicateGroup, scanErr error) Report {
	report := Report{
		Version:   reportVersion,
		ScanID:    result.ScanID,
		Roots:     append([]string{}, result.Roots...),
		MinSize:   minSize,
		Generated: time.Now().UTC(),
		Summary:   ReportSummary{FilesScanned: result.Files},
		Groups:    make([]ReportGroup, 0, len(groups)),
	}
	if scanErr != nil {
		report.Error = scanErr.Error()
	}
	for _, group := range groups {
		entry := ReportGroup{
			Name:    group.Key.Name,
			Size:    group.Key.Size,
			Members: make([]ReportMember, 0, len(group.Members)),
		}
		for _, member := range group.Members {
			entry.Members = append(entry.Members, ReportMember{Path: member.Path, Marked: member.Marked})
		}
		report.Groups = append(report.Groups, entry)
		report.Summary.Groups++
		report.Summary.Duplicates += len(group.Members) - 1
		report.Summary.ReclaimableBytes += group.Reclaimable()
	}
	report.Summary.Reclaimable = domain.FormatSize(report.Summary.ReclaimableBytes)
	return report
}

func WriteReport(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
