// Package export saves match results to disk.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/matching"
)

const (
	FormatJSON  = "json"
	FormatExcel = "xlsx"
)

// Report is a finished submission ready to be saved.
type Report struct {
	Candidate    *candidate.File   `json:"candidate,omitempty"`
	SubmissionID string            `json:"submission_id,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Matches      []*matching.Match `json:"matches"`
}

func NewReport(file *candidate.File, submissionID string, matches []*matching.Match) *Report {
	return &Report{
		Candidate:    file,
		SubmissionID: submissionID,
		GeneratedAt:  time.Now().UTC(),
		Matches:      matches,
	}
}

// FormatFromPath picks the output format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported export format %q, use .json or .xlsx", ext)
	}
}

// ToFile writes the report in the format implied by the path extension.
func (r *Report) ToFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if format == FormatExcel {
		return r.ToExcel(path)
	}
	return r.ToJSON(path)
}

func (r *Report) ToJSON(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	return nil
}

// DumpToTmpFile writes the report in the given format into a new temporary
// file and returns its name.
func (r *Report) DumpToTmpFile(format string) (string, error) {
	file, err := os.CreateTemp("", "matches_*."+format)
	if err != nil {
		return "", err
	}
	name := file.Name()
	file.Close()

	if err := r.ToFile(name); err != nil {
		return "", err
	}
	return name, nil
}
