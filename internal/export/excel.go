package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/cv-matcher/internal/render"
	"github.com/spigell/cv-matcher/internal/utils"
)

const (
	matchesSheet = "Matches"
	summarySheet = "Summary"
)

var matchesHeader = []string{"Rank", "Job title", "Score", "Rating", "Assessment", "Strengths", "To improve"}

// ToExcel writes a workbook with a ranked matches sheet and a summary sheet.
func (r *Report) ToExcel(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", matchesSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	if err := r.writeMatches(f); err != nil {
		return fmt.Errorf("write matches sheet: %w", err)
	}
	if err := r.writeSummary(f); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (r *Report) writeMatches(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4F46E5"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for col, title := range matchesHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(matchesSheet, cell, title); err != nil {
			return err
		}
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(matchesHeader), 1)
	if err := f.SetCellStyle(matchesSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for idx, m := range r.Matches {
		row := []any{
			idx + 1,
			m.JobTitle,
			m.SemanticScore,
			render.Rate(m.SemanticScore).Label,
			m.Reasoning,
			strings.Join(m.Strengths, ", "),
			strings.Join(m.SkillGaps, ", "),
		}

		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(matchesSheet, cell, &row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(matchesSheet, "B", "B", 30)
	_ = f.SetColWidth(matchesSheet, "E", "E", 60)
	_ = f.SetColWidth(matchesSheet, "F", "G", 40)

	return nil
}

func (r *Report) writeSummary(f *excelize.File) error {
	rows := [][]any{
		{"Generated at", r.GeneratedAt.Format(time.RFC3339)},
		{"Submission", r.SubmissionID},
		{"Matches", len(r.Matches)},
	}

	if r.Candidate != nil {
		rows = append(rows,
			[]any{"File", r.Candidate.Name},
			[]any{"Size", utils.HumanSize(r.Candidate.Size)},
		)
	}

	for idx := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[idx]); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 20)
	_ = f.SetColWidth(summarySheet, "B", "B", 45)

	return nil
}
