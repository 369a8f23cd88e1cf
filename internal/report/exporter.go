package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/bgcoach/internal/progress"
)

// Exporter writes learner progress to an xlsx workbook: one sheet with the
// per-item records and one with the aggregate statistics
type Exporter struct {
	store *progress.Store
}

// New creates an exporter reading from the given progress store
func New(store *progress.Store) *Exporter {
	return &Exporter{store: store}
}

var progressHeader = []string{
	"Item", "Mastery", "Attempts", "Correct", "Accuracy",
	"Avg response (ms)", "Hints", "First seen", "Last review", "Next due",
}

// WriteReport writes the workbook to the given path
func (e *Exporter) WriteReport(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const progressSheet = "Progress"
	f.SetSheetName("Sheet1", progressSheet)

	for col, title := range progressHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %v", err)
		}
		if err := f.SetCellValue(progressSheet, cell, title); err != nil {
			return fmt.Errorf("failed to write header: %v", err)
		}
	}

	for i, rec := range e.store.Records() {
		nextDue := ""
		if rec.NextDueDate != nil {
			nextDue = rec.NextDueDate.Format(time.RFC3339)
		}
		values := []interface{}{
			rec.ItemID,
			rec.MasteryLevel,
			rec.TotalAttempts,
			rec.CorrectAttempts,
			rec.Accuracy(),
			rec.AverageResponseTimeMs,
			rec.TotalHintsUsed,
			rec.FirstSeenDate.Format(time.RFC3339),
			rec.LastReviewDate.Format(time.RFC3339),
			nextDue,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %v", err)
			}
			if err := f.SetCellValue(progressSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row: %v", err)
			}
		}
	}

	if err := e.writeSummary(f); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %v", err)
	}
	return nil
}

func (e *Exporter) writeSummary(f *excelize.File) error {
	const sheet = "Summary"
	f.NewSheet(sheet)

	stats := e.store.Statistics()
	rows := []struct {
		label string
		value interface{}
	}{
		{"Items practiced", stats.TotalItems},
		{"Total attempts", stats.TotalAttempts},
		{"Total correct", stats.TotalCorrect},
		{"Overall accuracy", stats.OverallAccuracy},
		{"Average mastery", stats.AverageMastery},
		{"Mastered items", stats.MasteredItems},
		{"Items needing attention", stats.ItemsNeedingAttention},
		{"Current streak", stats.CurrentStreak},
		{"Longest streak", stats.LongestStreak},
		{"Practice days (last 7)", stats.PracticeDaysLastWeek},
		{"Avg response ms (last 7 days)", stats.AvgResponseTimeMsWeek},
	}
	for i, row := range rows {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(sheet, labelCell, row.label); err != nil {
			return fmt.Errorf("failed to write summary label: %v", err)
		}
		if err := f.SetCellValue(sheet, valueCell, row.value); err != nil {
			return fmt.Errorf("failed to write summary value: %v", err)
		}
	}
	return nil
}
