package importer

import (
	"path/filepath"
	"testing"
	"time"

	"staypivot/internal/model"
)

func TestWriteReport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "run.json")
	report := &model.RunReport{
		RunID:      "run-1",
		InputPath:  "in.xlsx",
		DateBlocks: 30,
		Customers:  12,
		BadDates:   1,
		Status:     model.RunStatusCompleted,
		Summary: model.Summary{
			Records: 359,
			First:   time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	got, err := ReadReport(path)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if got.RunID != "run-1" || got.Summary.Records != 359 || got.Status != model.RunStatusCompleted {
		t.Fatalf("report=%+v", got)
	}
	if !got.Summary.First.Equal(report.Summary.First) {
		t.Fatalf("First=%v, want %v", got.Summary.First, report.Summary.First)
	}
}
