package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/example/bgcoach/internal/progress"
	"github.com/example/bgcoach/internal/storage"
)

func TestWriteReport(t *testing.T) {
	store := progress.New(storage.NewMemoryStore(), progress.DefaultConfig())
	if err := store.RecordDrillResult("bg.future.shte", "fill", "ще", "ще", true, 800, false); err != nil {
		t.Fatalf("RecordDrillResult: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := New(store).WriteReport(path); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	item, err := f.GetCellValue("Progress", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if item != "bg.future.shte" {
		t.Errorf("first progress row item = %q, want bg.future.shte", item)
	}

	label, err := f.GetCellValue("Summary", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if label != "Items practiced" {
		t.Errorf("first summary label = %q, want \"Items practiced\"", label)
	}
}
