package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportHistoryXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.xlsx")
	history := []float64{8, 4, 2, 0.5, 0.25}
	record := createTestRun("xlsx-run")

	if err := ExportHistoryXLSX(path, record, history); err != nil {
		t.Fatalf("ExportHistoryXLSX failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Workbook not written: %v", err)
	}

	read, err := ReadHistoryXLSX(path)
	if err != nil {
		t.Fatalf("ReadHistoryXLSX failed: %v", err)
	}
	if len(read) != len(history) {
		t.Fatalf("Expected %d entries, got %d", len(history), len(read))
	}
	for i := range history {
		if read[i] != history[i] {
			t.Errorf("Generation %d: expected %f, got %f", i+1, history[i], read[i])
		}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	id, err := f.GetCellValue(summarySheet, "B1")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if id != "xlsx-run" {
		t.Errorf("Expected run ID in summary, got %q", id)
	}
}

func TestExportHistoryXLSX_WithoutRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.xlsx")

	if err := ExportHistoryXLSX(path, nil, nil); err != nil {
		t.Fatalf("ExportHistoryXLSX failed: %v", err)
	}

	read, err := ReadHistoryXLSX(path)
	if err != nil {
		t.Fatalf("ReadHistoryXLSX failed: %v", err)
	}
	if len(read) != 0 {
		t.Errorf("Expected empty history, got %v", read)
	}
}

func TestReadHistoryXLSX_Missing(t *testing.T) {
	if _, err := ReadHistoryXLSX(filepath.Join(t.TempDir(), "none.xlsx")); err == nil {
		t.Error("Expected error for missing workbook")
	}
}
