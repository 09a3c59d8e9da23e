package store

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	historySheet = "History"
	summarySheet = "Run"
)

// ExportHistoryXLSX writes a workbook with the run summary and its
// per-generation history, ready for external charting.
func ExportHistoryXLSX(path string, record *RunRecord, history []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"Generation", "BestFitness"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(historySheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, fitness := range history {
		row := i + 2
		genCell, _ := excelize.CoordinatesToCellName(1, row)
		fitCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(historySheet, genCell, i+1); err != nil {
			return fmt.Errorf("failed to write generation %d: %w", i+1, err)
		}
		if err := f.SetCellValue(historySheet, fitCell, fitness); err != nil {
			return fmt.Errorf("failed to write generation %d: %w", i+1, err)
		}
	}

	if record != nil {
		if _, err := f.NewSheet(summarySheet); err != nil {
			return fmt.Errorf("failed to create summary sheet: %w", err)
		}
		rows := [][]interface{}{
			{"ID", record.ID},
			{"Problem", record.Config.Problem},
			{"Algorithm", record.Config.Algorithm},
			{"Dimensions", record.Config.Dimensions},
			{"PopulationSize", record.Config.PopulationSize},
			{"Generations", record.Generations},
			{"NumberOfMutagens", record.Config.NumberOfMutagens},
			{"F", record.Config.F},
			{"CR", record.Config.CR},
			{"Seed", record.Config.Seed},
			{"InitialFitness", record.InitialFitness},
			{"BestFitness", record.BestFitness},
		}
		for i, row := range rows {
			for j, v := range row {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
				if err := f.SetCellValue(summarySheet, cell, v); err != nil {
					return fmt.Errorf("failed to write summary: %w", err)
				}
			}
		}
		for i, gene := range record.BestGenotype {
			cell, _ := excelize.CoordinatesToCellName(i+2, len(rows)+1)
			if err := f.SetCellValue(summarySheet, cell, gene); err != nil {
				return fmt.Errorf("failed to write genotype: %w", err)
			}
		}
		labelCell, _ := excelize.CoordinatesToCellName(1, len(rows)+1)
		if err := f.SetCellValue(summarySheet, labelCell, "BestGenotype"); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ReadHistoryXLSX reads the History sheet written by ExportHistoryXLSX.
func ReadHistoryXLSX(path string) ([]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(historySheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read history sheet: %w", err)
	}

	history := make([]float64, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		var fitness float64
		if _, err := fmt.Sscan(row[1], &fitness); err != nil {
			return nil, fmt.Errorf("row %d: invalid fitness %q: %w", i+1, row[1], err)
		}
		history = append(history, fitness)
	}
	return history, nil
}
