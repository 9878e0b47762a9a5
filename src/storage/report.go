package storage

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"github.com/nicholasarchambault/employee-exit-surveys/src/processor"
)

const (
	combinedSheet = "Combined"
	pivotSheet    = "Pivot"
)

// ReportWriter renders the pipeline result to an Excel workbook: the
// combined records on one sheet, the pivot on another, and a column chart
// of mean dissatisfaction rate per service category embedded next to the
// pivot.
type ReportWriter struct {
	Title string
}

func (w *ReportWriter) Save(result *processor.Result, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", combinedSheet)
	if err := writeDataFrame(f, combinedSheet, result.Combined); err != nil {
		return err
	}

	if _, err := f.NewSheet(pivotSheet); err != nil {
		return fmt.Errorf("failed to create pivot sheet: %w", err)
	}
	if err := w.writePivot(f, result.Pivot); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report workbook: %w", err)
	}
	return nil
}

// writeDataFrame dumps a DataFrame to a sheet, header row first.
func writeDataFrame(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", name, err)
		}
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			el := df.Col(colName).Elem(rowIdx)
			if el.IsNA() {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, el.String()); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func (w *ReportWriter) writePivot(f *excelize.File, pivot []processor.CategoryRate) error {
	headers := []string{"service_cat", "dissatisfied", "count"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(pivotSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write pivot header: %w", err)
		}
	}
	for i, row := range pivot {
		values := []interface{}{row.Category, row.Rate, row.Count}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(pivotSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write pivot row: %w", err)
			}
		}
	}

	if len(pivot) == 0 {
		return nil
	}
	lastRow := len(pivot) + 1
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", pivotSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", pivotSheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", pivotSheet, lastRow),
		}},
		Title: []excelize.RichTextRun{{Text: w.Title}},
		Legend: excelize.ChartLegend{
			Position: "none",
		},
	}
	if err := f.AddChart(pivotSheet, "E2", chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}
