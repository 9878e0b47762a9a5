// reader.go
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
)

// Values every loader treats as missing. Survey extracts mix empty cells
// with spelled-out markers, and an empty cell must come through as NA so
// the dissatisfaction classifier can tell "unanswered" from "-".
var baseNaNValues = []string{"", "NA", "NaN", "N/A"}

// ReadCSV loads a delimited survey extract into a DataFrame. Every column
// is kept as a string series; the pipeline coerces types explicitly where
// it needs them. Additional sentinels (e.g. "Not Stated" in the DETE
// extract) are treated as missing alongside the base set.
func ReadCSV(path string, naSentinels ...string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(append(append([]string{}, baseNaNValues...), naSentinels...)),
	)
	if df.Err != nil {
		return df, fmt.Errorf("failed to parse csv file %s: %w", path, df.Err)
	}
	return df, nil
}

// ReadXLSX loads one sheet of a workbook into a DataFrame. Some survey
// exports arrive as workbooks (typically off the mailbox); the first row
// is the header row.
func ReadXLSX(path, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to open xlsx file: %w", err)
	}
	return sheetToDataFrame(xlFile, sheetName)
}

// ReadXLSXBytes is the in-memory variant used for email attachments.
func ReadXLSXBytes(data []byte, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.New(), fmt.Errorf("failed to open xlsx data: %w", err)
	}
	return sheetToDataFrame(xlFile, sheetName)
}

func sheetToDataFrame(xlFile *xlsx.File, sheetName string) (dataframe.DataFrame, error) {
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("workbook has no sheets")
	}
	sheet, ok := xlFile.Sheet[sheetName]
	if !ok {
		return dataframe.New(), fmt.Errorf("sheet %q not found", sheetName)
	}
	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame converts an xlsx.Sheet to a DataFrame. The first
// row is the header; every cell is kept as a string, with empty cells
// mapped to NA to match the CSV loader.
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 1 {
		return dataframe.New(), fmt.Errorf("sheet is empty")
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}
	if len(headers) == 0 {
		return dataframe.New(), fmt.Errorf("sheet has no header row")
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}
	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			value := ""
			if i < len(row.Cells) {
				value = row.Cells[i].Value
			}
			if value == "" {
				value = "NaN"
			}
			columns[i] = append(columns[i], value)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}
	return dataframe.New(seriesList...), nil
}

// ReadSurvey dispatches on the file extension, so a survey input can be
// either a flat CSV extract or a workbook export.
func ReadSurvey(path, sheetName string, naSentinels ...string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, sheetName)
	default:
		return ReadCSV(path, naSentinels...)
	}
}
