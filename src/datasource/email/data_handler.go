// data_handler.go
package email

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nicholasarchambault/employee-exit-surveys/src/datasource/file"
)

// DataFrameWrapper holds the most recently ingested survey frame behind a
// lock, so the refresh loop can swap it while a report is being built.
type DataFrameWrapper struct {
	df dataframe.DataFrame
	mu sync.RWMutex
}

func (d *DataFrameWrapper) GetDF() dataframe.DataFrame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.df
}

func (d *DataFrameWrapper) SetDF(df dataframe.DataFrame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.df = df
}

// ReadAttachment loads a survey-extract attachment into the wrapper,
// dispatching on the filename extension. Workbook attachments need the
// sheet name; CSV attachments take optional extra NA sentinels.
func (d *DataFrameWrapper) ReadAttachment(a *Attachment, sheetName string, naSentinels ...string) error {
	if a == nil {
		return fmt.Errorf("no attachment to read")
	}

	var (
		df  dataframe.DataFrame
		err error
	)
	switch strings.ToLower(filepath.Ext(a.Filename)) {
	case ".xlsx":
		df, err = file.ReadXLSXBytes(a.Content, sheetName)
	case ".csv":
		df = dataframe.ReadCSV(bytes.NewReader(a.Content),
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.WithLazyQuotes(true),
			dataframe.NaNValues(append([]string{"", "NA", "NaN", "N/A"}, naSentinels...)),
		)
		err = df.Err
	default:
		return fmt.Errorf("unsupported attachment type: %s", a.Filename)
	}
	if err != nil {
		return fmt.Errorf("failed to read attachment %s: %w", a.Filename, err)
	}

	d.SetDF(df)
	return nil
}
