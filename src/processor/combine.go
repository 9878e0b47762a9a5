package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nicholasarchambault/employee-exit-surveys/src/utils"
)

// Institute labels tagged onto every combined row.
const (
	InstituteDete = "DETE"
	InstituteTafe = "TAFE"
)

// DefaultDropThreshold is the minimum count of non-null values a column
// needs across the combined table to survive the combine step.
const DefaultDropThreshold = 500

// TagInstitute stamps every row with its source survey.
func TagInstitute(df dataframe.DataFrame, institute string) dataframe.DataFrame {
	labels := make([]string, df.Nrow())
	for i := range labels {
		labels[i] = institute
	}
	return df.Mutate(series.New(labels, series.String, "institute"))
}

// Combine performs a schema-union concatenation of the two cleaned frames
// (columns absent from one side become NA in its rows) and then drops
// every column whose non-null count across the combined table falls below
// the threshold. Which columns survive is data-dependent and decided at
// combine time, uniformly over the whole table rather than per source.
func Combine(dete, tafe dataframe.DataFrame, threshold int) (dataframe.DataFrame, error) {
	combined := dete.Concat(tafe)
	if combined.Err != nil {
		return combined, fmt.Errorf("failed to concatenate surveys: %w", combined.Err)
	}
	combined = rematerialize(combined)
	if combined.Err != nil {
		return combined, fmt.Errorf("failed to normalize combined frame: %w", combined.Err)
	}
	return DropSparseColumns(combined, threshold)
}

// rematerialize rebuilds every column from its string records. Concat pads
// columns present only in the left frame with the literal string "NaN"
// instead of a missing value; parsing the records back through series.New
// turns those cells into real NA, so null counting and rendering agree on
// what is missing.
func rematerialize(df dataframe.DataFrame) dataframe.DataFrame {
	cols := make([]series.Series, df.Ncol())
	for i, name := range df.Names() {
		col := df.Col(name)
		cols[i] = series.New(col.Records(), col.Type(), name)
	}
	return dataframe.New(cols...)
}

// DropSparseColumns removes columns with fewer than threshold non-null
// values.
func DropSparseColumns(df dataframe.DataFrame, threshold int) (dataframe.DataFrame, error) {
	var keep []string
	for _, name := range df.Names() {
		if utils.CountNonNull(df, name) >= threshold {
			keep = append(keep, name)
		}
	}
	if len(keep) == 0 {
		return df, fmt.Errorf("no column has %d or more non-null values", threshold)
	}
	selected := df.Select(keep)
	if selected.Err != nil {
		return df, fmt.Errorf("failed to drop sparse columns: %w", selected.Err)
	}
	return selected, nil
}
