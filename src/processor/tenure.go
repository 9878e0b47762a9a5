package processor

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CeaseYear extracts the year from a cease-date cell. DETE records dates
// like "08/2012" or a bare "2012"; the trailing slash-delimited token is
// the year. Unparseable or missing cells yield NaN.
func CeaseYear(isNA bool, value string) float64 {
	if isNA {
		return math.NaN()
	}
	parts := strings.Split(strings.TrimSpace(value), "/")
	year, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil {
		return math.NaN()
	}
	return year
}

// DeriveInstituteService computes institute_service = cease year − start
// year for the survey that lacks a direct tenure column. The cease_date
// column is rewritten as a float year in the process, matching the TAFE
// year convention. Durations are not bounds-checked: negative or
// implausible spans pass through, as in the source data.
func DeriveInstituteService(df dataframe.DataFrame, startColumn string) dataframe.DataFrame {
	rows := df.Nrow()
	ceaseCol := df.Col("cease_date")
	startCol := df.Col(startColumn)
	if ceaseCol.Err != nil {
		df.Err = ceaseCol.Err
		return df
	}
	if startCol.Err != nil {
		df.Err = startCol.Err
		return df
	}

	ceaseYears := make([]float64, rows)
	service := make([]float64, rows)
	for i := 0; i < rows; i++ {
		el := ceaseCol.Elem(i)
		ceaseYears[i] = CeaseYear(el.IsNA(), el.String())

		start := startCol.Elem(i).Float()
		if startCol.Elem(i).IsNA() {
			start = math.NaN()
		}
		service[i] = ceaseYears[i] - start
	}

	df = df.Mutate(series.New(ceaseYears, series.Float, "cease_date"))
	return df.Mutate(series.New(service, series.Float, "institute_service"))
}
