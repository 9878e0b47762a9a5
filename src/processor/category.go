package processor

import (
	"math"
	"regexp"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Service categories, in ordinal tenure order.
const (
	CategoryNew         = "New"
	CategoryExperienced = "Experienced"
	CategoryEstablished = "Established"
	CategoryVeteran     = "Veteran"
)

// CategoryOrder fixes the ordinal New→Veteran ordering used when the pivot
// is sorted for reporting.
var CategoryOrder = []string{CategoryNew, CategoryExperienced, CategoryEstablished, CategoryVeteran}

var digitRun = regexp.MustCompile(`\d+`)

// ServiceYears extracts the tenure value from a mixed-format cell. The
// combined institute_service column holds plain numbers from one survey
// and strings like "5-6" or "More than 20 years" from the other, so the
// first contiguous digit run is taken. No digits means unknown tenure.
func ServiceYears(isNA bool, value string) float64 {
	if isNA {
		return math.NaN()
	}
	match := digitRun.FindString(value)
	if match == "" {
		return math.NaN()
	}
	years, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return math.NaN()
	}
	return years
}

// ServiceCategory bins a tenure value into one of the four tiers. Tiers
// are checked descending so that low values fall through to New; unknown
// tenure stays unknown rather than defaulting to New. The "NaN" sentinel
// is what a gota string series treats as a missing value.
func ServiceCategory(years float64) string {
	switch {
	case math.IsNaN(years):
		return "NaN"
	case years >= 11:
		return CategoryVeteran
	case years >= 7:
		return CategoryEstablished
	case years >= 3:
		return CategoryExperienced
	}
	return CategoryNew
}

// CategorizeService re-parses institute_service as numeric years and
// attaches the service_cat column. Unknown tenure produces NA in both.
func CategorizeService(df dataframe.DataFrame) dataframe.DataFrame {
	rows := df.Nrow()
	col := df.Col("institute_service")
	if col.Err != nil {
		df.Err = col.Err
		return df
	}

	years := make([]float64, rows)
	categories := make([]string, rows)
	for i := 0; i < rows; i++ {
		el := col.Elem(i)
		years[i] = ServiceYears(el.IsNA(), el.String())
		categories[i] = ServiceCategory(years[i])
	}

	df = df.Mutate(series.New(years, series.Float, "institute_service"))
	return df.Mutate(series.New(categories, series.String, "service_cat"))
}
