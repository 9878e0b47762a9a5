package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CategoryRate is one row of the aggregate report: the mean dissatisfaction
// rate and observation count for a service category.
type CategoryRate struct {
	Category string  `json:"service_cat"`
	Rate     float64 `json:"dissatisfied_rate"`
	Count    int     `json:"count"`
}

// FillDissatisfied resolves unknown dissatisfaction flags to false, the
// majority class. A documented simplification, not a principled
// missing-data strategy; after this step the column is strictly binary.
func FillDissatisfied(df dataframe.DataFrame) dataframe.DataFrame {
	col := df.Col("dissatisfied")
	if col.Err != nil {
		df.Err = col.Err
		return df
	}
	records := make([]string, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		el := col.Elem(i)
		if el.IsNA() {
			records[i] = "false"
			continue
		}
		records[i] = el.String()
	}
	return df.Mutate(series.New(records, series.Bool, "dissatisfied"))
}

// PivotDissatisfaction groups the combined rows by service category and
// computes the mean dissatisfaction rate (0/1) and observation count per
// category. Rows with unknown category are excluded from the grouping,
// and the result is sorted into the ordinal New→Veteran order so the
// rendered chart is stable.
func PivotDissatisfaction(df dataframe.DataFrame) ([]CategoryRate, error) {
	catCol := df.Col("service_cat")
	disCol := df.Col("dissatisfied")
	if catCol.Err != nil || disCol.Err != nil {
		return nil, fmt.Errorf("pivot requires service_cat and dissatisfied columns")
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 0; i < df.Nrow(); i++ {
		if catCol.Elem(i).IsNA() {
			continue
		}
		category := catCol.Elem(i).String()
		flag, err := disCol.Elem(i).Bool()
		if err != nil {
			return nil, fmt.Errorf("dissatisfied not binary at row %d: run the fill step first", i)
		}
		counts[category]++
		if flag {
			sums[category]++
		}
	}

	var pivot []CategoryRate
	for _, category := range CategoryOrder {
		count, ok := counts[category]
		if !ok {
			continue
		}
		pivot = append(pivot, CategoryRate{
			Category: category,
			Rate:     sums[category] / float64(count),
			Count:    count,
		})
	}
	return pivot, nil
}
