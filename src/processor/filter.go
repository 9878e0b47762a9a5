package processor

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const separationColumn = "separationtype"

// FilterResignations selects the rows whose separation type indicates a
// resignation. DETE records compound reasons like "Resignation-Other
// reasons", so the match is a substring test; TAFE records the bare word,
// so the match is exact. The asymmetry follows the source data conventions
// and must not be unified.
func FilterResignations(df dataframe.DataFrame, exact bool) dataframe.DataFrame {
	if exact {
		return df.Filter(dataframe.F{
			Colname:    separationColumn,
			Comparator: series.Eq,
			Comparando: "Resignation",
		})
	}
	return df.Filter(dataframe.F{
		Colname:    separationColumn,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && strings.Contains(el.String(), "Resignation")
		},
	})
}
