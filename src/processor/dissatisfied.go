package processor

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nicholasarchambault/employee-exit-surveys/src/utils"
)

// Tri is a three-valued boolean. A missing survey answer is a real state
// that must survive the OR reduction, so dissatisfaction is modeled as an
// explicit tri-state instead of a nullable bool.
type Tri int

const (
	TriUnknown Tri = iota
	TriFalse
	TriTrue
)

func (t Tri) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "NaN"
	}
}

// Or is a three-valued logical OR: any true wins; otherwise an unknown
// operand keeps the result unknown, since the missing answer could have
// been true. An unanswered cell never suppresses a true found elsewhere,
// and a row with no true and any missing answer stays unknown instead of
// collapsing to false.
func (t Tri) Or(other Tri) Tri {
	if t == TriTrue || other == TriTrue {
		return TriTrue
	}
	if t == TriUnknown || other == TriUnknown {
		return TriUnknown
	}
	return TriFalse
}

// Contributing-factor columns consulted per survey. The DETE names are the
// post-normalization headers; the TAFE names are raw headers, which the
// rename step leaves untouched.
var (
	DeteFactorColumns = []string{
		"job_dissatisfaction",
		"dissatisfaction_with_the_department",
		"physical_work_environment",
		"lack_of_recognition",
		"lack_of_job_security",
		"work_location",
		"employment_conditions",
		"work_life_balance",
		"workload",
	}
	TafeFactorColumns = []string{
		"Contributing Factors. Dissatisfaction",
		"Contributing Factors. Job Dissatisfaction",
	}
)

// FactorValue maps one contributing-factor cell to a tri-state. A missing
// answer is unknown, the "-" placeholder means the factor was not ticked,
// boolean literals keep their value, and any other answer means the factor
// was cited.
func FactorValue(isNA bool, value string) Tri {
	if isNA {
		return TriUnknown
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "-", "false":
		return TriFalse
	case "true":
		return TriTrue
	}
	return TriTrue
}

// ClassifyDissatisfied reduces the given factor columns to one tri-state
// per row and attaches the result as a "dissatisfied" column. Unknown rows
// become NA in the attached Bool series. Individual factor columns missing
// from a trimmed frame contribute nothing, but a frame carrying none of
// them is a shape violation and fails the run.
func ClassifyDissatisfied(df dataframe.DataFrame, factorColumns []string) dataframe.DataFrame {
	rows := df.Nrow()
	flags := make([]Tri, rows)
	for i := range flags {
		flags[i] = TriFalse // identity of the three-valued OR
	}

	matched := 0
	for _, name := range factorColumns {
		if !utils.HasColumn(df, name) {
			continue
		}
		matched++
		col := df.Col(name)
		for i := 0; i < rows; i++ {
			el := col.Elem(i)
			flags[i] = flags[i].Or(FactorValue(el.IsNA(), el.String()))
		}
	}
	if matched == 0 {
		df.Err = fmt.Errorf("none of the %d factor columns are present", len(factorColumns))
		return df
	}

	records := make([]string, rows)
	for i, t := range flags {
		records[i] = t.String()
	}
	return df.Mutate(series.New(records, series.Bool, "dissatisfied"))
}
