package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options controls the variable parts of the pipeline. Zero values fall
// back to the source-compatible defaults.
type Options struct {
	DropThreshold int
	// UseNamedColumns switches the positional column-range drops to the
	// named keep-list variant, which survives reordered extracts.
	UseNamedColumns bool
}

// Pipeline runs the full cleaning and aggregation pass over the two
// surveys. The stages are strictly sequential; any shape violation aborts
// the run with an error rather than being repaired.
type Pipeline struct {
	opts Options
}

// Result carries everything the reporters need: the combined frame and the
// per-category pivot.
type Result struct {
	Combined dataframe.DataFrame
	Pivot    []CategoryRate
}

func NewPipeline(opts Options) *Pipeline {
	if opts.DropThreshold <= 0 {
		opts.DropThreshold = DefaultDropThreshold
	}
	return &Pipeline{opts: opts}
}

// deteKeepColumns is the named allow-list equivalent of the positional
// [28, 49) drop on the DETE extract (pre-normalization headers).
var deteKeepColumns = []string{
	"ID", "SeparationType", "Cease Date", "DETE Start Date",
	"Role Start Date", "Position", "Classification", "Region",
	"Business Unit", "Employment Status", "Career move to public sector",
	"Career move to private sector", "Interpersonal conflicts",
	"Job dissatisfaction", "Dissatisfaction with the department",
	"Physical work environment", "Lack of recognition",
	"Lack of job security", "Work location", "Employment conditions",
	"Maternity/family", "Relocation", "Study/Travel", "Ill Health",
	"Traumatic incident", "Work life balance", "Workload",
	"None of the above", "Gender", "Age", "Aboriginal", "Torres Strait",
	"South Sea", "Disability", "NESB",
}

// tafeKeepColumns is the named equivalent of the positional [17, 66) drop
// on the TAFE extract.
var tafeKeepColumns = []string{
	"Record ID", "Institute", "WorkArea", "CESSATION YEAR",
	"Reason for ceasing employment",
	"Contributing Factors. Career Move - Public Sector ",
	"Contributing Factors. Career Move - Private Sector ",
	"Contributing Factors. Career Move - Self-employment",
	"Contributing Factors. Ill Health",
	"Contributing Factors. Maternity/Family",
	"Contributing Factors. Dissatisfaction",
	"Contributing Factors. Job Dissatisfaction",
	"Contributing Factors. Interpersonal Conflict",
	"Contributing Factors. Study", "Contributing Factors. Travel",
	"Contributing Factors. Other", "Contributing Factors. NONE",
	"Gender. What is your Gender?", "CurrentAge. Current Age",
	"Employment Type. Employment Type", "Classification. Classification",
	"LengthofServiceOverall. Overall Length of Service at Institute (in years)",
	"LengthofServiceCurrent. Length of Service at current workplace (in years)",
}

// CleanDete runs the DETE-specific stages: positional drop, header
// normalization, resignation filter (substring match), tenure derivation
// from cease and start years, and dissatisfaction classification.
func (p *Pipeline) CleanDete(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	var err error
	if p.opts.UseNamedColumns {
		df, err = KeepColumns(df, deteKeepColumns)
	} else {
		df, err = DropColumnRange(df, DeteDropFrom, DeteDropTo)
	}
	if err != nil {
		return df, fmt.Errorf("dete column drop: %w", err)
	}

	df = NormalizeHeaders(df)
	if df.Err != nil {
		return df, fmt.Errorf("dete header normalization: %w", df.Err)
	}

	df = FilterResignations(df, false)
	if df.Err != nil {
		return df, fmt.Errorf("dete resignation filter: %w", df.Err)
	}

	df = DeriveInstituteService(df, "dete_start_date")
	if df.Err != nil {
		return df, fmt.Errorf("dete tenure derivation: %w", df.Err)
	}

	df = ClassifyDissatisfied(df, DeteFactorColumns)
	if df.Err != nil {
		return df, fmt.Errorf("dete dissatisfaction classifier: %w", df.Err)
	}
	return TagInstitute(df, InstituteDete), nil
}

// CleanTafe runs the TAFE-specific stages: positional drop, header rename
// to the shared vocabulary, resignation filter (exact match), and
// dissatisfaction classification. TAFE already carries institute_service
// and is passed through the tenure stage unchanged.
func (p *Pipeline) CleanTafe(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	var err error
	if p.opts.UseNamedColumns {
		df, err = KeepColumns(df, tafeKeepColumns)
	} else {
		df, err = DropColumnRange(df, TafeDropFrom, TafeDropTo)
	}
	if err != nil {
		return df, fmt.Errorf("tafe column drop: %w", err)
	}

	df = RenameColumns(df, TafeRenames)
	if df.Err != nil {
		return df, fmt.Errorf("tafe header rename: %w", df.Err)
	}

	df = FilterResignations(df, true)
	if df.Err != nil {
		return df, fmt.Errorf("tafe resignation filter: %w", df.Err)
	}

	df = ClassifyDissatisfied(df, TafeFactorColumns)
	if df.Err != nil {
		return df, fmt.Errorf("tafe dissatisfaction classifier: %w", df.Err)
	}
	return TagInstitute(df, InstituteTafe), nil
}

// Run executes the whole pipeline over the two raw frames.
func (p *Pipeline) Run(dete, tafe dataframe.DataFrame) (*Result, error) {
	dete, err := p.CleanDete(dete)
	if err != nil {
		return nil, err
	}
	tafe, err = p.CleanTafe(tafe)
	if err != nil {
		return nil, err
	}

	// The derived DETE tenure is numeric while TAFE's is mixed text like
	// "5-6" or "More than 20 years". Concatenation coerces the right frame
	// into the left column's type, so the column goes back to strings here
	// and the categorizer re-parses it after the combine.
	dete = asStringColumn(dete, "institute_service")
	if dete.Err != nil {
		return nil, fmt.Errorf("institute_service conversion: %w", dete.Err)
	}

	combined, err := Combine(dete, tafe, p.opts.DropThreshold)
	if err != nil {
		return nil, err
	}

	combined = CategorizeService(combined)
	if combined.Err != nil {
		return nil, fmt.Errorf("service categorization: %w", combined.Err)
	}

	combined = FillDissatisfied(combined)
	if combined.Err != nil {
		return nil, fmt.Errorf("dissatisfaction fill: %w", combined.Err)
	}

	pivot, err := PivotDissatisfaction(combined)
	if err != nil {
		return nil, err
	}
	return &Result{Combined: combined, Pivot: pivot}, nil
}

func asStringColumn(df dataframe.DataFrame, name string) dataframe.DataFrame {
	col := df.Col(name)
	if col.Err != nil {
		return df
	}
	return df.Mutate(series.New(col.Records(), series.String, name))
}
