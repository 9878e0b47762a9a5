package processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/nicholasarchambault/employee-exit-surveys/src/utils"
)

// Positional column ranges dropped from each survey before cleaning.
// These are index-based on purpose: they are the compatibility target
// against the upstream extracts, and a reordered extract must fail loudly
// rather than be silently reinterpreted.
const (
	DeteDropFrom = 28
	DeteDropTo   = 49
	TafeDropFrom = 17
	TafeDropTo   = 66
)

// TafeRenames maps the nine verbose TAFE headers to the shared vocabulary.
// The keys are a byte-for-byte contract with the TAFE extract.
var TafeRenames = map[string]string{
	"CESSATION YEAR":               "cease_date",
	"Record ID":                    "id",
	"Reason for ceasing employment": "separationtype",
	"Gender. What is your Gender?": "gender",
	"CurrentAge. Current Age":      "age",
	"Employment Type. Employment Type": "employment_status",
	"Classification. Classification":   "position",
	"LengthofServiceOverall. Overall Length of Service at Institute (in years)": "institute_service",
	"LengthofServiceCurrent. Length of Service at current workplace (in years)": "role_service",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a header, trims it, and collapses internal
// whitespace runs to a single underscore.
func NormalizeName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(name)), "_")
}

// NormalizeHeaders applies NormalizeName to every column of the frame.
func NormalizeHeaders(df dataframe.DataFrame) dataframe.DataFrame {
	for _, name := range df.Names() {
		normalized := NormalizeName(name)
		if normalized != name {
			df = df.Rename(normalized, name)
			if df.Err != nil {
				return df
			}
		}
	}
	return df
}

// RenameColumns applies an explicit old->new mapping. Columns absent from
// the frame are left alone; the mapping is a lookup, never an inference.
func RenameColumns(df dataframe.DataFrame, renames map[string]string) dataframe.DataFrame {
	for old, newName := range renames {
		if !utils.HasColumn(df, old) {
			continue
		}
		df = df.Rename(newName, old)
		if df.Err != nil {
			return df
		}
	}
	return df
}

// DropColumnRange drops the positional column range [from, to). An
// out-of-bounds range is fatal for the run, matching the source contract.
func DropColumnRange(df dataframe.DataFrame, from, to int) (dataframe.DataFrame, error) {
	if from < 0 || to > df.Ncol() || from > to {
		return df, fmt.Errorf("column range [%d, %d) out of bounds for %d columns", from, to, df.Ncol())
	}
	if from == to {
		return df, nil
	}
	dropped := df.Drop(utils.IntRange(from, to))
	if dropped.Err != nil {
		return df, fmt.Errorf("failed to drop column range [%d, %d): %w", from, to, dropped.Err)
	}
	return dropped, nil
}

// KeepColumns is the hardened alternative to DropColumnRange: it selects an
// explicit named allow-list, so a reordered extract cannot silently shift
// which columns survive. Names missing from the frame are skipped.
func KeepColumns(df dataframe.DataFrame, names []string) (dataframe.DataFrame, error) {
	var present []string
	for _, name := range names {
		if utils.HasColumn(df, name) {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return df, fmt.Errorf("none of the requested columns are present")
	}
	selected := df.Select(present)
	if selected.Err != nil {
		return df, fmt.Errorf("failed to select columns: %w", selected.Err)
	}
	return selected, nil
}
