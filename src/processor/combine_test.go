package processor

import (
	"fmt"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nicholasarchambault/employee-exit-surveys/src/utils"
)

func TestTagInstitute(t *testing.T) {
	df := dataframe.New(series.New([]string{"1", "2"}, series.String, "id"))
	out := TagInstitute(df, InstituteDete)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	for _, v := range out.Col("institute").Records() {
		if v != InstituteDete {
			t.Errorf("institute tag = %q, want %q", v, InstituteDete)
		}
	}
}

func TestCombineUnionsColumns(t *testing.T) {
	dete := dataframe.New(
		series.New([]string{"1"}, series.String, "id"),
		series.New([]string{"only in dete"}, series.String, "dete_only"),
	)
	tafe := dataframe.New(
		series.New([]string{"2"}, series.String, "id"),
		series.New([]string{"only in tafe"}, series.String, "tafe_only"),
	)

	out, err := Combine(dete, tafe, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Nrow() != 2 {
		t.Fatalf("combined %d rows, want 2", out.Nrow())
	}
	for _, name := range []string{"id", "dete_only", "tafe_only"} {
		if !utils.HasColumn(out, name) {
			t.Fatalf("missing column %q, have %v", name, out.Names())
		}
	}
	if !out.Col("tafe_only").Elem(0).IsNA() {
		t.Errorf("dete row should have NA in tafe_only")
	}
	if !out.Col("dete_only").Elem(1).IsNA() {
		t.Errorf("tafe row should have NA in dete_only")
	}
}

// sparseColumn builds a string series of length total with the first
// nonNull values populated and the rest missing.
func sparseColumn(name string, total, nonNull int) series.Series {
	values := make([]string, total)
	for i := range values {
		if i < nonNull {
			values[i] = fmt.Sprintf("v%d", i)
		} else {
			values[i] = "NaN"
		}
	}
	return series.New(values, series.String, name)
}

func TestCombineDropsSparseSingleSourceColumn(t *testing.T) {
	const deteRows, tafeRows = 100, 450
	dete := dataframe.New(
		sparseColumn("id", deteRows, deteRows),
		sparseColumn("dete_only", deteRows, deteRows),
	)
	tafe := dataframe.New(sparseColumn("id", tafeRows, tafeRows))

	// 100 real values against 450 padded rows: the padding must count as
	// missing, so the column falls below the 500 threshold.
	out, err := Combine(dete, tafe, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if utils.HasColumn(out, "dete_only") {
		t.Errorf("column with 100 non-null values survived the 500 threshold")
	}
	if got := utils.CountNonNull(out, "id"); got != deteRows+tafeRows {
		t.Errorf("id has %d non-null values, want %d", got, deteRows+tafeRows)
	}
}

func TestDropSparseColumnsThreshold(t *testing.T) {
	const total = 520
	df := dataframe.New(
		sparseColumn("full", total, total),
		sparseColumn("at_threshold", total, 500),
		sparseColumn("below_threshold", total, 499),
	)

	out, err := DropSparseColumns(df, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utils.HasColumn(out, "full") || !utils.HasColumn(out, "at_threshold") {
		t.Errorf("columns at or above the threshold were dropped: %v", out.Names())
	}
	if utils.HasColumn(out, "below_threshold") {
		t.Errorf("column with 499 non-null values survived")
	}
}

func TestDropSparseColumnsAllSparse(t *testing.T) {
	df := dataframe.New(sparseColumn("sparse", 10, 2))
	if _, err := DropSparseColumns(df, 5); err == nil {
		t.Errorf("expected an error when every column is sparse")
	}
}
