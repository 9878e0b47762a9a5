package processor

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func TestCeaseYear(t *testing.T) {
	cases := []struct {
		isNA  bool
		value string
		want  float64
	}{
		{false, "05/2013", 2013},
		{false, "2012", 2012},
		{false, "01/12/2010", 2010},
		{true, "", math.NaN()},
		{false, "unknown", math.NaN()},
	}
	for _, c := range cases {
		got := CeaseYear(c.isNA, c.value)
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Errorf("CeaseYear(%v, %q) = %v, want NaN", c.isNA, c.value, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("CeaseYear(%v, %q) = %v, want %v", c.isNA, c.value, got, c.want)
		}
	}
}

func TestDeriveInstituteService(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"05/2013", "2010", "NaN", "09/2014"}, series.String, "cease_date"),
		series.New([]string{"2005", "2012", "2001", "NaN"}, series.String, "dete_start_date"),
	)

	out := DeriveInstituteService(df, "dete_start_date")
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}

	col := out.Col("institute_service")
	// 2013-2005 = 8; 2010-2012 = -2 (implausible spans pass through);
	// missing on either side propagates.
	if got := col.Elem(0).Float(); got != 8 {
		t.Errorf("row 0: institute_service = %v, want 8", got)
	}
	if got := col.Elem(1).Float(); got != -2 {
		t.Errorf("row 1: institute_service = %v, want -2", got)
	}
	if !col.Elem(2).IsNA() {
		t.Errorf("row 2: expected missing service for missing cease date")
	}
	if !col.Elem(3).IsNA() {
		t.Errorf("row 3: expected missing service for missing start date")
	}

	if got := out.Col("cease_date").Elem(0).Float(); got != 2013 {
		t.Errorf("cease_date was not rewritten as a year: %v", got)
	}
}

func TestDeriveInstituteServiceMissingColumn(t *testing.T) {
	df := dataframe.New(series.New([]string{"2013"}, series.String, "cease_date"))
	out := DeriveInstituteService(df, "dete_start_date")
	if out.Err == nil {
		t.Errorf("missing start column did not fail")
	}
}
