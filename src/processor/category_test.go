package processor

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func TestServiceYears(t *testing.T) {
	cases := []struct {
		isNA  bool
		value string
		want  float64
	}{
		{false, "5 years", 5},
		{false, "5-6", 5},
		{false, "Less than 1 year", 1},
		{false, "More than 20 years", 20},
		{false, "8.000000", 8},
		{false, "3", 3},
		{true, "", math.NaN()},
		{false, "never", math.NaN()},
		{false, "", math.NaN()},
	}
	for _, c := range cases {
		got := ServiceYears(c.isNA, c.value)
		if math.IsNaN(c.want) {
			if !math.IsNaN(got) {
				t.Errorf("ServiceYears(%v, %q) = %v, want NaN", c.isNA, c.value, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ServiceYears(%v, %q) = %v, want %v", c.isNA, c.value, got, c.want)
		}
	}
}

func TestServiceCategoryBoundaries(t *testing.T) {
	cases := []struct {
		years float64
		want  string
	}{
		{0, CategoryNew},
		{2.9, CategoryNew},
		{3, CategoryExperienced},
		{6, CategoryExperienced},
		{6.9, CategoryExperienced},
		{7, CategoryEstablished},
		{10, CategoryEstablished},
		{11, CategoryVeteran},
		{42, CategoryVeteran},
		{-1, CategoryNew},
		{math.NaN(), "NaN"},
	}
	for _, c := range cases {
		if got := ServiceCategory(c.years); got != c.want {
			t.Errorf("ServiceCategory(%v) = %q, want %q", c.years, got, c.want)
		}
	}
}

func TestCategorizeService(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"5 years", "NaN", "11", "2"}, series.String, "institute_service"),
	)
	out := CategorizeService(df)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}

	cat := out.Col("service_cat")
	if got := cat.Elem(0).String(); got != CategoryExperienced {
		t.Errorf("row 0: category %q, want %q", got, CategoryExperienced)
	}
	if !cat.Elem(1).IsNA() {
		t.Errorf("row 1: unknown tenure must give an unknown category, not New")
	}
	if got := cat.Elem(2).String(); got != CategoryVeteran {
		t.Errorf("row 2: category %q, want %q", got, CategoryVeteran)
	}
	if got := cat.Elem(3).String(); got != CategoryNew {
		t.Errorf("row 3: category %q, want %q", got, CategoryNew)
	}

	svc := out.Col("institute_service")
	if got := svc.Elem(0).Float(); got != 5 {
		t.Errorf("institute_service was not re-parsed: %v", got)
	}
	if !svc.Elem(1).IsNA() {
		t.Errorf("missing tenure must stay missing after re-parse")
	}
}
