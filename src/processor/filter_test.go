package processor

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func separationFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"1", "2", "3", "4"}, series.String, "id"),
		series.New([]string{
			"Resignation-Other reasons",
			"Resignation",
			"Age Retirement",
			"Resignation-Move overseas/interstate",
		}, series.String, "separationtype"),
	)
}

func TestFilterResignationsSubstring(t *testing.T) {
	out := FilterResignations(separationFrame(), false)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Nrow() != 3 {
		t.Fatalf("kept %d rows, want 3", out.Nrow())
	}
	for _, id := range out.Col("id").Records() {
		if id == "3" {
			t.Errorf("retirement row was kept")
		}
	}
}

func TestFilterResignationsExact(t *testing.T) {
	out := FilterResignations(separationFrame(), true)
	if out.Err != nil {
		t.Fatalf("unexpected error: %v", out.Err)
	}
	if out.Nrow() != 1 {
		t.Fatalf("kept %d rows, want 1", out.Nrow())
	}
	if got := out.Col("id").Records()[0]; got != "2" {
		t.Errorf("kept row %s, want the bare Resignation row", got)
	}
}
