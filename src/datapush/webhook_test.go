// webhook_test.go
package datapush

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/nicholasarchambault/employee-exit-surveys/src/processor"
)

func sampleResult() *processor.Result {
	return &processor.Result{
		Combined: dataframe.New(series.New([]string{"1", "2"}, series.String, "id")),
		Pivot: []processor.CategoryRate{
			{Category: processor.CategoryNew, Rate: 0.25, Count: 4},
		},
	}
}

func TestPushSuccess(t *testing.T) {
	var received Summary
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("malformed payload: %v", err)
		}
		w.Write([]byte(`{"code": 0, "message": "ok"}`))
	}))
	defer srv.Close()

	if err := NewPusher(srv.URL).Push(sampleResult()); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if received.RowCount != 2 {
		t.Errorf("row_count = %d, want 2", received.RowCount)
	}
	if len(received.Categories) != 1 || received.Categories[0].Category != processor.CategoryNew {
		t.Errorf("categories = %+v", received.Categories)
	}
}

func TestPostResponses(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"bare 200", http.StatusOK, "", false},
		{"envelope ok", http.StatusOK, `{"code": 0}`, false},
		{"envelope error", http.StatusOK, `{"code": 7, "message": "bad payload"}`, true},
		{"client error", http.StatusBadRequest, "", true},
		{"server error", http.StatusBadGateway, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := NewPusher(srv.URL).post([]byte(`{}`))
			if tc.wantErr && err == nil {
				t.Errorf("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
