// monitor_test.go
package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startMonitor(t *testing.T, dir string, tracked ...string) <-chan string {
	t.Helper()
	monitor, err := NewMonitor(dir, tracked...)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}
	t.Cleanup(func() { monitor.Close() })

	events := make(chan string, 4)
	go monitor.Watch(func(path string) {
		events <- path
	})
	// let the watcher settle before writing
	time.Sleep(100 * time.Millisecond)
	return events
}

func TestMonitorFiresOnTrackedWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dete_survey.csv")
	if err := os.WriteFile(target, []byte("ID\n1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	events := startMonitor(t, dir, target)

	if err := os.WriteFile(target, []byte("ID\n1\n2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-events:
		if filepath.Base(path) != "dete_survey.csv" {
			t.Errorf("fired for %q", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never fired for the tracked file")
	}
}

func TestMonitorIgnoresUntrackedFiles(t *testing.T) {
	dir := t.TempDir()
	events := startMonitor(t, dir, filepath.Join(dir, "dete_survey.csv"))

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-events:
		t.Errorf("fired for untracked file %q", path)
	case <-time.After(500 * time.Millisecond):
	}
}
