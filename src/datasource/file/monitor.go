// monitor.go
package file

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Monitor watches the survey data directory and fires the handler when one
// of the tracked files is rewritten, so a fresh extract re-runs the
// pipeline without a restart.
type Monitor struct {
	watchDir string
	tracked  map[string]bool
	watcher  *fsnotify.Watcher
	lastMod  time.Time
	mu       sync.Mutex
}

// NewMonitor watches dir. With no tracked names every write in the
// directory fires; with names given only writes to those files do.
func NewMonitor(dir string, tracked ...string) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	names := make(map[string]bool, len(tracked))
	for _, name := range tracked {
		names[filepath.Base(name)] = true
	}
	return &Monitor{
		watchDir: dir,
		tracked:  names,
		watcher:  watcher,
	}, nil
}

func (m *Monitor) Close() error {
	return m.watcher.Close()
}

// Watch blocks, invoking handler with the changed path. Each distinct
// modification fires at most once, and the handler runs synchronously so
// rapid successive writes cannot trigger overlapping invocations.
func (m *Monitor) Watch(handler func(string)) error {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}
			if len(m.tracked) > 0 && !m.tracked[filepath.Base(event.Name)] {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			m.mu.Lock()
			fresh := info.ModTime().After(m.lastMod)
			if fresh {
				m.lastMod = info.ModTime()
			}
			m.mu.Unlock()
			if fresh {
				handler(event.Name)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
