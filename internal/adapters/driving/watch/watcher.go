package watch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/plantap/internal/logger"
)

// DefaultSettle is how long a file must stay quiet before it is read.
const DefaultSettle = 200 * time.Millisecond

// Watcher ingests JSON files as they appear in a directory.
type Watcher struct {
	dir      string
	ingester *Ingester
	settle   time.Duration
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, ingester *Ingester, settle time.Duration) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{dir: dir, ingester: ingester, settle: settle}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("watching %s for captured responses", w.dir)

	// Editors and browsers write in several chunks; wait for quiet.
	pending := make(map[string]*time.Timer)
	ready := make(chan string)
	done := make(chan struct{})
	defer func() {
		close(done)
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path, ok := w.handleEvent(event)
			if !ok {
				continue
			}
			if t, exists := pending[path]; exists {
				t.Reset(w.settle)
				continue
			}
			pending[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-done:
				}
			})

		case path := <-ready:
			delete(pending, path)
			if err := w.ingester.IngestFile(ctx, path); err != nil {
				logger.Warn("%v", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleEvent returns the file an event asks to ingest.
// Only creates and writes of visible JSON files count.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !isCandidate(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}
