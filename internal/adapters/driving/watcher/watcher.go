// Package watcher ingests papers dropped into a watched directory.
// It is a driving adapter: filesystem events from fsnotify are turned
// into IngestFile calls on the core.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

// debounceWindow is how long a file must stay quiet before it is
// ingested. Editors and downloads write in bursts; ingesting on the
// first event would read a half-written file.
const debounceWindow = 2 * time.Second

// Watcher watches a directory and ingests new or changed papers.
type Watcher struct {
	ingest  driving.IngestService
	dir     string
	ownerID string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher over dir that ingests on behalf of ownerID.
func New(ingest driving.IngestService, dir, ownerID string) (*Watcher, error) {
	if ingest == nil {
		return nil, fmt.Errorf("ingest service is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path %s is not a directory", dir)
	}

	return &Watcher{
		ingest:  ingest,
		dir:     dir,
		ownerID: ownerID,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run watches the directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for papers", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watch error: %v", err)
		}
	}
}

// handleEvent schedules ingestion for create and write events on
// supported files. Repeated events within the debounce window reset
// the timer so a file is ingested once, after it settles.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !ingestable(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[event.Name]; ok {
		timer.Reset(debounceWindow)
		return
	}

	path := event.Name
	w.pending[path] = time.AfterFunc(debounceWindow, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ingestPath(ctx, path)
	})
}

func (w *Watcher) ingestPath(ctx context.Context, path string) {
	doc, chunks, err := w.ingest.IngestFile(ctx, path, w.ownerID)
	if err != nil {
		logger.Error("Failed to ingest %s: %v", path, err)
		return
	}
	logger.Info("Ingested %q (%d chunks)", doc.Title, chunks)
}

// ingestable reports whether the path looks like a paper the pipeline
// can read. Hidden files and unsupported extensions are skipped.
func ingestable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}
