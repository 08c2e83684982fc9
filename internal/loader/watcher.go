package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ajitpratap0/openclaw-repurpose/internal/graph"
	"github.com/ajitpratap0/openclaw-repurpose/internal/metrics"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Snapshot is one immutable generation of the graph.
type Snapshot struct {
	Graph    *graph.Graph
	Report   *LoadReport
	LoadedAt time.Time
}

// Watcher rebuilds the graph whenever its JSON file changes. Each rebuild
// produces a new Snapshot; earlier snapshots are never modified, so queries
// already running against them are unaffected.
type Watcher struct {
	src      *FileSource
	file     string
	fs       *fsnotify.Watcher
	current  atomic.Pointer[Snapshot]
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher loads the initial snapshot and starts watching the directory
// holding the file. Directories are watched rather than the file itself
// because editors commonly replace files on save.
func NewWatcher(ctx context.Context, src *FileSource, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(src.Path())
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", src.Path(), err)
	}

	w := &Watcher{
		src:      src,
		file:     abs,
		debounce: debounce,
		logger:   logger,
	}
	if _, err := w.reload(ctx); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	w.fs = fsw
	return w, nil
}

// Current returns the most recently loaded snapshot.
func (w *Watcher) Current() *Snapshot {
	return w.current.Load()
}

// Watch emits a snapshot after every successful rebuild until ctx is done.
// A rebuild that fails is logged and the previous snapshot stays current.
func (w *Watcher) Watch(ctx context.Context) <-chan *Snapshot {
	out := make(chan *Snapshot, 1)

	go func() {
		defer close(out)
		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.file {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				pending = time.After(w.debounce)
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("loader: file watcher error", "error", err)
			case <-pending:
				pending = nil
				snap, err := w.reload(ctx)
				if err != nil {
					w.logger.Error("loader: reload failed, keeping previous graph", "file", w.file, "error", err)
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// Close stops watching the file system.
func (w *Watcher) Close() error {
	if w.fs == nil {
		return nil
	}
	return w.fs.Close()
}

func (w *Watcher) reload(ctx context.Context) (*Snapshot, error) {
	g, report, err := Build(ctx, w.src, w.logger)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Graph: g, Report: report, LoadedAt: time.Now().UTC()}
	if w.current.Swap(snap) != nil {
		metrics.Inc(metrics.GraphReloads)
		w.logger.Info("loader: graph reloaded", "file", w.file)
	}
	return snap, nil
}
