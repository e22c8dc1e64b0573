// Package watch observes the projects directory and reports transcript
// changes after a quiet period, so in-progress sessions are not re-analyzed
// on every appended line.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures a watcher.
type Options struct {
	// Debounce is the quiet period after the last write before a change
	// is reported.
	Debounce time.Duration
}

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 5 * time.Second

// Watcher reports batches of changed transcript paths.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
}

// New creates a watcher over the projects directory and all of its project
// subdirectories.
func New(root string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := fsw.Add(filepath.Join(root, e.Name())); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", e.Name(), err)
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fsw: fsw, root: root, debounce: debounce}, nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks until ctx is canceled, invoking onChange with the set of
// transcript paths that changed, once each batch has been quiet for the
// debounce period. New project directories are added to the watch as they
// appear.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// New project directory; watch errors here are
					// transient (the dir may already be gone).
					_ = w.fsw.Add(event.Name)
					continue
				}
			}
			if !isTranscript(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			onChange(paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

func isTranscript(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "agent-") {
		return false
	}
	return strings.HasSuffix(name, ".jsonl")
}
