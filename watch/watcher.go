// Package watch re-runs checks when files in the working tree change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/gate/logging"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// DefaultIgnorePatterns are always excluded from watching. They use
// .gitignore-style syntax.
var DefaultIgnorePatterns = []string{
	".git",
	"node_modules",
	"target",
	"vendor",
}

// Watcher watches a directory tree and reports batches of changed files.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	matcher  *patternmatcher.PatternMatcher
	debounce time.Duration
	onChange func(paths []string)
	logger   *logrus.Entry

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New creates a Watcher over root. Changed paths are collected and handed
// to onChange as relative paths after the debounce window closes.
// Additional .gitignore-style ignore patterns extend DefaultIgnorePatterns.
func New(root string, ignorePatterns []string, debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	patterns := append(append([]string{}, DefaultIgnorePatterns...), ignorePatterns...)
	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		watcher:  fsw,
		matcher:  matcher,
		debounce: debounce,
		onChange: onChange,
		logger:   logging.NewLogger("watcher"),
		pending:  make(map[string]bool),
	}

	if err := w.addDirs(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// addDirs registers root and its non-ignored subdirectories with fsnotify,
// which does not watch recursively on its own.
func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if rel != "." && w.ignored(rel) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.WithError(err).Warnf("Failed to watch %s", path)
		}
		return nil
	})
}

// ignored reports whether a relative path matches the ignore patterns.
func (w *Watcher) ignored(rel string) bool {
	matched, err := w.matcher.MatchesOrParentMatches(filepath.ToSlash(rel))
	if err != nil {
		return false
	}
	return matched
}

// Run processes filesystem events until ctx is done. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || w.ignored(rel) {
		return
	}

	// New directories must be added to the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirs(event.Name); err != nil {
				w.logger.WithError(err).Warnf("Failed to watch new directory %s", event.Name)
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.ToSlash(rel)] = true

	// Reset the debounce window on every event so a burst of writes
	// produces a single batch.
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}
	// Map iteration order is random; batches must be reproducible.
	sort.Strings(paths)

	w.logger.WithField("files", len(paths)).Debug("Change batch ready")
	w.onChange(paths)
}
