// SPDX-License-Identifier: MPL-2.0

// Package watch monitors directory trees and reports debounced batches of
// changed files.
//
// Events within the debounce window are coalesced so the callback fires once
// with the full, deduplicated set of changed absolute paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the callback after the last
// filesystem event. Editors that write a temp file and rename it produce
// several events per save.
const defaultDebounce = 300 * time.Millisecond

// ErrAlreadyStarted is returned when Run is called a second time.
var ErrAlreadyStarted = errors.New("watch: Run called more than once")

// defaultIgnores lists path patterns that never trigger callbacks.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.#*",
	"**/.DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are the directories to watch recursively. Roots that do not
		// exist are skipped.
		Roots []string

		// Patterns are doublestar globs matched against the path relative to
		// its root. An empty slice accepts every non-ignored file.
		Patterns []string

		// Ignore are additional doublestar globs merged with the defaults.
		Ignore []string

		// Debounce is the quiet period after the last event. Zero or negative
		// values fall back to the default.
		Debounce time.Duration

		// OnChange receives the absolute paths changed since the previous
		// call. Calls never overlap.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives skipped paths and callback errors. nil discards.
		Logger *log.Logger
	}

	// Watcher monitors Roots and fires OnChange for matching files.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		roots    []string
		ignores  []string
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool
	}
)

// New creates a Watcher and registers every non-ignored directory under
// each existing root.
func New(cfg Config) (*Watcher, error) {
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		logger:   logger,
	}

	for _, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: resolve root %q: %w", root, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			logger.Debug("watch: skipping missing root", "root", abs)
			continue
		}
		if err := w.addTree(abs); err != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, err
		}
		w.roots = append(w.roots, abs)
	}

	return w, nil
}

// Roots returns the absolute roots being watched.
func (w *Watcher) Roots() []string { return slices.Clone(w.roots) }

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			// Retry later so the pending batch is not lost.
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Warn("watch: callback failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Debug("watch: close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.accepts(evt.Name) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// addTree registers root and every non-ignored directory beneath it.
func (w *Watcher) addTree(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("watch: skipping inaccessible path", "path", path, "error", err)
			return nil //nolint:nilerr // inaccessible subtrees are skipped
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." && w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk %q: %w", root, walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if rel, ok := w.relative(path); ok && w.isIgnored(rel+"/") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch: add new directory", "path", path, "error", err)
	}
}

// relative returns path relative to the root containing it.
func (w *Watcher) relative(path string) (string, bool) {
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel) {
			return rel, true
		}
	}
	return "", false
}

// accepts reports whether an event on path should be reported.
func (w *Watcher) accepts(path string) bool {
	rel, ok := w.relative(path)
	if !ok || w.isIgnored(rel) {
		return false
	}
	if len(w.cfg.Patterns) == 0 {
		return true
	}
	return matchAny(w.cfg.Patterns, rel)
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:2] == ".." && os.IsPathSeparator(rel[2])
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q", label, pat)
		}
	}
	return nil
}
