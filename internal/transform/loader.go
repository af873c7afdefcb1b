package transform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"casestudy-mapper/internal/common"
)

const reloadDebounce = 100 * time.Millisecond

// Loader keeps the registry in sync with definition files matched by a set
// of glob patterns. Each file owns the ids it registered: reloading a file
// replaces them, removing it unregisters them.
type Loader struct {
	registry *Registry
	patterns []string
	logger   *slog.Logger

	mu     sync.Mutex
	byFile map[string][]string
	done   chan struct{}
}

// NewLoader creates a loader for the given patterns.
func NewLoader(r *Registry, patterns []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{
		registry: r,
		patterns: slices.Clone(patterns),
		logger:   logger.With("component", "definition-loader"),
		byFile:   make(map[string][]string),
	}
}

// LoadAll loads every file matched by the patterns. A broken file does not
// stop the others from loading; all failures are returned joined.
func (l *Loader) LoadAll() error {
	files, err := ExpandGlobs(l.patterns)
	if err != nil {
		return err
	}

	var errs []error

	for _, f := range files {
		if err := l.Reload(f); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Reload (re)loads one file. On a parse error the previously loaded
// definitions of that file stay registered.
func (l *Loader) Reload(path string) error {
	path = filepath.Clean(path)

	defs, err := LoadDefinitionFile(path)
	if err != nil {
		l.logger.Warn("definition file rejected", "path", path, "error", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ids := make([]string, 0, len(defs))
	for _, def := range defs {
		if err := l.registry.Register(def); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		ids = append(ids, def.ID)
	}

	for _, old := range l.byFile[path] {
		if !slices.Contains(ids, old) {
			l.registry.Unregister(old)
		}
	}

	l.byFile[path] = ids
	l.logger.Info("definitions loaded", "path", path, "count", len(ids))

	return nil
}

// Forget unregisters the definitions loaded from path.
func (l *Loader) Forget(path string) int {
	path = filepath.Clean(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.byFile[path]
	for _, id := range ids {
		l.registry.Unregister(id)
	}

	delete(l.byFile, path)

	if len(ids) > 0 {
		l.logger.Info("definitions removed", "path", path, "count", len(ids))
	}

	return len(ids)
}

// Files returns the files with loaded definitions, sorted.
func (l *Loader) Files() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return common.SortedKeys(l.byFile)
}

// Watch starts watching the pattern base directories and reloads files as
// they change. It returns once the watcher is set up; the watch loop ends
// when ctx is canceled, after which Done is closed.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, dir := range l.baseDirs() {
		if err := addRecursive(watcher, dir); err != nil {
			_ = watcher.Close()
			return err
		}
	}

	done := make(chan struct{})

	l.mu.Lock()
	l.done = done
	l.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(done)
		defer watcher.Close()

		return l.loop(ctx, watcher)
	}, lifecycle.WithErrorHandler(func(err error) {
		l.logger.Error("definition watcher stopped", "error", err)
	}))

	return nil
}

// Done is closed when the watch loop has exited. It is nil before Watch.
func (l *Loader) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.done
}

func (l *Loader) loop(ctx context.Context, watcher *fsnotify.Watcher) error {
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			l.handle(ctx, watcher, event, timers)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			l.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (l *Loader) handle(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event, timers map[string]*time.Timer) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			_ = addRecursive(watcher, path)
			return
		}
	}

	if !MatchesAny(l.patterns, path) {
		return
	}

	if t, ok := timers[path]; ok {
		t.Stop()
	}

	timers[path] = time.AfterFunc(reloadDebounce, func() {
		if ctx.Err() != nil {
			return
		}

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			l.Forget(path)
			return
		}

		_ = l.Reload(path)
	})
}

// baseDirs returns the static prefix directory of each pattern.
func (l *Loader) baseDirs() []string {
	var dirs []string

	for _, pattern := range l.patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))

		dir := filepath.FromSlash(base)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Clean(dir))
		}
	}

	slices.Sort(dirs)

	return slices.Compact(dirs)
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		return nil
	})
}
