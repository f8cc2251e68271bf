package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more changes before
// handing files over.
const DefaultDebounce = 500 * time.Millisecond

// WatchConfig configures a Watcher.
type WatchConfig struct {
	Dir        string
	Debounce   time.Duration
	Extensions []string
}

// Handler receives the corpus files created or changed since the last
// flush, sorted by path. It runs on the watcher goroutine, so handlers
// that write to the store need no extra locking.
type Handler func(ctx context.Context, paths []string)

// Watcher converts corpus files dropped into a directory tree.
type Watcher struct {
	dir        string
	debounce   time.Duration
	extensions map[string]bool
	fsw        *fsnotify.Watcher
	handle     Handler
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	hashes  map[string]string
}

// NewWatcher creates a watcher over cfg.Dir. Missing extensions default to
// DefaultExtensions, a non-positive debounce to DefaultDebounce.
func NewWatcher(cfg WatchConfig, handle Handler, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extensions := make(map[string]bool, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[strings.ToLower(ext)] = true
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		dir:        cfg.Dir,
		debounce:   cfg.Debounce,
		extensions: extensions,
		fsw:        fsw,
		handle:     handle,
		logger:     logger,
		pending:    make(map[string]struct{}),
		hashes:     make(map[string]string),
	}, nil
}

// Run watches until ctx is cancelled or the underlying watcher fails to
// start. The directory is created if needed.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}
	if err := w.addRecursive(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("Corpus watcher started",
		slog.String("dir", w.dir),
		slog.Duration("debounce", w.debounce))

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if base := d.Name(); strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if !w.extensions[strings.ToLower(filepath.Ext(path))] {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				if err := w.addRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory",
						slog.String("path", path),
						slog.String("error", err.Error()))
				}
			}
		}
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()
	w.logger.Debug("Corpus change detected",
		slog.String("path", path),
		slog.String("op", event.Op.String()))
}

// flush hands over pending files whose content changed since last seen.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	candidates := make([]string, 0, len(w.pending))
	for path := range w.pending {
		candidates = append(candidates, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(candidates)
	var changed []string
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			w.logger.Debug("Skipping unreadable corpus file",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])
		if w.hashes[path] == hash {
			continue
		}
		w.hashes[path] = hash
		changed = append(changed, path)
	}
	if len(changed) > 0 && ctx.Err() == nil {
		w.handle(ctx, changed)
	}
}
