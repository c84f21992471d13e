package kb

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-imports YAML documents into a knowledge base when they change
// on disk. Rapid saves are collapsed into one import per file.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	kb          *KnowledgeBase
	files       map[string]bool
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.SugaredLogger

	// onImport, when set, is called after every import attempt.
	onImport func(path string, err error)
}

// NewWatcher watches files and imports them into kb. Files are watched
// through their directories so editors that replace files still trigger.
func NewWatcher(kb *KnowledgeBase, files []string, logger *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "kb: create watcher")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	w := &Watcher{
		watcher:     fw,
		kb:          kb,
		files:       make(map[string]bool, len(files)),
		debounceMap: make(map[string]time.Time),
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "kb: resolve %s", f)
		}
		w.files[abs] = true
	}
	return w, nil
}

// Start begins watching. It is non-blocking and a no-op if already running.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := w.watcher.Add(d); err != nil {
			return errors.Wrapf(err, "kb: watch %s", d)
		}
		w.logger.Infow("watching knowledge base directory", "dir", d)
	}

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.logger.Errorw("closing watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorw("watcher error", "error", err)
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}
	w.mu.Lock()
	w.debounceMap[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		changes, err := w.kb.ImportFile(path)
		if err != nil {
			w.logger.Warnw("re-import failed", "file", path, "error", err)
		} else {
			w.logger.Infow("knowledge base reloaded", "file", path, "changes", len(changes))
		}
		if w.onImport != nil {
			w.onImport(path, err)
		}
	}
}
