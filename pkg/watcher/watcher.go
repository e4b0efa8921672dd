package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ritzau/movie-graph/pkg/logging"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	ChangeTypeCatalog ChangeType = iota
	ChangeTypeConfig
)

func (t ChangeType) String() string {
	switch t {
	case ChangeTypeCatalog:
		return "catalog"
	case ChangeTypeConfig:
		return "config"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

const batchWindow = 100 * time.Millisecond

// FileWatcher watches the catalog file, and optionally the config file,
// for changes. Editors often replace files instead of writing them, so the
// containing directories are watched and events filtered by path.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]ChangeType // Absolute path -> change type
	events   chan ChangeEvent
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// NewFileWatcher creates a watcher for the catalog at catalogPath
func NewFileWatcher(catalogPath string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher: watcher,
		files:   make(map[string]ChangeType),
		events:  make(chan ChangeEvent, 100),
		done:    make(chan struct{}),
	}

	if err := fw.AddFile(catalogPath, ChangeTypeCatalog); err != nil {
		watcher.Close()
		return nil, err
	}
	return fw, nil
}

// AddFile starts reporting changes of path as changeType
func (fw *FileWatcher) AddFile(path string, changeType ChangeType) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw.mu.Lock()
	fw.files[abs] = changeType
	fw.mu.Unlock()

	logging.Debug("watching file", "path", abs, "type", changeType.String())
	return nil
}

// Start begins watching for file changes
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	count := len(fw.files)
	fw.mu.Unlock()

	logging.Info("started watching files", "count", count)

	go fw.processEvents(ctx)
	return nil
}

func (fw *FileWatcher) classify(name string) (ChangeType, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return 0, false
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	changeType, ok := fw.files[abs]
	return changeType, ok
}

// processEvents filters file system events and batches them by type
func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.watcher.Close()

	pending := make(map[ChangeType][]string)

	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	flush := func() {
		for _, changeType := range []ChangeType{ChangeTypeConfig, ChangeTypeCatalog} {
			paths := pending[changeType]
			if len(paths) == 0 {
				continue
			}
			select {
			case fw.events <- ChangeEvent{Type: changeType, Paths: paths, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			case <-fw.done:
				return
			}
		}
		pending = make(map[ChangeType][]string)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			changeType, ok := fw.classify(event.Name)
			if !ok {
				continue
			}
			logging.Trace("file event", "path", event.Name, "op", event.Op.String())
			pending[changeType] = append(pending[changeType], event.Name)
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events. It is closed when the
// watcher stops.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() error {
	fw.stopOnce.Do(func() {
		close(fw.done)
	})
	return nil
}
