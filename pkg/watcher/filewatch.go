package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the polling fallback stats the file.
const DefaultPollInterval = 2 * time.Second

// FileWatcher observes a single file and reports changes, debounced.
type FileWatcher interface {
	// Watch starts watching. The callback runs on the watcher's own
	// goroutine after the debounce window closes.
	Watch() error

	// Close stops watching and releases resources.
	Close() error
}

// New returns a watcher for path, preferring fsnotify and falling back
// to modification-time polling when the platform has no native support.
func New(path string, onChange func()) (FileWatcher, error) {
	fw, err := NewFsnotifyWatcher(path, DefaultDebounceDuration, onChange)
	if err == nil {
		if err := fw.Watch(); err == nil {
			return &started{fw}, nil
		}
		fw.Close()
	}

	pw := NewPollingWatcher(path, DefaultPollInterval, onChange)
	if err := pw.Watch(); err != nil {
		return nil, err
	}
	return &started{pw}, nil
}

// started wraps an already-watching FileWatcher so its Watch is a no-op.
type started struct {
	FileWatcher
}

func (s *started) Watch() error { return nil }

// FsnotifyWatcher implements FileWatcher using fsnotify. It watches the
// file's parent directory rather than the file itself, because editors
// and exporters commonly replace the file by rename, which silently
// detaches a direct watch.
type FsnotifyWatcher struct {
	path      string
	onChange  func()
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewFsnotifyWatcher creates a new fsnotify-based watcher for path.
func NewFsnotifyWatcher(path string, debounce time.Duration, onChange func()) (*FsnotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &FsnotifyWatcher{
		path:      filepath.Clean(path),
		onChange:  onChange,
		watcher:   w,
		debouncer: NewDebouncer(debounce),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Watch starts watching for changes to the file.
func (fw *FsnotifyWatcher) Watch() error {
	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return err
	}
	go fw.processEvents()
	return nil
}

func (fw *FsnotifyWatcher) processEvents() {
	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.debouncer.Trigger(fw.onChange)
			}

		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; keep watching.
		}
	}
}

// Close stops watching and releases resources.
func (fw *FsnotifyWatcher) Close() error {
	fw.cancel()
	fw.debouncer.Cancel()
	return fw.watcher.Close()
}

// PollingWatcher implements FileWatcher by periodically comparing the
// file's modification time and size.
type PollingWatcher struct {
	path     string
	interval time.Duration
	onChange func()

	ctx    context.Context
	cancel context.CancelFunc

	lastMod  time.Time
	lastSize int64
}

// NewPollingWatcher creates a new polling-based watcher for path.
func NewPollingWatcher(path string, interval time.Duration, onChange func()) *PollingWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PollingWatcher{
		path:     filepath.Clean(path),
		interval: interval,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch records the current state and starts polling.
func (pw *PollingWatcher) Watch() error {
	if info, err := os.Stat(pw.path); err == nil {
		pw.lastMod = info.ModTime()
		pw.lastSize = info.Size()
	}
	go pw.poll()
	return nil
}

func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return
		case <-ticker.C:
			pw.check()
		}
	}
}

func (pw *PollingWatcher) check() {
	info, err := os.Stat(pw.path)
	if err != nil {
		// Treat a vanished file as unchanged; a replacement write will
		// surface on a later tick.
		return
	}
	if info.ModTime().Equal(pw.lastMod) && info.Size() == pw.lastSize {
		return
	}
	pw.lastMod = info.ModTime()
	pw.lastSize = info.Size()
	pw.onChange()
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}
