package item

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/asheshgoplani/item-deck/internal/logging"
	"github.com/asheshgoplani/item-deck/internal/platform"
)

var watchLog = logging.ForComponent(logging.CompWatch)

// watchDebounce collapses editor save bursts into one notification.
const watchDebounce = 300 * time.Millisecond

// DataWatcher reports that the data tree changed after it was loaded.
// It never reloads anything: the catalog stays as it was at startup and the
// UI only tells the user a restart would pick up the changes.
type DataWatcher struct {
	root    string
	watcher *fsnotify.Watcher
	warning string

	changeCh  chan string // buffered; holds the last changed path
	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer
	pending string

	errLimiter *rate.Limiter
}

// NewDataWatcher watches root and every directory below it.
func NewDataWatcher(root string) (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dw := &DataWatcher{
		root:       root,
		watcher:    w,
		warning:    platform.CheckFsnotifySupport(root),
		changeCh:   make(chan string, 1),
		closeCh:    make(chan struct{}),
		errLimiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := w.Add(path); addErr != nil {
				watchLog.Debug("watch_add_failed",
					slog.String("path", path),
					slog.String("error", addErr.Error()))
			}
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, err
	}

	dw.wg.Add(1)
	go dw.loop()
	watchLog.Debug("watch_started", slog.String("root", root))
	return dw, nil
}

func (dw *DataWatcher) loop() {
	defer dw.wg.Done()
	for {
		select {
		case <-dw.closeCh:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handle(event)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			if dw.errLimiter.Allow() {
				watchLog.Warn("watch_error", slog.String("error", err.Error()))
			}
		}
	}
}

func (dw *DataWatcher) handle(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		// pick up directories created after startup
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := dw.watcher.Add(event.Name); err == nil {
				watchLog.Debug("watch_dir_added", slog.String("path", event.Name))
			}
			return
		}
	}
	if filepath.Ext(event.Name) != DataFileExt {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	dw.timerMu.Lock()
	defer dw.timerMu.Unlock()
	dw.pending = event.Name
	if dw.timer == nil {
		dw.timer = time.AfterFunc(watchDebounce, dw.fire)
		return
	}
	dw.timer.Reset(watchDebounce)
}

func (dw *DataWatcher) fire() {
	dw.timerMu.Lock()
	path := dw.pending
	dw.timerMu.Unlock()

	select {
	case <-dw.closeCh:
		return
	default:
	}

	watchLog.Info("data_changed", slog.String("path", path))
	select {
	case dw.changeCh <- path:
	default:
	}
}

// Changes delivers the path of a changed data file, at most one pending at a time.
func (dw *DataWatcher) Changes() <-chan string {
	return dw.changeCh
}

// Done is closed once Close has been called.
func (dw *DataWatcher) Done() <-chan struct{} {
	return dw.closeCh
}

// Warning explains why change notifications may not arrive (network mounts).
func (dw *DataWatcher) Warning() string {
	return dw.warning
}

// Close stops watching. Safe to call multiple times.
func (dw *DataWatcher) Close() error {
	var err error
	dw.closeOnce.Do(func() {
		close(dw.closeCh)
		dw.timerMu.Lock()
		if dw.timer != nil {
			dw.timer.Stop()
		}
		dw.timerMu.Unlock()
		err = dw.watcher.Close()
		dw.wg.Wait()
	})
	return err
}
