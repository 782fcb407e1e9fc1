package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/go-effects/perform/shared/helper"
)

const (
	debounceInterval = 500 * time.Millisecond

	// Re-watch retry schedule after the file is removed or renamed.
	reAddAttempts = 10
	reAddBackoff  = 200 * time.Millisecond
)

// ChangeCallback is invoked with the previous and freshly loaded
// configuration after the watched file changes.
type ChangeCallback func(old, new *Config)

// Watcher reloads a configuration file whenever it changes on disk.
// Rapid successive writes are debounced into one reload.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	logger    *zap.Logger

	mu        sync.RWMutex
	current   *Config
	callbacks []ChangeCallback

	stopCh  chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

// NewWatcher loads the file once and prepares a watcher for it. Call
// Start to begin receiving reloads and Stop to release the watcher.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}
	return &Watcher{
		path:      path,
		fsWatcher: fsWatcher,
		logger:    logger,
		current:   cfg,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start begins watching the configuration file.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop ends the watch and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopped.Do(func() {
		close(w.stopCh)
		err = w.fsWatcher.Close()
		w.wg.Wait()
	})
	return err
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback for configuration reloads.
func (w *Watcher) OnChange(cb ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Reload forces a reload outside the file-event path.
func (w *Watcher) Reload() error {
	return w.reload()
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceInterval, func() {
					if err := w.reload(); err != nil {
						w.logger.Warn("config reload failed", zap.Error(err))
					}
				})
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				// Editors often replace the file; retry until it reappears.
				go func() {
					err := helper.Retry(reAddAttempts, reAddBackoff, func() error {
						select {
						case <-w.stopCh:
							return nil
						default:
							return w.fsWatcher.Add(w.path)
						}
					})
					if err != nil {
						w.logger.Warn("failed to re-watch config file", zap.Error(err))
					}
				}()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() error {
	next, err := Load(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	prev := w.current
	w.current = next
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(prev, next)
	}
	w.logger.Info("configuration reloaded", zap.String("path", w.path))
	return nil
}
