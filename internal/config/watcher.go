package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/routeregistry/internal/observability"
)

const defaultDebounceDelay = 100 * time.Millisecond

// ReloadFunc receives every configuration that loaded and validated.
type ReloadFunc func(ctx context.Context, cfg *GatewayConfig)

// ErrorFunc receives load, validation and watch errors.
type ErrorFunc func(error)

// Watcher reloads a configuration file when it changes. The parent
// directory is watched so editors that replace the file are handled.
type Watcher struct {
	path          string
	fs            *fsnotify.Watcher
	onReload      ReloadFunc
	onError       ErrorFunc
	logger        observability.Logger
	debounceDelay time.Duration
	current       *GatewayConfig
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the watcher waits for a burst of file
// events to settle before reloading.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(fn ErrorFunc) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		fs:            fsWatcher,
		onReload:      onReload,
		debounceDelay: defaultDebounceDelay,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the file once and begins watching it. The initial load does
// not invoke the reload callback; use Current to read it.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	cfg, err := w.load()
	if err != nil {
		return err
	}

	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.mu.Lock()
	w.current = cfg
	w.running = true
	w.mu.Unlock()

	w.logger.Info("watching configuration file",
		observability.String("path", w.path),
	)

	go w.loop(ctx)

	return nil
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.fs.Close()
}

// Current returns the last configuration that loaded and validated.
func (w *Watcher) Current() *GatewayConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reload loads the file immediately and invokes the reload callback.
func (w *Watcher) Reload(ctx context.Context) error {
	cfg, err := w.load()
	if err != nil {
		return err
	}
	w.accept(ctx, cfg)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("config watcher stopped")
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("config file changed",
				observability.String("path", event.Name),
				observability.String("op", event.Op.String()),
			)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(w.debounceDelay)
			fire = debounce.C

		case <-fire:
			fire = nil
			w.reloadFromEvent(ctx)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.fail("config watcher error", err)
		}
	}
}

// relevant reports whether event may have changed the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) reloadFromEvent(ctx context.Context) {
	w.logger.Info("reloading configuration",
		observability.String("path", w.path),
	)

	cfg, err := w.load()
	if err != nil {
		w.fail("configuration reload rejected", err)
		return
	}
	w.accept(ctx, cfg)
}

func (w *Watcher) load() (*GatewayConfig, error) {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (w *Watcher) accept(ctx context.Context, cfg *GatewayConfig) {
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	w.logger.Info("configuration reloaded",
		observability.Int("routes", len(cfg.Spec.Routes)),
	)

	if w.onReload != nil {
		w.onReload(ctx, cfg)
	}
}

func (w *Watcher) fail(msg string, err error) {
	w.logger.Error(msg, observability.Error(err))
	if w.onError != nil {
		w.onError(err)
	}
}
