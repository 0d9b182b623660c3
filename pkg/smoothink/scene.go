package smoothink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-smoothink/internal/config"
	"github.com/opd-ai/go-smoothink/internal/render"
)

// Scene is one canvas presented in a window. It is safe for concurrent use;
// Run blocks and must be called from the main goroutine on platforms that
// require it.
type Scene struct {
	cfg          *Config
	opts         Options
	configSource string
	configPath   string
	configLoader func() (*Config, *config.ValidationResult, error)

	canvas  *Canvas
	game    *render.Game
	guard   *reloadGuard
	metrics *Metrics
	logger  Logger

	running   atomic.Bool
	startTime time.Time
	lastError atomic.Pointer[CategorizedError]

	errorHandler ErrorHandler
	eventHandler EventHandler

	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScene creates a scene from cfg. A nil cfg means DefaultConfig and nil
// opts means DefaultOptions. The scene has no config source, so
// ReloadConfig fails until one is set by New, NewFromFS or NewFromReader.
func NewScene(cfg *Config, opts *Options) (*Scene, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	cfg = applyOverrides(cfg, *opts)
	result := newValidator(opts).Validate(cfg)
	if err := result.Error(); err != nil {
		return nil, categorize(err, ErrorCategoryConfig, SeverityError)
	}

	s := &Scene{
		cfg:          cfg,
		opts:         *opts,
		configSource: "defaults",
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		guard:        newReloadGuard(0, 0),
	}
	if s.metrics == nil {
		s.metrics = DefaultMetrics()
	}
	if s.logger == nil {
		s.logger = NopLogger()
	}
	s.logWarnings(result)

	s.canvas = NewCanvas(cfg.Window.Width, cfg.Window.Height, brushFromConfig(cfg), cfg.Canvas.Background)
	s.canvas.SetMetrics(s.metrics)
	return s, nil
}

// New creates a scene from a configuration file on disk. The file may be in
// Lua or plain format.
//
// Example:
//
//	s, err := smoothink.New("ink.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Run(); err != nil {
//		log.Fatal(err)
//	}
func New(configPath string, opts *Options) (*Scene, error) {
	v := newValidator(opts)
	loader := func() (*Config, *config.ValidationResult, error) {
		return loadConfig(v, func(p *config.Parser) (*Config, error) {
			return p.ParseFile(configPath)
		})
	}
	s, err := newSceneFromLoader(loader, opts)
	if err != nil {
		return nil, err
	}
	s.configSource = configPath
	s.configPath = configPath
	return s, nil
}

// NewFromFS creates a scene from a configuration file inside fsys, such as
// an embed.FS.
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (*Scene, error) {
	v := newValidator(opts)
	loader := func() (*Config, *config.ValidationResult, error) {
		return loadConfig(v, func(p *config.Parser) (*Config, error) {
			return p.ParseFromFS(fsys, configPath)
		})
	}
	s, err := newSceneFromLoader(loader, opts)
	if err != nil {
		return nil, err
	}
	s.configSource = "fs:" + configPath
	return s, nil
}

// NewFromReader creates a scene from configuration read from r. format must
// be FormatLua or FormatPlain. The content is read once and kept for reloads.
func NewFromReader(r io.Reader, format string, opts *Options) (*Scene, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, categorize(fmt.Errorf("read config: %w", err), ErrorCategoryIO, SeverityError)
	}
	v := newValidator(opts)
	loader := func() (*Config, *config.ValidationResult, error) {
		return loadConfig(v, func(p *config.Parser) (*Config, error) {
			return p.ParseReader(bytes.NewReader(content), format)
		})
	}
	s, err := newSceneFromLoader(loader, opts)
	if err != nil {
		return nil, err
	}
	s.configSource = "reader:" + format
	return s, nil
}

func newSceneFromLoader(loader func() (*Config, *config.ValidationResult, error), opts *Options) (*Scene, error) {
	cfg, _, err := loader()
	if err != nil {
		return nil, categorize(fmt.Errorf("parse config: %w", err), ErrorCategoryConfig, SeverityError)
	}
	s, err := NewScene(cfg, opts)
	if err != nil {
		return nil, err
	}
	s.configLoader = loader
	return s, nil
}

// Run opens the window and blocks until it is closed or Stop is called.
// In headless mode it blocks until Stop is called.
func (s *Scene) Run() error {
	s.mu.Lock()
	if s.running.Load() {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.done = make(chan struct{})
	s.running.Store(true)
	s.startTime = time.Now()
	ctx, done := s.ctx, s.done
	s.mu.Unlock()

	s.metrics.IncrementStarts()
	s.metrics.SetRunning(true)
	s.logger.Info("scene started", "source", s.configSource, "headless", s.opts.Headless)
	s.emitEvent(EventStarted, "Scene started")

	watcher := s.startWatcher()

	var err error
	if s.opts.Headless {
		<-ctx.Done()
	} else {
		err = s.runWindow(ctx)
	}

	if watcher != nil {
		watcher.Stop()
	}

	s.mu.Lock()
	s.cancel()
	s.game = nil
	s.running.Store(false)
	s.mu.Unlock()

	s.metrics.SetRunning(false)
	s.metrics.IncrementStops()
	close(done)

	if err != nil {
		err = categorize(fmt.Errorf("window loop: %w", err), ErrorCategoryRender, SeverityCritical)
		s.notifyError(err)
	}
	s.logger.Info("scene stopped")
	s.emitEvent(EventStopped, "Scene stopped")
	return err
}

// Stop ends Run and waits for it to return. Safe to call when not running.
func (s *Scene) Stop() error {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	done := s.done
	s.mu.Unlock()

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		err := categorize(fmt.Errorf("shutdown timeout after %v", timeout), ErrorCategoryRender, SeverityWarning)
		s.notifyError(err)
		return err
	}
}

// ReloadConfig parses the configuration source again and applies it without
// interrupting the scene. The brush takes effect from the next sample; ink
// already drawn is kept. On failure the previous configuration stays active.
func (s *Scene) ReloadConfig() error {
	if s.configLoader == nil {
		return ErrNoConfigSource
	}

	cfg, result, err := s.configLoader()
	if err != nil {
		wrapped := categorize(fmt.Errorf("config reload failed: %w", err), ErrorCategoryConfig, SeverityError)
		s.notifyError(wrapped)
		return wrapped
	}
	s.logWarnings(result)

	s.mu.Lock()
	cfg = applyOverrides(cfg, s.opts)
	s.cfg = cfg
	game := s.game
	opts := s.opts
	s.mu.Unlock()

	s.canvas.SetBrush(brushFromConfig(cfg))
	s.canvas.SetBackground(cfg.Canvas.Background)
	if game != nil {
		rc := renderConfig(cfg, opts)
		current := game.Config()
		rc.Width, rc.Height = current.Width, current.Height
		game.SetConfig(rc)
	}

	s.metrics.IncrementConfigReloads()
	s.logger.Info("configuration reloaded", "source", s.configSource)
	s.emitEvent(EventConfigReloaded, "Configuration reloaded")
	return nil
}

func (s *Scene) startWatcher() *configWatcher {
	if !s.opts.WatchConfig {
		return nil
	}
	if s.configPath == "" {
		s.logger.Warn("config watch requested without a config file")
		return nil
	}
	reload := func() error { return s.guard.Do(s.ReloadConfig) }
	w, err := newConfigWatcher(s.configPath, s.opts.WatchDebounce, reload, func(err error) {
		if errors.Is(err, ErrReloadSuspended) {
			s.logger.Debug("config change ignored", "reason", err)
			return
		}
		s.logger.Warn("config watch", "error", err)
	})
	if err != nil {
		s.notifyError(categorize(fmt.Errorf("watch config: %w", err), ErrorCategoryIO, SeverityWarning))
		return nil
	}
	s.logger.Debug("watching config", "path", s.configPath)
	return w
}

func (s *Scene) logWarnings(result *config.ValidationResult) {
	if result == nil {
		return
	}
	for _, w := range result.Warnings {
		s.logger.Warn("config warning", "field", w.Field, "message", w.Message)
	}
}

// IsRunning returns true while Run is active.
func (s *Scene) IsRunning() bool {
	return s.running.Load()
}

// Canvas returns the scene's canvas.
func (s *Scene) Canvas() *Canvas {
	return s.canvas
}

// Config returns the active configuration.
func (s *Scene) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Metrics returns the metrics collector for this scene.
func (s *Scene) Metrics() *Metrics {
	return s.metrics
}

// Status returns the current state of the scene.
func (s *Scene) Status() Status {
	s.mu.RLock()
	startTime := s.startTime
	source := s.configSource
	s.mu.RUnlock()

	return Status{
		Running:      s.running.Load(),
		StartTime:    startTime,
		Canvas:       s.canvas.Stats(),
		LastError:    s.getError(),
		ConfigSource: source,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (s *Scene) SetErrorHandler(handler ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (s *Scene) SetEventHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandler = handler
}

func (s *Scene) getError() error {
	if ce := s.lastError.Load(); ce != nil {
		return ce
	}
	return nil
}

// notifyError stores err, records it with the error tracker and invokes the
// error handler without blocking the caller.
func (s *Scene) notifyError(err error) {
	ce := categorize(err, ErrorCategoryUnknown, SeverityError)
	s.lastError.Store(ce)
	s.metrics.IncrementErrors()

	if s.opts.ErrorTracker != nil {
		s.opts.ErrorTracker.Record(ce)
	}
	s.logger.Error("scene error", "error", err)

	s.mu.RLock()
	handler := s.errorHandler
	s.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("error handler panicked", "panic", r, "cause", err)
				}
			}()
			handler(err)
		}()
	}

	s.emitEvent(EventError, err.Error())
}

func (s *Scene) emitEvent(eventType EventType, message string) {
	s.metrics.IncrementEventsEmitted()

	s.mu.RLock()
	handler := s.eventHandler
	s.mu.RUnlock()

	if handler == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("event handler panicked", "panic", r, "event", eventType.String())
			}
		}()
		handler(Event{
			Type:      eventType,
			Timestamp: time.Now(),
			Message:   message,
		})
	}()
}

// Health returns a health check of the scene and its components.
func (s *Scene) Health() HealthCheck {
	now := time.Now()
	running := s.running.Load()
	components := make(map[string]ComponentHealth)

	var uptime time.Duration
	s.mu.RLock()
	if running && !s.startTime.IsZero() {
		uptime = now.Sub(s.startTime)
	}
	s.mu.RUnlock()

	if running {
		components["scene"] = ComponentHealth{Status: HealthOK, Message: "Scene is running"}
	} else {
		components["scene"] = ComponentHealth{Status: HealthUnhealthy, Message: "Scene is not running"}
	}

	stats := s.canvas.Stats()
	if stats.Frames > 0 && stats.Skipped == stats.Frames && stats.Strokes > 0 {
		components["canvas"] = ComponentHealth{
			Status:  HealthDegraded,
			Message: fmt.Sprintf("%d strokes but no frame produced geometry", stats.Strokes),
		}
	} else {
		components["canvas"] = ComponentHealth{
			Status:  HealthOK,
			Message: fmt.Sprintf("%d strokes, %d triangles", stats.Strokes, stats.Triangles),
		}
	}

	if s.opts.WatchConfig && s.configPath != "" {
		switch st := s.guard.State(); st {
		case guardClosed:
			components["config_watch"] = ComponentHealth{Status: HealthOK, Message: "Watching " + s.configPath}
		default:
			components["config_watch"] = ComponentHealth{
				Status:  HealthDegraded,
				Message: fmt.Sprintf("Automatic reload %s after repeated failures", st),
			}
		}
	}

	lastErr := s.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{Status: HealthDegraded, Message: lastErr.Error()}
	} else {
		components["errors"] = ComponentHealth{Status: HealthOK, Message: "No recent errors"}
	}

	status := HealthOK
	var message string
	switch {
	case !running:
		status = HealthUnhealthy
		message = "Scene is not running"
	case lastErr != nil || components["canvas"].Status != HealthOK:
		status = HealthDegraded
		message = "Running with recent errors"
	default:
		message = "All components healthy"
	}

	return HealthCheck{
		Status:     status,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// isTerminated reports whether err is the loop's normal exit.
func isTerminated(err error) bool {
	return errors.Is(err, render.ErrGameTerminated)
}
