//go:build !noebiten

package smoothink

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"
)

func headlessOptions() *Options {
	return &Options{
		Headless:        true,
		Metrics:         NewMetrics(),
		ShutdownTimeout: time.Second,
	}
}

// startScene runs s in the background and waits until it reports running.
func startScene(t *testing.T, s *Scene) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run() }()

	deadline := time.Now().Add(2 * time.Second)
	for !s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("scene did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return errCh
}

func TestNewSceneDefaults(t *testing.T) {
	s, err := NewScene(nil, nil)
	if err != nil {
		t.Fatalf("NewScene(nil, nil) error = %v", err)
	}
	if s.Config().Window.Width != 1024 {
		t.Errorf("Width = %d, want 1024", s.Config().Window.Width)
	}
	if s.Canvas() == nil || s.Canvas().Image() == nil {
		t.Fatal("scene has no image-backed canvas")
	}
	if s.Metrics() != DefaultMetrics() {
		t.Error("nil Metrics option should select DefaultMetrics")
	}
	if err := s.ReloadConfig(); !errors.Is(err, ErrNoConfigSource) {
		t.Errorf("ReloadConfig() = %v, want ErrNoConfigSource", err)
	}
}

func TestNewSceneInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 0

	_, err := NewScene(cfg, headlessOptions())
	var ce *CategorizedError
	if !errors.As(err, &ce) || ce.Category != ErrorCategoryConfig {
		t.Errorf("NewScene() error = %v, want a config error", err)
	}
}

func TestSceneRunStop(t *testing.T) {
	opts := headlessOptions()
	s, err := NewScene(nil, opts)
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var events []EventType
	s.SetEventHandler(func(e Event) {
		mu.Lock()
		events = append(events, e.Type)
		mu.Unlock()
	})

	errCh := startScene(t, s)
	if err := s.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
	if st := s.Status(); !st.Running || st.StartTime.IsZero() {
		t.Errorf("Status() = %+v, want running", st)
	}
	if h := s.Health(); !h.IsHealthy() {
		t.Errorf("Health() = %v (%s), want ok", h.Status, h.Message)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Run() returned %v", err)
	}
	if s.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop() on a stopped scene = %v", err)
	}
	if h := s.Health(); h.Status != HealthUnhealthy {
		t.Errorf("Health() after stop = %v, want unhealthy", h.Status)
	}

	snap := opts.Metrics.Snapshot()
	if snap.Starts != 1 || snap.Stops != 1 || snap.Running {
		t.Errorf("metrics = %+v, want one start and stop", snap)
	}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	seen := map[EventType]bool{}
	for _, e := range events {
		seen[e] = true
	}
	if !seen[EventStarted] || !seen[EventStopped] {
		t.Errorf("events = %v, want started and stopped", events)
	}
}

func TestSceneCanvasDrawsHeadless(t *testing.T) {
	s, err := NewScene(nil, headlessOptions())
	if err != nil {
		t.Fatal(err)
	}
	c := s.Canvas()
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	c.Press(100, 100)
	c.Drag(200, 150)
	c.Drag(300, 120)
	c.Release(300, 120)
	if err := c.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if got := s.Status().Canvas.Strokes; got != 1 {
		t.Errorf("Status().Canvas.Strokes = %d, want 1", got)
	}
	if got := s.Metrics().Snapshot().Frames; got != 1 {
		t.Errorf("Frames = %d, want 1", got)
	}
	if st := c.Stats(); st.DrawCalls == 0 || st.Vertices == 0 {
		t.Errorf("image surface submissions = %d calls, %d vertices, want both positive", st.DrawCalls, st.Vertices)
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ink.conf")
	writeFile(t, path, "width 320\nheight 200\nbrush_width 8\nbrush_color red\n")

	s, err := New(path, headlessOptions())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Status().ConfigSource != path {
		t.Errorf("ConfigSource = %q, want %q", s.Status().ConfigSource, path)
	}
	b := s.Canvas().Brush()
	if b.Width != 8 || b.Color != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("brush = %+v, want width 8 red", b)
	}

	writeFile(t, path, "width 320\nheight 200\nbrush_width 3\nbrush_color #00ff00\n")
	if err := s.ReloadConfig(); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	b = s.Canvas().Brush()
	if b.Width != 3 || b.Color != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("brush after reload = %+v, want width 3 green", b)
	}
	if got := s.Metrics().Snapshot().ConfigReloads; got != 1 {
		t.Errorf("ConfigReloads = %d, want 1", got)
	}
}

func TestReloadKeepsConfigOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ink.conf")
	writeFile(t, path, "brush_width 8\n")

	opts := headlessOptions()
	opts.ErrorTracker = NewErrorTracker(DefaultErrorTrackerConfig())
	s, err := New(path, opts)
	if err != nil {
		t.Fatal(err)
	}

	handled := make(chan error, 1)
	s.SetErrorHandler(func(err error) { handled <- err })

	writeFile(t, path, "brush_width wide\n")
	if err := s.ReloadConfig(); err == nil {
		t.Fatal("ReloadConfig() with a bad file should fail")
	}
	if got := s.Canvas().Brush().Width; got != 8 {
		t.Errorf("brush width = %v after a failed reload, want 8", got)
	}
	if s.Status().LastError == nil {
		t.Error("Status().LastError not set")
	}
	if got := opts.ErrorTracker.TotalByCategory(ErrorCategoryConfig); got != 1 {
		t.Errorf("tracked config errors = %d, want 1", got)
	}
	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Error("error handler not called")
	}
}

func TestNewFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"configs/ink.lua": {Data: []byte("ink.config = { brush_width = 12, tps = 30 }\n")},
	}
	s, err := NewFromFS(fsys, "configs/ink.lua", headlessOptions())
	if err != nil {
		t.Fatalf("NewFromFS() error = %v", err)
	}
	if s.Config().Window.TPS != 30 || s.Canvas().Brush().Width != 12 {
		t.Errorf("config = %+v, want tps 30 width 12", s.Config())
	}
	if !strings.HasPrefix(s.Status().ConfigSource, "fs:") {
		t.Errorf("ConfigSource = %q", s.Status().ConfigSource)
	}
	if err := s.ReloadConfig(); err != nil {
		t.Errorf("ReloadConfig() from FS error = %v", err)
	}
}

func TestNewFromReader(t *testing.T) {
	s, err := NewFromReader(strings.NewReader("overdraw 2\n"), FormatPlain, headlessOptions())
	if err != nil {
		t.Fatalf("NewFromReader() error = %v", err)
	}
	if got := s.Canvas().Brush().Overdraw; got != 2 {
		t.Errorf("Overdraw = %v, want 2", got)
	}

	if _, err := NewFromReader(strings.NewReader("x"), "toml", nil); err == nil {
		t.Error("NewFromReader() with an unknown format should fail")
	}
}

func TestSceneWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ink.conf")
	writeFile(t, path, "brush_width 8\n")

	opts := headlessOptions()
	opts.WatchConfig = true
	opts.WatchDebounce = 30 * time.Millisecond
	s, err := New(path, opts)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan struct{}, 1)
	s.SetEventHandler(func(e Event) {
		if e.Type == EventConfigReloaded {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		}
	})

	errCh := startScene(t, s)
	defer func() {
		_ = s.Stop()
		<-errCh
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("brush_width 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("config change not picked up")
	}
	if got := s.Canvas().Brush().Width; got != 2 {
		t.Errorf("brush width = %v, want 2", got)
	}
}

func TestRenderConfigOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Title = "from file"

	rc := renderConfig(cfg, Options{WindowTitle: "override", ShowStats: true})
	if rc.Title != "override" || !rc.ShowStats {
		t.Errorf("renderConfig = %+v, want overridden title and stats", rc)
	}
	rc = renderConfig(cfg, Options{})
	if rc.Title != "from file" || rc.ShowStats {
		t.Errorf("renderConfig = %+v, want file values", rc)
	}
	if rc.Width != cfg.Window.Width || rc.Background != cfg.Canvas.Background {
		t.Errorf("renderConfig = %+v does not mirror the config", rc)
	}
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		e    EventType
		want string
	}{
		{EventStarted, "started"},
		{EventStopped, "stopped"},
		{EventConfigReloaded, "config_reloaded"},
		{EventError, "error"},
		{EventType(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestColorOverridesSurviveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ink.conf")
	writeFile(t, path, "brush_color red\n")

	purple := color.RGBA{R: 128, B: 128, A: 255}
	opts := headlessOptions()
	opts.BrushColor = purple
	s, err := New(path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Canvas().Brush().Color; got != purple {
		t.Errorf("brush color = %v, want %v", got, purple)
	}

	writeFile(t, path, "brush_color blue\nbrush_width 5\n")
	if err := s.ReloadConfig(); err != nil {
		t.Fatal(err)
	}
	b := s.Canvas().Brush()
	if b.Color != purple || b.Width != 5 {
		t.Errorf("brush after reload = %+v, want purple width 5", b)
	}
}

func TestNewSceneStrictValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Brush.Width = 600

	if _, err := NewScene(cfg, headlessOptions()); err != nil {
		t.Fatalf("NewScene() with a warning error = %v", err)
	}

	opts := headlessOptions()
	opts.StrictValidation = true
	_, err := NewScene(cfg, opts)
	if err == nil {
		t.Fatal("strict NewScene() accepted an oversized brush")
	}
	var ce *CategorizedError
	if !errors.As(err, &ce) || ce.Category != ErrorCategoryConfig {
		t.Errorf("error = %v, want a config error", err)
	}
}

func TestNotifyErrorMixedKinds(t *testing.T) {
	s, err := NewScene(nil, headlessOptions())
	if err != nil {
		t.Fatal(err)
	}

	plain := errors.New("shutdown timeout after 5s")
	s.notifyError(plain)
	if got := s.Status().LastError; !errors.Is(got, plain) {
		t.Errorf("LastError = %v, want %v", got, plain)
	}

	render := NewCategorizedError(errors.New("lost pass"), ErrorCategoryRender, SeverityCritical)
	s.notifyError(render)
	s.notifyError(errors.New("second plain error"))

	var ce *CategorizedError
	if !errors.As(s.Status().LastError, &ce) {
		t.Fatalf("LastError = %T, want *CategorizedError", s.Status().LastError)
	}
	if ce.Category != ErrorCategoryUnknown {
		t.Errorf("plain error category = %v, want unknown", ce.Category)
	}
	if s.Metrics().Snapshot().ErrorsTotal != 3 {
		t.Errorf("ErrorsTotal = %d, want 3", s.Metrics().Snapshot().ErrorsTotal)
	}
}
