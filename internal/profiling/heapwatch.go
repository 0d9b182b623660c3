package profiling

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Byte size constants for formatting.
const (
	KB = 1024
	MB = KB * 1024
	GB = MB * 1024
)

// HeapSample is one reading of the runtime memory counters.
type HeapSample struct {
	Time       time.Time
	HeapAlloc  uint64
	HeapInuse  uint64
	Objects    uint64
	Goroutines int
	NumGC      uint32
}

// ReadHeap samples the current heap.
func ReadHeap() HeapSample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return HeapSample{
		Time:       time.Now(),
		HeapAlloc:  ms.HeapAlloc,
		HeapInuse:  ms.HeapInuse,
		Objects:    ms.HeapObjects,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      ms.NumGC,
	}
}

// HeapGrowth compares the oldest and newest retained samples.
type HeapGrowth struct {
	Span time.Duration
	// HeapAlloc is the newest sample's live heap.
	HeapAlloc      uint64
	AllocDelta     int64
	ObjectsDelta   int64
	GoroutineDelta int
	BytesPerSec    float64
	// Reason is non-empty when a threshold was crossed.
	Reason string
}

// Suspicious reports whether a threshold was crossed.
func (g HeapGrowth) Suspicious() bool {
	return g.Reason != ""
}

func (g HeapGrowth) String() string {
	sign, delta := "+", g.AllocDelta
	if delta < 0 {
		sign, delta = "-", -delta
	}
	s := fmt.Sprintf("heap %s (%s%s over %s, %.1f KB/s), objects %+d, goroutines %+d",
		FormatBytes(g.HeapAlloc), sign, FormatBytes(uint64(delta)), g.Span.Round(time.Second),
		g.BytesPerSec/KB, g.ObjectsDelta, g.GoroutineDelta)
	if g.Reason != "" {
		s += ": " + g.Reason
	}
	return s
}

// HeapWatchConfig configures a HeapWatcher.
type HeapWatchConfig struct {
	// Interval between samples (default 10s).
	Interval time.Duration
	// Window is the number of samples retained (default 30).
	Window int
	// MaxBytesPerSec is the sustained growth rate that is reported
	// (default 1 MB/s).
	MaxBytesPerSec float64
	// MaxGoroutineDelta is the goroutine increase that is reported
	// (default 10).
	MaxGoroutineDelta int
}

// DefaultHeapWatchConfig returns the default thresholds.
func DefaultHeapWatchConfig() HeapWatchConfig {
	return HeapWatchConfig{
		Interval:          10 * time.Second,
		Window:            30,
		MaxBytesPerSec:    MB,
		MaxGoroutineDelta: 10,
	}
}

// HeapWatcher samples the heap periodically and reports sustained growth.
// A long drawing session should reach a steady state once the vertex pools
// are warm; growth past that point means geometry is being retained.
type HeapWatcher struct {
	config  HeapWatchConfig
	onAlert func(HeapGrowth)

	mu      sync.Mutex
	samples []HeapSample
	stop    chan struct{}
	done    chan struct{}
}

// NewHeapWatcher creates a watcher that calls onAlert, from its own
// goroutine, whenever a sample crosses a threshold.
func NewHeapWatcher(config HeapWatchConfig, onAlert func(HeapGrowth)) *HeapWatcher {
	d := DefaultHeapWatchConfig()
	if config.Interval <= 0 {
		config.Interval = d.Interval
	}
	if config.Window < 2 {
		config.Window = d.Window
	}
	if config.MaxBytesPerSec <= 0 {
		config.MaxBytesPerSec = d.MaxBytesPerSec
	}
	if config.MaxGoroutineDelta <= 0 {
		config.MaxGoroutineDelta = d.MaxGoroutineDelta
	}
	return &HeapWatcher{config: config, onAlert: onAlert}
}

// Add records a sample and returns the growth across the retained window.
// It returns false until two samples are available.
func (w *HeapWatcher) Add(s HeapSample) (HeapGrowth, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples = append(w.samples, s)
	if len(w.samples) > w.config.Window {
		w.samples = w.samples[len(w.samples)-w.config.Window:]
	}
	if len(w.samples) < 2 {
		return HeapGrowth{}, false
	}
	return w.growth(w.samples[0], w.samples[len(w.samples)-1])
}

func (w *HeapWatcher) growth(first, last HeapSample) (HeapGrowth, bool) {
	span := last.Time.Sub(first.Time)
	if span <= 0 {
		return HeapGrowth{}, false
	}
	g := HeapGrowth{
		Span:           span,
		HeapAlloc:      last.HeapAlloc,
		AllocDelta:     int64(last.HeapAlloc) - int64(first.HeapAlloc),
		ObjectsDelta:   int64(last.Objects) - int64(first.Objects),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}
	g.BytesPerSec = float64(g.AllocDelta) / span.Seconds()

	switch {
	case g.BytesPerSec > w.config.MaxBytesPerSec:
		g.Reason = fmt.Sprintf("sustained growth above %.1f KB/s", w.config.MaxBytesPerSec/KB)
	case g.GoroutineDelta > w.config.MaxGoroutineDelta:
		g.Reason = fmt.Sprintf("goroutines grew by more than %d", w.config.MaxGoroutineDelta)
	}
	return g, true
}

// Start begins sampling on a background goroutine.
func (w *HeapWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return fmt.Errorf("heap watcher is already running")
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stop, w.done)
	return nil
}

// Stop ends sampling and waits for the goroutine to exit. Safe to call when
// not running.
func (w *HeapWatcher) Stop() {
	w.mu.Lock()
	stop, done := w.stop, w.done
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (w *HeapWatcher) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	w.Add(ReadHeap())
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if g, ok := w.Add(ReadHeap()); ok && g.Suspicious() && w.onAlert != nil {
				w.onAlert(g)
			}
		}
	}
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(bytes uint64) string {
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
