package smoothink

import (
	"expvar"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-smoothink/internal/stroke"
)

// Metrics collects operational counters for a Scene. It uses Go's expvar
// package for exposition, which serves them at /debug/vars when an HTTP
// server is running.
//
// Thread-safe for concurrent use.
type Metrics struct {
	// Lifecycle counters
	starts        atomic.Int64
	stops         atomic.Int64
	configReloads atomic.Int64
	errorsTotal   atomic.Int64
	eventsEmitted atomic.Int64

	// Frame counters
	frames        atomic.Int64
	framesSkipped atomic.Int64
	triangles     atomic.Int64

	// Pen gauges, copied from the pen's cumulative stats
	strokes  atomic.Int64
	accepted atomic.Int64
	rejected atomic.Int64
	segments atomic.Int64
	caps     atomic.Int64

	// Frame latency (nanoseconds)
	frameLatencyNs    atomic.Int64
	frameLatencyCount atomic.Int64

	running atomic.Int32

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// Safe to call multiple times; subsequent calls are no-ops. expvar names are
// process-global, so only one Metrics instance may register.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	counters := map[string]*atomic.Int64{
		"smoothink_starts_total":           &m.starts,
		"smoothink_stops_total":            &m.stops,
		"smoothink_config_reloads_total":   &m.configReloads,
		"smoothink_errors_total":           &m.errorsTotal,
		"smoothink_events_emitted_total":   &m.eventsEmitted,
		"smoothink_frames_total":           &m.frames,
		"smoothink_frames_skipped_total":   &m.framesSkipped,
		"smoothink_triangles_total":        &m.triangles,
		"smoothink_strokes_total":          &m.strokes,
		"smoothink_samples_accepted_total": &m.accepted,
		"smoothink_samples_rejected_total": &m.rejected,
		"smoothink_segments_total":         &m.segments,
		"smoothink_caps_total":             &m.caps,
	}
	for name, v := range counters {
		expvar.Publish(name, expvar.Func(func() any { return v.Load() }))
	}

	expvar.Publish("smoothink_running", expvar.Func(func() any { return m.running.Load() }))
	expvar.Publish("smoothink_frame_latency_avg_ms", expvar.Func(func() any {
		return float64(m.Snapshot().FrameLatencyAvg) / 1e6
	}))
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Starts        int64
	Stops         int64
	ConfigReloads int64
	ErrorsTotal   int64
	EventsEmitted int64

	Frames        int64
	FramesSkipped int64
	Triangles     int64

	Strokes  int64
	Accepted int64
	Rejected int64
	Segments int64
	Caps     int64

	Running bool

	FrameLatencyAvg time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:        m.starts.Load(),
		Stops:         m.stops.Load(),
		ConfigReloads: m.configReloads.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		EventsEmitted: m.eventsEmitted.Load(),

		Frames:        m.frames.Load(),
		FramesSkipped: m.framesSkipped.Load(),
		Triangles:     m.triangles.Load(),

		Strokes:  m.strokes.Load(),
		Accepted: m.accepted.Load(),
		Rejected: m.rejected.Load(),
		Segments: m.segments.Load(),
		Caps:     m.caps.Load(),

		Running: m.running.Load() > 0,

		FrameLatencyAvg: safeDivide(m.frameLatencyNs.Load(), m.frameLatencyCount.Load()),
	}
}

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementConfigReloads records a configuration reload.
func (m *Metrics) IncrementConfigReloads() {
	m.configReloads.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// RecordFrame records one canvas pass. Empty passes count as skipped.
func (m *Metrics) RecordFrame(triangles int, empty bool, d time.Duration) {
	if empty {
		m.framesSkipped.Add(1)
	} else {
		m.frames.Add(1)
		m.triangles.Add(int64(triangles))
	}
	m.frameLatencyNs.Add(d.Nanoseconds())
	m.frameLatencyCount.Add(1)
}

// SetPenStats copies the pen's cumulative counters.
func (m *Metrics) SetPenStats(s stroke.Stats) {
	m.strokes.Store(s.Strokes)
	m.accepted.Store(s.Accepted)
	m.rejected.Store(s.Rejected)
	m.segments.Store(s.Segments)
	m.caps.Store(s.Caps)
}

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.running.Store(1)
	} else {
		m.running.Store(0)
	}
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	for _, v := range []*atomic.Int64{
		&m.starts, &m.stops, &m.configReloads, &m.errorsTotal, &m.eventsEmitted,
		&m.frames, &m.framesSkipped, &m.triangles,
		&m.strokes, &m.accepted, &m.rejected, &m.segments, &m.caps,
		&m.frameLatencyNs, &m.frameLatencyCount,
	} {
		v.Store(0)
	}
	m.running.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
