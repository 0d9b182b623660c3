package render

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// FrameMetrics tracks frame timing for the stats overlay.
type FrameMetrics struct {
	frameCount    atomic.Int64 // frames in the current FPS window
	totalFrames   atomic.Int64
	lastFPS       atomic.Int64 // FPS * 1000
	lastFrameTime atomic.Int64
	minFrameTime  atomic.Int64
	maxFrameTime  atomic.Int64
	totalTime     atomic.Int64
	lastUpdate    atomic.Int64 // Unix nano
	updatePeriod  time.Duration
}

// NewFrameMetrics creates a FrameMetrics that recalculates FPS every
// updatePeriod (one second if non-positive).
func NewFrameMetrics(updatePeriod time.Duration) *FrameMetrics {
	if updatePeriod <= 0 {
		updatePeriod = time.Second
	}
	fm := &FrameMetrics{updatePeriod: updatePeriod}
	fm.lastUpdate.Store(time.Now().UnixNano())
	fm.minFrameTime.Store(int64(time.Hour))
	return fm
}

// RecordFrame records one frame of the given duration.
func (fm *FrameMetrics) RecordFrame(frameTime time.Duration) {
	frameNanos := frameTime.Nanoseconds()

	fm.frameCount.Add(1)
	fm.totalFrames.Add(1)
	fm.lastFrameTime.Store(frameNanos)
	fm.totalTime.Add(frameNanos)

	for {
		currentMin := fm.minFrameTime.Load()
		if frameNanos >= currentMin || fm.minFrameTime.CompareAndSwap(currentMin, frameNanos) {
			break
		}
	}
	for {
		currentMax := fm.maxFrameTime.Load()
		if frameNanos <= currentMax || fm.maxFrameTime.CompareAndSwap(currentMax, frameNanos) {
			break
		}
	}

	now := time.Now().UnixNano()
	lastUpdate := fm.lastUpdate.Load()
	elapsed := time.Duration(now - lastUpdate)
	if elapsed >= fm.updatePeriod && fm.lastUpdate.CompareAndSwap(lastUpdate, now) {
		frames := fm.frameCount.Swap(0)
		fps := float64(frames) / elapsed.Seconds()
		fm.lastFPS.Store(int64(fps * 1000))
	}
}

// FPS returns the frame rate measured over the last full period.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000.0
}

// LastFrameTime returns the duration of the last frame.
func (fm *FrameMetrics) LastFrameTime() time.Duration {
	return time.Duration(fm.lastFrameTime.Load())
}

// MinFrameTime returns the shortest frame recorded.
func (fm *FrameMetrics) MinFrameTime() time.Duration {
	return time.Duration(fm.minFrameTime.Load())
}

// MaxFrameTime returns the longest frame recorded.
func (fm *FrameMetrics) MaxFrameTime() time.Duration {
	return time.Duration(fm.maxFrameTime.Load())
}

// Summary formats the timing for the stats overlay.
func (fm *FrameMetrics) Summary() string {
	if fm.Frames() == 0 {
		return "fps -"
	}
	round := func(d time.Duration) time.Duration { return d.Round(time.Microsecond) }
	return fmt.Sprintf("fps %.1f  frame %v  avg %v  min %v  max %v",
		fm.FPS(), round(fm.LastFrameTime()), round(fm.AverageFrameTime()),
		round(fm.MinFrameTime()), round(fm.MaxFrameTime()))
}

// AverageFrameTime returns the mean frame time since creation or Reset.
func (fm *FrameMetrics) AverageFrameTime() time.Duration {
	count := fm.totalFrames.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(fm.totalTime.Load() / count)
}

// Frames returns the number of frames recorded since creation or Reset.
func (fm *FrameMetrics) Frames() int64 {
	return fm.totalFrames.Load()
}

// VertexPool recycles Ebiten vertex slices between draw calls.
type VertexPool struct {
	pool sync.Pool
}

// NewVertexPool creates a new VertexPool.
func NewVertexPool() *VertexPool {
	return &VertexPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]ebiten.Vertex, 0, 18*64)
			},
		},
	}
}

// Get returns an empty slice, possibly with spare capacity.
func (p *VertexPool) Get() []ebiten.Vertex {
	return p.pool.Get().([]ebiten.Vertex)[:0]
}

// Put returns a slice to the pool.
func (p *VertexPool) Put(vertices []ebiten.Vertex) {
	if vertices != nil {
		p.pool.Put(vertices[:0])
	}
}

// IndexPool recycles index slices between draw calls.
type IndexPool struct {
	pool sync.Pool
}

// NewIndexPool creates a new IndexPool.
func NewIndexPool() *IndexPool {
	return &IndexPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]uint16, 0, 18*64)
			},
		},
	}
}

// Get returns an empty slice, possibly with spare capacity.
func (p *IndexPool) Get() []uint16 {
	return p.pool.Get().([]uint16)[:0]
}

// Put returns a slice to the pool.
func (p *IndexPool) Put(indices []uint16) {
	if indices != nil {
		p.pool.Put(indices[:0])
	}
}

// RenderStats counts draw calls and submitted vertices.
type RenderStats struct {
	DrawCalls   atomic.Int64
	VertexCount atomic.Int64
}

// NewRenderStats creates a new RenderStats instance.
func NewRenderStats() *RenderStats {
	return &RenderStats{}
}

// RecordDrawCall records a draw call with its vertex count.
func (rs *RenderStats) RecordDrawCall(vertices int) {
	rs.DrawCalls.Add(1)
	rs.VertexCount.Add(int64(vertices))
}

// Stats returns the current counters.
func (rs *RenderStats) Stats() (drawCalls, vertices int64) {
	return rs.DrawCalls.Load(), rs.VertexCount.Load()
}
