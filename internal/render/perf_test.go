//go:build !noebiten

package render

import (
	"sync"
	"testing"
	"time"
)

func TestNewFrameMetrics(t *testing.T) {
	tests := []struct {
		name         string
		updatePeriod time.Duration
		wantPeriod   time.Duration
	}{
		{"default period", time.Second, time.Second},
		{"custom period", 500 * time.Millisecond, 500 * time.Millisecond},
		{"zero period defaults to 1 second", 0, time.Second},
		{"negative period defaults to 1 second", -time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := NewFrameMetrics(tt.updatePeriod)
			if fm.updatePeriod != tt.wantPeriod {
				t.Errorf("updatePeriod = %v, want %v", fm.updatePeriod, tt.wantPeriod)
			}
		})
	}
}

func TestFrameMetricsMinMaxAverage(t *testing.T) {
	fm := NewFrameMetrics(time.Hour)

	fm.RecordFrame(10 * time.Millisecond)
	fm.RecordFrame(20 * time.Millisecond)
	fm.RecordFrame(15 * time.Millisecond)

	if got := fm.MinFrameTime(); got != 10*time.Millisecond {
		t.Errorf("MinFrameTime() = %v, want 10ms", got)
	}
	if got := fm.MaxFrameTime(); got != 20*time.Millisecond {
		t.Errorf("MaxFrameTime() = %v, want 20ms", got)
	}
	if got := fm.AverageFrameTime(); got != 15*time.Millisecond {
		t.Errorf("AverageFrameTime() = %v, want 15ms", got)
	}
	if got := fm.LastFrameTime(); got != 15*time.Millisecond {
		t.Errorf("LastFrameTime() = %v, want 15ms", got)
	}
	if got := fm.Frames(); got != 3 {
		t.Errorf("Frames() = %d, want 3", got)
	}
}

func TestFrameMetricsAverageSurvivesFPSWindow(t *testing.T) {
	fm := NewFrameMetrics(time.Nanosecond)
	fm.RecordFrame(10 * time.Millisecond)
	time.Sleep(time.Millisecond)
	fm.RecordFrame(30 * time.Millisecond)

	if got := fm.AverageFrameTime(); got != 20*time.Millisecond {
		t.Errorf("AverageFrameTime() = %v, want 20ms", got)
	}
	if fm.FPS() <= 0 {
		t.Errorf("FPS() = %v, want a positive rate", fm.FPS())
	}
}

func TestFrameMetricsSummary(t *testing.T) {
	fm := NewFrameMetrics(time.Hour)
	if got := fm.Summary(); got != "fps -" {
		t.Errorf("Summary() before any frame = %q, want %q", got, "fps -")
	}

	fm.RecordFrame(10 * time.Millisecond)
	fm.RecordFrame(20 * time.Millisecond)
	want := "fps 0.0  frame 20ms  avg 15ms  min 10ms  max 20ms"
	if got := fm.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestFrameMetricsConcurrency(t *testing.T) {
	fm := NewFrameMetrics(100 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				fm.RecordFrame(time.Duration(j) * time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = fm.FPS()
				_ = fm.AverageFrameTime()
			}
		}()
	}
	wg.Wait()

	if got := fm.Frames(); got != 1000 {
		t.Errorf("Frames() = %d, want 1000", got)
	}
}

func TestVertexAndIndexPools(t *testing.T) {
	vp := NewVertexPool()
	vs := vp.Get()
	if len(vs) != 0 || cap(vs) == 0 {
		t.Errorf("vertex slice len=%d cap=%d, want empty with capacity", len(vs), cap(vs))
	}
	vp.Put(vs)
	vp.Put(nil)

	ip := NewIndexPool()
	is := append(ip.Get(), 1, 2, 3)
	ip.Put(is)
	if got := ip.Get(); len(got) != 0 {
		t.Errorf("recycled index slice len = %d, want 0", len(got))
	}
}

func TestRenderStats(t *testing.T) {
	rs := NewRenderStats()
	rs.RecordDrawCall(18)
	rs.RecordDrawCall(288)

	calls, verts := rs.Stats()
	if calls != 2 || verts != 306 {
		t.Errorf("Stats() = %d, %d, want 2, 306", calls, verts)
	}

}
