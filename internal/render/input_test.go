package render

import (
	"testing"

	"github.com/opd-ai/go-smoothink/internal/geom"
)

type sample struct {
	pressed bool
	x, y    float64
}

func TestPointerTrackerStep(t *testing.T) {
	tests := []struct {
		name    string
		samples []sample
		want    []PointerEvent
	}{
		{
			name:    "idle",
			samples: []sample{{false, 1, 1}, {false, 5, 5}},
			want:    nil,
		},
		{
			name:    "press and release in place",
			samples: []sample{{true, 3, 4}, {true, 3, 4}, {false, 3, 4}},
			want: []PointerEvent{
				{PointerDown, geom.V(3, 4)},
				{PointerUp, geom.V(3, 4)},
			},
		},
		{
			name:    "drag",
			samples: []sample{{false, 0, 0}, {true, 0, 0}, {true, 10, 0}, {true, 20, 5}, {false, 25, 5}},
			want: []PointerEvent{
				{PointerDown, geom.V(0, 0)},
				{PointerMove, geom.V(10, 0)},
				{PointerMove, geom.V(20, 5)},
				{PointerUp, geom.V(25, 5)},
			},
		},
		{
			name:    "two strokes",
			samples: []sample{{true, 1, 1}, {false, 1, 1}, {true, 9, 9}, {false, 9, 9}},
			want: []PointerEvent{
				{PointerDown, geom.V(1, 1)},
				{PointerUp, geom.V(1, 1)},
				{PointerDown, geom.V(9, 9)},
				{PointerUp, geom.V(9, 9)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewPointerTracker()
			var got []PointerEvent
			for _, s := range tt.samples {
				got = tr.Step(s.pressed, geom.V(s.x, s.y), got)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if tr.Pressed() {
				t.Error("tracker still pressed after the last sample")
			}
		})
	}
}

type recordingHandler struct {
	events []PointerEvent
}

func (h *recordingHandler) PointerDown(p geom.Vec2) {
	h.events = append(h.events, PointerEvent{PointerDown, p})
}

func (h *recordingHandler) PointerMove(p geom.Vec2) {
	h.events = append(h.events, PointerEvent{PointerMove, p})
}

func (h *recordingHandler) PointerUp(p geom.Vec2) {
	h.events = append(h.events, PointerEvent{PointerUp, p})
}

func TestDispatch(t *testing.T) {
	h := &recordingHandler{}
	in := []PointerEvent{
		{PointerDown, geom.V(1, 2)},
		{PointerMove, geom.V(3, 4)},
		{PointerKind(7), geom.V(0, 0)},
		{PointerUp, geom.V(5, 6)},
	}
	for _, ev := range in {
		Dispatch(h, ev)
	}
	if len(h.events) != 3 {
		t.Fatalf("handled %d events, want 3", len(h.events))
	}
	if h.events[2] != in[3] {
		t.Errorf("last event = %v, want %v", h.events[2], in[3])
	}
}

func TestPointerKindString(t *testing.T) {
	for k, want := range map[PointerKind]string{
		PointerDown:    "down",
		PointerMove:    "move",
		PointerUp:      "up",
		PointerKind(9): "unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(k), got, want)
		}
	}
}
