package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/opd-ai/go-smoothink/internal/geom"
)

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	// PointerDown starts a stroke.
	PointerDown PointerKind = iota
	// PointerMove extends the active stroke.
	PointerMove
	// PointerUp ends the active stroke.
	PointerUp
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	default:
		return "unknown"
	}
}

// PointerEvent is a host-neutral pointer sample in surface pixels.
type PointerEvent struct {
	Kind PointerKind
	Pos  geom.Vec2
}

// PointerHandler receives pointer events.
type PointerHandler interface {
	PointerDown(pos geom.Vec2)
	PointerMove(pos geom.Vec2)
	PointerUp(pos geom.Vec2)
}

// Dispatch delivers ev to the matching handler method.
func Dispatch(h PointerHandler, ev PointerEvent) {
	switch ev.Kind {
	case PointerDown:
		h.PointerDown(ev.Pos)
	case PointerMove:
		h.PointerMove(ev.Pos)
	case PointerUp:
		h.PointerUp(ev.Pos)
	}
}

// PointerTracker turns polled button and touch state into pointer events.
// The first touch to go down owns the stroke until it is lifted; otherwise
// the left mouse button drives it.
type PointerTracker struct {
	pressed bool
	last    geom.Vec2

	touch    ebiten.TouchID
	touching bool
	touchIDs []ebiten.TouchID
}

// NewPointerTracker creates an idle tracker.
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{}
}

// Pressed reports whether a stroke is in progress.
func (t *PointerTracker) Pressed() bool {
	return t.pressed
}

// Step feeds one tick of pointer state and appends the resulting events to
// dst. A stationary held pointer produces no event.
func (t *PointerTracker) Step(pressed bool, pos geom.Vec2, dst []PointerEvent) []PointerEvent {
	switch {
	case pressed && !t.pressed:
		dst = append(dst, PointerEvent{Kind: PointerDown, Pos: pos})
	case pressed && t.pressed:
		if pos != t.last {
			dst = append(dst, PointerEvent{Kind: PointerMove, Pos: pos})
		}
	case !pressed && t.pressed:
		dst = append(dst, PointerEvent{Kind: PointerUp, Pos: pos})
	}
	t.pressed = pressed
	t.last = pos
	return dst
}

// Poll reads the current Ebiten input state. It must be called from
// ebiten.Game.Update.
func (t *PointerTracker) Poll(dst []PointerEvent) []PointerEvent {
	pressed, pos := t.sample()
	return t.Step(pressed, pos, dst)
}

func (t *PointerTracker) sample() (bool, geom.Vec2) {
	if t.touching {
		if inpututil.IsTouchJustReleased(t.touch) {
			t.touching = false
			x, y := inpututil.TouchPositionInPreviousTick(t.touch)
			return false, geom.V(float64(x), float64(y))
		}
		x, y := ebiten.TouchPosition(t.touch)
		return true, geom.V(float64(x), float64(y))
	}

	if !t.pressed {
		t.touchIDs = inpututil.AppendJustPressedTouchIDs(t.touchIDs[:0])
		if len(t.touchIDs) > 0 {
			t.touch = t.touchIDs[0]
			t.touching = true
			x, y := ebiten.TouchPosition(t.touch)
			return true, geom.V(float64(x), float64(y))
		}
	}

	x, y := ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), geom.V(float64(x), float64(y))
}
