package smoothink

import (
	"image/color"
	"time"
)

// DefaultShutdownTimeout is the default time Stop waits for the loop to exit.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures Scene behavior.
type Options struct {
	// WindowTitle overrides the configured window title.
	WindowTitle string

	// ShowStats forces the statistics overlay on.
	ShowStats bool

	// BrushColor overrides the configured ink color, including on reload.
	// A zero value keeps the configured color.
	BrushColor color.RGBA

	// Background overrides the configured canvas color. A zero value keeps
	// the configured color.
	Background color.RGBA

	// Headless runs without opening a window. The canvas can still be driven
	// through its Press, Drag and Release methods.
	Headless bool

	// ShutdownTimeout sets the maximum time Stop waits.
	// Zero means use DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// Logger receives debug and info messages. Nil disables logging.
	Logger Logger

	// Metrics sets the metrics collector. If nil, DefaultMetrics() is used.
	Metrics *Metrics

	// ErrorTracker aggregates errors for alerting. If nil, errors are not
	// tracked.
	ErrorTracker *ErrorTracker

	// WatchConfig reloads the configuration when the file changes on disk.
	// Only file-backed scenes can be watched.
	WatchConfig bool

	// StrictValidation rejects configurations that only produce warnings.
	StrictValidation bool

	// WatchDebounce sets the debounce interval for file change events.
	// Zero means use DefaultWatchDebounce.
	WatchDebounce time.Duration
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{}
}
