// Package smoothink provides the public API for embedding the smoothink
// drawing canvas. A Scene owns one window and one Canvas; pointer input is
// turned into smooth, antialiased ink strokes that accumulate on the canvas
// until the window closes.
//
// # Basic Usage
//
// Load a configuration file and run the window loop on the main goroutine:
//
//	s, err := smoothink.New("/path/to/ink.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Sources
//
//   - Disk file: Use [New] to load from a filesystem path
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] for generated configurations
//   - In memory: Use [NewScene] with a ready [Config]
//
// Files are either Lua scripts filling the ink.config table or plain
// "key value" files; the format is detected from the content.
//
// # Hot Reload
//
// [Scene.ReloadConfig] re-reads the configuration and applies the new brush
// from the next sample onward. Ink already on the canvas is never redrawn.
// Set [Options.WatchConfig] to reload automatically when the file changes.
//
// # Headless Mode
//
// With [Options.Headless] no window is opened; the [Canvas] can still be
// driven programmatically through [Canvas.Press], [Canvas.Drag] and
// [Canvas.Release].
package smoothink
