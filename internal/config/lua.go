package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Lua execution limits applied to every configuration script.
const (
	luaCPULimit    = 10_000_000
	luaMemoryLimit = 50 * 1024 * 1024 // 50 MB
)

// LuaConfigParser parses Lua configuration scripts.
// It uses the Golua runtime to execute Lua code and extract configuration
// values from the ink.config table.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	stdout  io.Writer
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose print output
// goes to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
		stdout:  stdout,
	}, nil
}

// ErrResourceLimit is returned when a configuration script exceeds the
// CPU or memory limit.
var ErrResourceLimit = errors.New("configuration script exceeded resource limits")

// Parse executes a Lua configuration script and extracts ink.config.
func (p *LuaConfigParser) Parse(content []byte) (cfg *Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// golua panics when a hard limit is hit. The runtime is replaced since
	// its state is unknown after the unwind.
	defer func() {
		if r := recover(); r != nil {
			p.reset()
			cfg, err = nil, luaPanicError(r)
		}
	}()

	p.initInkGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    luaCPULimit,
			Memory: luaMemoryLimit,
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	if _, err = rt.Call1(thread, rt.FunctionValue(closure)); err != nil {
		var limit rt.ContextTerminationError
		if errors.As(err, &limit) {
			return nil, fmt.Errorf("failed to execute Lua configuration: %w: %v", ErrResourceLimit, err)
		}
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	return p.extractConfig()
}

// luaPanicError converts a value recovered from the Lua runtime. Only a
// context termination means a quota was exceeded.
func luaPanicError(r any) error {
	if limit, ok := r.(rt.ContextTerminationError); ok {
		return fmt.Errorf("failed to execute Lua configuration: %w: %v", ErrResourceLimit, limit)
	}
	if e, ok := r.(error); ok {
		return fmt.Errorf("failed to execute Lua configuration: runtime panic: %w", e)
	}
	return fmt.Errorf("failed to execute Lua configuration: runtime panic: %v", r)
}

func (p *LuaConfigParser) reset() {
	if p.cleanup != nil {
		p.cleanup()
	}
	p.runtime = rt.New(p.stdout)
	p.cleanup = lib.LoadAll(p.runtime)
}

// initInkGlobal installs a fresh ink table with an empty config table.
func (p *LuaConfigParser) initInkGlobal() {
	inkTable := rt.NewTable()
	inkTable.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	p.runtime.GlobalEnv().Set(rt.StringValue("ink"), rt.TableValue(inkTable))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	inkVal := p.runtime.GlobalEnv().Get(rt.StringValue("ink"))
	if inkVal == rt.NilValue {
		return &cfg, nil
	}
	inkTable, ok := inkVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("ink is not a table")
	}

	configVal := inkTable.Get(rt.StringValue("config"))
	if configVal == rt.NilValue {
		return &cfg, nil
	}
	configTable, ok := configVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("ink.config is not a table")
	}

	if err := extractConfigTable(&cfg, configTable); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// extractConfigTable copies every recognized key of table into cfg. Alias
// keys are applied before the canonical key so the canonical one wins.
func extractConfigTable(cfg *Config, table *rt.Table) error {
	for _, alias := range slices.Sorted(maps.Keys(aliases)) {
		if table.Get(rt.StringValue(alias)) == rt.NilValue {
			continue
		}
		f, _ := lookupField(aliases[alias])
		if err := extractField(cfg, table, alias, f); err != nil {
			return err
		}
	}
	for _, f := range fields {
		if err := extractField(cfg, table, f.key, f); err != nil {
			return err
		}
	}
	return nil
}

func extractField(cfg *Config, table *rt.Table, key string, f field) error {
	if table.Get(rt.StringValue(key)) == rt.NilValue {
		return nil
	}

	var ok bool
	switch dst := f.ptr(cfg).(type) {
	case *int:
		if v := getTableInt(table, key); v != nil {
			*dst, ok = *v, true
		}
	case *float64:
		if v := getTableFloat(table, key); v != nil {
			*dst, ok = *v, true
		}
	case *bool:
		if v := getTableBool(table, key); v != nil {
			*dst, ok = *v, true
		}
	case *string:
		if v := getTableString(table, key); v != nil {
			*dst, ok = ExpandEnv(*v), true
		}
	case *color.RGBA:
		c, err := getTableColor(table, key)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if c != nil {
			*dst, ok = *c, true
		}
	}
	if !ok {
		return fmt.Errorf("invalid %s: unexpected value type", key)
	}
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table.
// Returns nil if the key doesn't exist or is not a boolean.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if b, ok := val.TryBool(); ok {
		return &b
	}
	// Accept "yes"/"no" strings as the plain format does.
	if s, ok := val.TryString(); ok {
		b := parseBool(s)
		return &b
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if s, ok := val.TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableInt retrieves an int value from a Lua table. Floats are truncated.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}

// getTableColor retrieves a color from a Lua table. Integers are read as
// 0xRRGGBB; strings go through parseColor.
func getTableColor(table *rt.Table, key string) (*color.RGBA, error) {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		if n < 0 || n > 0xffffff {
			return nil, fmt.Errorf("color %#x out of range", n)
		}
		c := color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
		return &c, nil
	}
	if s := getTableString(table, key); s != nil {
		c, err := ParseColor(ExpandEnv(*s))
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	return nil, nil
}
