package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
)

// Format names accepted by ParseReader.
const (
	FormatLua   = "lua"
	FormatPlain = "plain"
)

// Parser provides a unified interface for parsing smoothink configuration
// files. It automatically detects whether a file is a Lua script or a plain
// key-value file.
type Parser struct {
	plainParser *PlainParser
	luaParser   *LuaConfigParser
}

// NewParser creates a new Parser that can handle both formats.
func NewParser() (*Parser, error) {
	luaParser, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}

	return &Parser{
		plainParser: NewPlainParser(),
		luaParser:   luaParser,
	}, nil
}

// ParseFile reads and parses a configuration file, auto-detecting the format.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return p.Parse(content)
}

// Parse parses configuration content, auto-detecting the format.
func (p *Parser) Parse(content []byte) (*Config, error) {
	if IsLuaConfig(content) {
		return p.luaParser.Parse(content)
	}
	return p.plainParser.Parse(content)
}

// luaConfigPattern matches an assignment to ink.config or one of its fields
// at the start of a line, so comments mentioning it do not count.
var luaConfigPattern = regexp.MustCompile(`(?m)^\s*ink\.config\s*(=|\.|\[)`)

// IsLuaConfig reports whether content is a Lua configuration script.
func IsLuaConfig(content []byte) bool {
	return luaConfigPattern.Match(content)
}

// ParseFromFS reads and parses a configuration file from a filesystem.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}

	return p.Parse(content)
}

// ParseReader parses configuration from an io.Reader.
// The format parameter must be FormatLua or FormatPlain.
func (p *Parser) ParseReader(r io.Reader, format string) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	switch format {
	case FormatLua:
		return p.luaParser.Parse(content)
	case FormatPlain:
		return p.plainParser.Parse(content)
	default:
		return nil, fmt.Errorf("unknown format: %s (expected 'lua' or 'plain')", format)
	}
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.luaParser != nil {
		return p.luaParser.Close()
	}
	return nil
}
