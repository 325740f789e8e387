// Package config loads the formatter configuration from sv-fmt.toml. The
// file is strict: unknown keys and type mismatches are errors, so a typo in
// a rule name cannot silently fall back to the default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the configuration file looked up next to the sources.
const DefaultFileName = "sv-fmt.toml"

type Config struct {
	IndentWidth         int  `toml:"indent_width"`
	UseTabs             bool `toml:"use_tabs"`
	AlignPreprocessor   bool `toml:"align_preprocessor"`
	WrapMultilineBlocks bool `toml:"wrap_multiline_blocks"`
	InlineEndElse       bool `toml:"inline_end_else"`
	SpaceAfterComma     bool `toml:"space_after_comma"`
	RemoveCallSpace     bool `toml:"remove_call_space"`
	MaxLineLength       int  `toml:"max_line_length"`
	AlignCaseColon      bool `toml:"align_case_colon"`
	AutoWrapLongLines   bool `toml:"auto_wrap_long_lines"`
}

func Default() Config {
	return Config{
		IndentWidth:         2,
		UseTabs:             false,
		AlignPreprocessor:   true,
		WrapMultilineBlocks: true,
		InlineEndElse:       true,
		SpaceAfterComma:     true,
		RemoveCallSpace:     true,
		MaxLineLength:       100,
		AlignCaseColon:      true,
		AutoWrapLongLines:   false,
	}
}

// IndentUnit is the string emitted per indentation level.
func (c Config) IndentUnit() string {
	if c.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", c.IndentWidth)
}

// Load reads path over the defaults. Every key in the file must be a known
// option of the right type.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg.normalized(), nil
}

// Discover walks from dir upward and loads the nearest sv-fmt.toml. When no
// file exists the defaults apply and the returned path is empty.
func Discover(dir string) (Config, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return Default(), "", err
	}
	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), "", nil
		}
		dir = parent
	}
}

// Non-positive widths would make the emitter loop or emit nothing useful.
func (c Config) normalized() Config {
	if c.IndentWidth <= 0 {
		c.IndentWidth = 2
	}
	if c.MaxLineLength <= 0 {
		c.MaxLineLength = 100
	}
	return c
}
