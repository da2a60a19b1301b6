// Package config loads flowedit settings. Values are layered, highest
// precedence last: built-in defaults, an optional YAML file, then FLOWEDIT_
// environment variables.
package config

import "time"

// Config holds all settings.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	Canvas  CanvasConfig  `koanf:"canvas"`
	Render  RenderConfig  `koanf:"render"`
	History HistoryConfig `koanf:"history"`
	Editor  EditorConfig  `koanf:"editor"`
	Server  ServerConfig  `koanf:"server"`
	Watch   WatchConfig   `koanf:"watch"`
	Log     LogConfig     `koanf:"log"`
}

// StoreConfig selects where the flowchart is persisted.
type StoreConfig struct {
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// CanvasConfig is the area new blocks are centered in, in pixels.
type CanvasConfig struct {
	Width  float64 `koanf:"width"`
	Height float64 `koanf:"height"`
}

// RenderConfig holds character-cell and arrowhead sizes.
type RenderConfig struct {
	CellWidth  float64 `koanf:"cell_width"`
	CellHeight float64 `koanf:"cell_height"`
	ArrowSize  float64 `koanf:"arrow_size"`
}

// HistoryConfig holds undo settings.
type HistoryConfig struct {
	Capacity int `koanf:"capacity"`
}

// EditorConfig holds terminal editor settings.
type EditorConfig struct {
	MoveStep float64 `koanf:"move_step"`
	Autosave bool    `koanf:"autosave"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// WatchConfig holds file watcher settings.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// LogConfig holds structured logging settings. An empty File logs to
// stderr.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}
