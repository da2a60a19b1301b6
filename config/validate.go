package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Store.validate(),
		c.Canvas.validate(),
		c.Render.validate(),
		c.History.validate(),
		c.Editor.validate(),
		c.Server.validate(),
		c.Watch.validate(),
		c.Log.validate(),
	)
}

func (s *StoreConfig) validate() error {
	switch s.Backend {
	case "memory":
		return nil
	case "file", "sqlite":
		if s.Path == "" {
			return fmt.Errorf("store.path must not be empty for the %s backend", s.Backend)
		}
		return nil
	default:
		return fmt.Errorf("store.backend must be one of: memory, file, sqlite; got %q", s.Backend)
	}
}

func (c *CanvasConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %gx%g", c.Width, c.Height)
	}
	return nil
}

func (r *RenderConfig) validate() error {
	var errs []error
	if r.CellWidth <= 0 {
		errs = append(errs, errors.New("render.cell_width must be positive"))
	}
	if r.CellHeight <= 0 {
		errs = append(errs, errors.New("render.cell_height must be positive"))
	}
	if r.ArrowSize <= 0 {
		errs = append(errs, errors.New("render.arrow_size must be positive"))
	}
	return errors.Join(errs...)
}

func (h *HistoryConfig) validate() error {
	if h.Capacity < 1 {
		return fmt.Errorf("history.capacity must be >= 1, got %d", h.Capacity)
	}
	return nil
}

func (e *EditorConfig) validate() error {
	if e.MoveStep <= 0 {
		return errors.New("editor.move_step must be positive")
	}
	return nil
}

func (s *ServerConfig) validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}
	return errors.Join(errs...)
}

func (w *WatchConfig) validate() error {
	if w.Debounce < 0 {
		return errors.New("watch.debounce must not be negative")
	}
	return nil
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}
