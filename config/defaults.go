package config

const (
	defaultCanvasWidth  = 800
	defaultCanvasHeight = 600

	defaultCellWidth  = 10
	defaultCellHeight = 20
	defaultArrowSize  = 10

	defaultHistoryCapacity = 50
	defaultMoveStep        = 10
)

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"store.backend": "file",
		"store.path":    ".flowedit",

		"canvas.width":  defaultCanvasWidth,
		"canvas.height": defaultCanvasHeight,

		"render.cell_width":  defaultCellWidth,
		"render.cell_height": defaultCellHeight,
		"render.arrow_size":  defaultArrowSize,

		"history.capacity": defaultHistoryCapacity,

		"editor.move_step": defaultMoveStep,
		"editor.autosave":  true,

		"server.addr":          "127.0.0.1:8080",
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",

		"watch.debounce": "200ms",

		"log.level":  "info",
		"log.format": "text",
		"log.file":   "",
	}
}
