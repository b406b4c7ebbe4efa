package config

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// DefaultLintCommand and DefaultFormatCommand are written on first run.
var (
	DefaultLintCommand   = []string{"rumdl", "check"}
	DefaultFormatCommand = []string{"rumdl", "fmt"}
)

// GetConfigOptions returns the configuration options, their defaults and meanings.
// This is the single source of truth for defaults and the generated config file.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		// Core paths
		{Key: "working_dir", Default: "", Comment: "Root of the file tree and working directory for tools; empty = directory md-echo was started in"},
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state (session.db, md-echo.log)"},
		{Key: "log_file", Default: "", Comment: "Diagnostic log; empty = data_dir/md-echo.log"},

		{Key: "theme.base", Default: "dark", Comment: "Base palette: dark or light"},
		{Key: "theme.background", Default: "", Comment: "Hex color #RRGGBB or #AARRGGBB (alpha first)"},
		{Key: "theme.panel", Default: "", Comment: "Panel fill color"},
		{Key: "theme.text", Default: "", Comment: "Text color override"},
		{Key: "theme.accent", Default: "", Comment: "Selection, focused border and link color"},
		{Key: "theme.hyperlink", Default: "", Comment: "Link color override"},

		{Key: "tools.lint", Default: DefaultLintCommand, Comment: "Lint command argv; the target file is appended"},
		{Key: "tools.lint_use_open_file", Default: false, Comment: "Lint the saved file instead of a temp copy of the buffer"},
		{Key: "tools.format", Default: DefaultFormatCommand, Comment: "Format command argv; the target file is appended and read back"},
		{Key: "tools.format_use_open_file", Default: false, Comment: "Format the saved file in place instead of a temp copy"},

		{Key: "preview.line_height", Default: 1, Comment: "Rows per preview line used to follow the editor cursor"},
		{Key: "preview.style", Default: "", Comment: "Glamour style (dark, light, dracula, notty, ...); empty = follow theme.base"},

		{Key: "session.enabled", Default: true, Comment: "Remember recent files and cursor lines in data_dir/session.db"},
		{Key: "session.recent_limit", Default: 20, Comment: "Recent files offered by quick-open"},
	}
}
