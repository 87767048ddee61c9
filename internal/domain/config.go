package domain

// Config mirrors skyrim_search_se.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Database            DatabaseSettings `yaml:"database"`
	Host                HostSettings     `yaml:"host"`
	Commands            CommandSettings  `yaml:"commands"`
	Logging             LoggingSettings  `yaml:"logging"`
}

// DatabaseSettings controls the embedded store.
type DatabaseSettings struct {
	Path string `yaml:"path"`
	// Debug keeps the database on disk and recreates the schema on every start.
	// Otherwise a private temporary database is used.
	Debug   bool     `yaml:"debug"`
	Pragmas []string `yaml:"pragmas"`
}

// HostSettings describes where the host keeps the console entry points.
type HostSettings struct {
	ConsoleInputOffset   uint64 `yaml:"console_input_offset"`
	ConsoleContextOffset uint64 `yaml:"console_context_offset"`
	PrintOffset          uint64 `yaml:"print_offset"`
	InputTextOffset      uint64 `yaml:"input_text_offset"`
	PrintBufferSize      int    `yaml:"print_buffer_size"`
}

// CommandSettings configures the console command surface.
type CommandSettings struct {
	Aliases []string `yaml:"aliases"`
}

// LoggingSettings toggles diagnostics.
type LoggingSettings struct {
	Verbose bool `yaml:"verbose"`
}
