package domain

// Program identity
const (
	// ProgramName is the name shown in usage and diagnostics.
	ProgramName = "skyrim-search-se"
	// Version is reported by the --version flag.
	Version = "0.1"
)

// Console command surface
var (
	// DefaultAliases are the first words that mark console input as ours.
	DefaultAliases = []string{"ss", "sss", "skyrimsearch", "skyrimsearchse"}
)

const (
	// HelpWord is the host's own help command; it triggers a usage hint after the host runs.
	HelpWord = "help"
	// UsageHint is printed after the host handles a bare help command.
	UsageHint = ProgramName + " usage: ss --help"
	// ParseFailedNotice is printed when input addressed to us cannot be tokenized.
	ParseFailedNotice = ProgramName + ": parse failed; falling back to skyrim engine"
)

// Result rendering
const (
	// NullPlaceholder is rendered for SQL NULL cells.
	NullPlaceholder = "<null>"
	// BlobFormat renders a blob as its length only.
	BlobFormat = "<%d-byte blob>"
)

// Host layout (offsets from the host image base, SkyrimSE 1.5.97)
const (
	// DefaultConsoleInputOffset locates the console input handler.
	DefaultConsoleInputOffset = 0x2e75f0
	// DefaultConsoleContextOffset locates the global holding the console state pointer.
	DefaultConsoleContextOffset = 0x2f000f0
	// DefaultPrintOffset locates the variadic console print routine.
	DefaultPrintOffset = 0x85c290
	// DefaultInputTextOffset is where the console state keeps its input string pointer.
	DefaultInputTextOffset = 0x38
	// DefaultPrintBufferSize is the host print routine's internal buffer, terminator included.
	DefaultPrintBufferSize = 1024
)

// Store defaults
const (
	// DefaultDatabasePath is the debug database file, relative to the game directory.
	DefaultDatabasePath = "skyrim_search_se.db"
	// DefaultConfigFile is looked up beside the process when SKYRIM_SEARCH_CONFIG is unset.
	DefaultConfigFile = "skyrim_search_se.yaml"
	// ConfigEnvVar overrides the config file location.
	ConfigEnvVar = "SKYRIM_SEARCH_CONFIG"
)

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// ConfigFilePermissions is the permission for the generated config file (rw-r--r--)
	ConfigFilePermissions = 0o644
)
