package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/skyrim-search-se/assets"
	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/pkg/filesystem"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// FileLoader loads YAML configuration from skyrim_search_se.yaml beside the
// host executable (overridable via SKYRIM_SEARCH_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			// A read-only game directory must not stop the plugin.
			_ = writeDefault(path)
			return cfg, nil
		}
		return domain.Config{}, err
	}

	// Keys missing from the file keep their default, including booleans
	// whose zero value hydrateDefaults cannot tell apart from "unset".
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path resolves the config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(domain.ConfigEnvVar); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.ExecutableDir(), domain.DefaultConfigFile)
}

func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(path, assets.DefaultConfigYAML, domain.ConfigFilePermissions)
}

// Default returns the configuration used when no file exists.
func Default() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return builtinDefault()
	}
	return cfg
}

func builtinDefault() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Database: domain.DatabaseSettings{
			Path:  domain.DefaultDatabasePath,
			Debug: true,
		},
		Host: domain.HostSettings{
			ConsoleInputOffset:   domain.DefaultConsoleInputOffset,
			ConsoleContextOffset: domain.DefaultConsoleContextOffset,
			PrintOffset:          domain.DefaultPrintOffset,
			InputTextOffset:      domain.DefaultInputTextOffset,
			PrintBufferSize:      domain.DefaultPrintBufferSize,
		},
		Commands: domain.CommandSettings{
			Aliases: append([]string(nil), domain.DefaultAliases...),
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	def := builtinDefault()
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = def.ConfigFormatVersion
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = def.Database.Path
	}
	if cfg.Host.ConsoleInputOffset == 0 {
		cfg.Host.ConsoleInputOffset = def.Host.ConsoleInputOffset
	}
	if cfg.Host.ConsoleContextOffset == 0 {
		cfg.Host.ConsoleContextOffset = def.Host.ConsoleContextOffset
	}
	if cfg.Host.PrintOffset == 0 {
		cfg.Host.PrintOffset = def.Host.PrintOffset
	}
	if cfg.Host.InputTextOffset == 0 {
		cfg.Host.InputTextOffset = def.Host.InputTextOffset
	}
	if cfg.Host.PrintBufferSize < 2 {
		cfg.Host.PrintBufferSize = def.Host.PrintBufferSize
	}
	if len(cfg.Commands.Aliases) == 0 {
		cfg.Commands.Aliases = def.Commands.Aliases
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
