package assets

import (
	_ "embed"
)

// DefaultConfigYAML is written beside the game executable when no config exists.
//
//go:embed defaults/skyrim_search_se.yaml
var DefaultConfigYAML []byte
