package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/doeshing/skyrim-search-se/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateHost(cfg.Host); err != nil {
		return err
	}
	if err := validateCommands(cfg.Commands); err != nil {
		return err
	}
	return validateDatabase(cfg.Database)
}

func validateHost(host domain.HostSettings) error {
	if host.ConsoleInputOffset == 0 || host.ConsoleContextOffset == 0 || host.PrintOffset == 0 {
		return errors.New("host offsets must be non-zero")
	}
	if host.PrintBufferSize < 2 {
		return fmt.Errorf("host.print_buffer_size must be >= 2, got %d", host.PrintBufferSize)
	}
	return nil
}

func validateCommands(commands domain.CommandSettings) error {
	if len(commands.Aliases) == 0 {
		return errors.New("at least one command alias must be configured")
	}
	for _, alias := range commands.Aliases {
		if alias == "" || strings.IndexFunc(alias, unicode.IsSpace) >= 0 {
			return fmt.Errorf("command alias %q must be a single word", alias)
		}
		if strings.EqualFold(alias, domain.HelpWord) {
			return fmt.Errorf("command alias %q is reserved for the host", alias)
		}
	}
	return nil
}

func validateDatabase(db domain.DatabaseSettings) error {
	for _, pragma := range db.Pragmas {
		body := strings.TrimSuffix(strings.TrimSpace(pragma), ";")
		if body == "" || strings.Contains(body, ";") {
			return fmt.Errorf("database.pragmas entry %q must be a single pragma", pragma)
		}
	}
	return nil
}
