package config

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("theme", c.Theme, knownTheme),
		criterio.Run("default_priority", string(c.DefaultPriority), knownPriority),
		criterio.Run("items_dir", c.ItemsDir, nonEmpty),
		criterio.Run("archive_file", c.ArchiveFile, nonEmpty),
	)
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q: must be one of %s", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func knownPriority(p string) error {
	if !item.Priority(p).IsValid() {
		return fmt.Errorf("unknown priority %q: must be one of high, medium, low", p)
	}
	return nil
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}
