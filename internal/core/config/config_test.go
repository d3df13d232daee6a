package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/forage/internal/core/item"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("partial file keeps defaults for unset fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("theme: gruvbox\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gruvbox", cfg.Theme)
		assert.Equal(t, DefaultItemsDir, cfg.ItemsDir)
		assert.Equal(t, DefaultLockTimeout, cfg.LockTimeout)
		assert.Equal(t, item.PriorityMedium, cfg.DefaultPriority)
	})

	t.Run("full file", func(t *testing.T) {
		content := `
items_dir: backlog
archive_file: done.yml
lock_timeout: 2s
default_priority: low
`
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "backlog", cfg.ItemsDir)
		assert.Equal(t, "done.yml", cfg.ArchiveFile)
		assert.Equal(t, 2*time.Second, cfg.LockTimeout.Std())
		assert.Equal(t, item.PriorityLow, cfg.DefaultPriority)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("items_dir: [\n"), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown theme fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("theme: neon\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "neon")
	})

	t.Run("unknown default priority fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("default_priority: urgent\n"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "urgent")
	})
}
