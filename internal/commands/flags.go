// Package commands contains the CLI command implementations.
package commands

import (
	"errors"
	"path/filepath"

	"github.com/colonyops/forage/internal/core/config"
	"github.com/colonyops/forage/internal/data/snapshot"
	"github.com/colonyops/forage/internal/forage"
)

// configFile is the workspace-local config file name under .forage.
const configFile = "config.yml"

type Flags struct {
	LogLevel string
	LogFile  string
	Dir      string

	// Root is the discovered workspace root. Empty when the working
	// directory is not inside a forage workspace.
	Root string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// App is the forage service, nil outside a workspace
	App *forage.App
}

// RequireApp returns the service or a helpful error when the command was
// run outside a workspace. Every command except init goes through this.
func (f *Flags) RequireApp() (*forage.App, error) {
	if f.App == nil {
		return nil, errors.New("not inside a forage workspace, run 'forage init' first")
	}
	return f.App, nil
}

// WorkspacePaths resolves the store paths for a workspace root under the
// given config.
func WorkspacePaths(root string, cfg config.Config) (itemsDir, archivePath, lockPath string) {
	base := filepath.Join(root, snapshot.WorkspaceDir)
	return resolve(base, cfg.ItemsDir), resolve(base, cfg.ArchiveFile), resolve(base, cfg.LockFile)
}

func resolve(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// ConfigPath returns the config file location for a workspace root.
func ConfigPath(root string) string {
	return filepath.Join(root, snapshot.WorkspaceDir, configFile)
}
