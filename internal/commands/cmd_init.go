package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/forage/internal/core/config"
	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/internal/data/snapshot"
)

type InitCmd struct {
	flags *Flags
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a forage workspace in the current directory",
		UsageText: "forage init",
		Description: `Creates the .forage directory with an items folder and a default
config file. Running init inside an existing workspace is a no-op.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Root != "" {
		fmt.Fprintf(c.Root().Writer, "workspace already initialized at %s\n", cmd.flags.Root)
		return nil
	}

	dir := cmd.flags.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	base := filepath.Join(dir, snapshot.WorkspaceDir)
	if err := os.MkdirAll(filepath.Join(base, config.DefaultItemsDir), 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	cfgPath := filepath.Join(base, configFile)
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("render default config: %w", err)
		}
		if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	}

	fmt.Fprintln(c.Root().Writer, styles.Title().Render("Initialized forage workspace"))
	fmt.Fprintln(c.Root().Writer, styles.Muted().Render("  "+base))
	return nil
}
