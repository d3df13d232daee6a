package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/styles"
)

// StatusCmd registers the lifecycle transition commands. Each one applies
// a state-machine-checked status rewrite to the item file.
type StatusCmd struct {
	flags *Flags
}

// NewStatusCmd creates the start/done/block command group
func NewStatusCmd(flags *Flags) *StatusCmd {
	return &StatusCmd{flags: flags}
}

// Register adds the start, done, and block commands to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	transitions := []struct {
		name  string
		usage string
		to    item.Status
	}{
		{"start", "Begin work on an item", item.StatusInProgress},
		{"done", "Mark an in-progress item completed", item.StatusCompleted},
		{"block", "Mark an in-progress item blocked", item.StatusBlocked},
	}

	for _, t := range transitions {
		to := t.to
		app.Commands = append(app.Commands, &cli.Command{
			Name:      t.name,
			Usage:     t.usage,
			UsageText: fmt.Sprintf("forage %s <id>", t.name),
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.run(ctx, c, to)
			},
		})
	}

	return app
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command, to item.Status) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: forage %s <id>", c.Name)
	}

	if err := app.SetStatus(ctx, id, to); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "%s %s %s\n",
		styles.StatusStyle(to).Render(styles.StatusIcon(to)),
		id,
		styles.Muted().Render("→ "+string(to)),
	)
	return nil
}
