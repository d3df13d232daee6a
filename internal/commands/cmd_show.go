package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/styles"
)

type ShowCmd struct {
	flags *Flags

	// flags
	raw bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show an item with its rendered markdown body",
		UsageText: "forage show <id> [--raw]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print the markdown body without terminal rendering",
				Destination: &cmd.raw,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: forage show <id>")
	}

	it, body, err := app.Show(ctx, id)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	icon := styles.StatusIcon(it.Status)
	if it.Override {
		icon = styles.IconOverride
	}
	fmt.Fprintf(out, "%s %s %s %s\n",
		styles.StatusStyle(it.Status).Render(icon),
		styles.Title().Render(it.ID),
		styles.StatusStyle(it.Status).Render(string(it.Status)),
		styles.PriorityStyle(it.Priority).Render(string(it.Priority)),
	)
	if it.Title != "" {
		fmt.Fprintf(out, "%s\n", it.Title)
	}
	if len(it.BlockedBy) > 0 {
		fmt.Fprintf(out, "%s\n", styles.Muted().Render("blocked by: "+strings.Join(it.BlockedBy, ", ")))
	}
	if len(it.Related) > 0 {
		fmt.Fprintf(out, "%s\n", styles.Muted().Render("related: "+strings.Join(it.Related, ", ")))
	}

	if strings.TrimSpace(body) == "" {
		return nil
	}

	if cmd.raw {
		fmt.Fprintf(out, "\n%s\n", body)
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := r.Render(body)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	fmt.Fprint(out, rendered)
	return nil
}
