package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/internal/forage"
)

type NewCmd struct {
	flags *Flags

	// Command-specific flags
	title     string
	priority  string
	override  bool
	blockedBy []string
	related   []string
	body      string
}

// NewNewCmd creates a new new command
func NewNewCmd(flags *Flags) *NewCmd {
	return &NewCmd{flags: flags}
}

// Register adds the new command to the application
func (cmd *NewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "new",
		Usage:     "Create a new work item",
		UsageText: "forage new [options]",
		Description: `Authors a new item file under the workspace items directory. The id is
derived from the title plus a random suffix.

When --title is omitted, an interactive form prompts for input.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "item title, also used to derive the id",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "urgency tier (high, medium, low)",
				Destination: &cmd.priority,
			},
			&cli.BoolFlag{
				Name:        "override",
				Usage:       "pin the item above all computed ordering",
				Destination: &cmd.override,
			},
			&cli.StringSliceFlag{
				Name:        "blocked-by",
				Aliases:     []string{"b"},
				Usage:       "ids this item waits on (repeatable)",
				Destination: &cmd.blockedBy,
			},
			&cli.StringSliceFlag{
				Name:        "related",
				Aliases:     []string{"r"},
				Usage:       "informational references to other ids (repeatable)",
				Destination: &cmd.related,
			},
			&cli.StringFlag{
				Name:        "body",
				Usage:       "markdown body for the item file",
				Destination: &cmd.body,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NewCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	if cmd.title == "" {
		if err := cmd.promptForInput(); err != nil {
			return err
		}
	}

	opts := forage.CreateOptions{
		Title:     cmd.title,
		Priority:  item.Priority(cmd.priority),
		Override:  cmd.override,
		BlockedBy: cmd.blockedBy,
		Related:   cmd.related,
		Body:      cmd.body,
	}

	it, err := app.Create(ctx, opts)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	out := c.Root().Writer
	fmt.Fprintf(out, "%s %s\n",
		styles.Title().Render("created"),
		it.ID,
	)
	return nil
}

// promptForInput collects the item fields interactively.
func (cmd *NewCmd) promptForInput() error {
	var blockedBy string

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Description("Short summary of the work").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}).
			Value(&cmd.title),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("high", string(item.PriorityHigh)),
				huh.NewOption("medium", string(item.PriorityMedium)),
				huh.NewOption("low", string(item.PriorityLow)),
			).
			Value(&cmd.priority),
		huh.NewInput().
			Title("Blocked by").
			Description("Comma-separated ids this item waits on (optional)").
			Value(&blockedBy),
		huh.NewConfirm().
			Title("Manual override?").
			Description("Pin this item above all computed ordering").
			Value(&cmd.override),
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	for _, id := range strings.Split(blockedBy, ",") {
		if id = strings.TrimSpace(id); id != "" {
			cmd.blockedBy = append(cmd.blockedBy, id)
		}
	}

	return nil
}
