package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/schedule"
	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/pkg/iojson"
)

// Exit codes for the next command. Scripts branch on these instead of
// parsing output.
const (
	exitCodeHalt    = 2
	exitCodeInvalid = 3
)

type NextCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewNextCmd creates a new next command
func NewNextCmd(flags *Flags) *NextCmd {
	return &NextCmd{flags: flags}
}

// Register adds the next command to the application
func (cmd *NextCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "next",
		Usage:     "Pick the next item to work on",
		UsageText: "forage next [--json]",
		Description: `Validates the backlog, then selects the single most urgent ready item.

Exit codes:
  0  an item was selected, or nothing is ready
  2  an overridden item is blocked and needs human intervention
  3  the backlog failed validation (cycles, dangling refs, bad values)`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the full result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NextCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	res, err := app.Next(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		if err := iojson.WriteLine(out, res); err != nil {
			return err
		}
		return exitCode(res)
	}

	switch res.Kind {
	case schedule.KindSelected:
		it := *res.Selected
		icon := styles.StatusIcon(it.Status)
		if it.Override {
			icon = styles.IconOverride
		}
		fmt.Fprintf(out, "%s %s %s\n",
			styles.StatusStyle(it.Status).Render(icon),
			styles.Title().Render(it.ID),
			styles.PriorityStyle(it.EffectivePriority).Render(string(it.EffectivePriority)),
		)
		if it.Title != "" {
			fmt.Fprintf(out, "  %s\n", it.Title)
		}
		fmt.Fprintf(out, "  %s\n", styles.Muted().Render("reason: "+string(res.Reason)))
		if it.PriorityReason != "" {
			fmt.Fprintf(out, "  %s\n", styles.Muted().Render(it.PriorityReason))
		}
	case schedule.KindEmpty:
		fmt.Fprintln(out, styles.Muted().Render("nothing ready, all caught up"))
	case schedule.KindHalt:
		fmt.Fprintln(out, styles.StatusStyle(item.StatusBlocked).Render("HALT"))
		fmt.Fprintln(out, res.Halt.Summary())
	case schedule.KindInvalid:
		fmt.Fprintln(out, styles.StatusStyle(item.StatusBlocked).Render("INVALID"))
		fmt.Fprintln(out, res.Invalid.Summary())
	}

	return exitCode(res)
}

// exitCode maps a result kind to the command's exit status.
func exitCode(res schedule.Result) error {
	switch res.Kind {
	case schedule.KindHalt:
		return cli.Exit("", exitCodeHalt)
	case schedule.KindInvalid:
		return cli.Exit("", exitCodeInvalid)
	default:
		return nil
	}
}
