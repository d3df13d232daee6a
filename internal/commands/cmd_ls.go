package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	all        bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List items in dependency order",
		UsageText: "forage ls [--json] [--all]",
		Description: `Displays every open item with its effective priority, in dependency
order so blockers appear before the items waiting on them.

Use --all to include completed items, --json for machine-readable lines.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "include completed items",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	entries, err := app.List(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if e.Item.Completed() && !cmd.all {
				continue
			}
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, styles.Muted().Render("no items"))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tID\tSTATUS\tPRIORITY\tBLOCKED BY\tTITLE")

	for _, e := range entries {
		it := e.Item
		if it.Completed() && !cmd.all {
			continue
		}

		icon := styles.StatusIcon(it.Status)
		if it.Override {
			icon = styles.IconOverride
		}

		prio := string(it.EffectivePriority)
		if it.EffectivePriority.MoreUrgent(it.Priority) {
			prio = fmt.Sprintf("%s (was %s)", it.EffectivePriority, it.Priority)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			styles.StatusStyle(it.Status).Render(icon),
			it.ID,
			renderStatus(it, e.Ready),
			styles.PriorityStyle(it.EffectivePriority).Render(prio),
			strings.Join(it.BlockedBy, ","),
			it.Title,
		)
	}

	return w.Flush()
}

func renderStatus(it item.Item, ready bool) string {
	s := styles.StatusStyle(it.Status).Render(string(it.Status))
	if ready && !it.Completed() {
		s += " " + styles.Muted().Render("ready")
	}
	return s
}
