package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/pkg/iojson"
)

type ExplainCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewExplainCmd creates a new explain command
func NewExplainCmd(flags *Flags) *ExplainCmd {
	return &ExplainCmd{flags: flags}
}

// Register adds the explain command to the application
func (cmd *ExplainCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "explain",
		Usage:     "Explain why an item is or is not workable",
		UsageText: "forage explain <id> [--json]",
		Description: `Shows an item's dependency closure, the items it blocks, any
unsatisfied dependencies, and a readiness verdict.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExplainCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: forage explain <id>")
	}

	ex, err := app.Explain(ctx, id)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteLine(out, ex)
	}

	it := ex.Item
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
	if it.PriorityReason != "" {
		fmt.Fprintf(out, "  %s\n", styles.Muted().Render(it.PriorityReason))
	}

	section := func(label string, ids []string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(out, "\n%s\n", styles.Muted().Render(label))
		for _, dep := range ids {
			fmt.Fprintf(out, "  %s\n", dep)
		}
	}

	section("depends on (transitive)", ex.HardDeps)
	section("related (informational)", ex.SoftDeps)
	section("blocks", ex.Blocks)

	fmt.Fprintf(out, "\n%s\n", renderVerdict(ex.Ready, ex.Verdict))
	return nil
}

func renderVerdict(ready bool, verdict string) string {
	if ready {
		return styles.Title().Render("✓ " + verdict)
	}
	return "✗ " + verdict
}
