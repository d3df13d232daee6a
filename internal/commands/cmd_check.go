package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/pkg/iojson"
)

type CheckCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewCheckCmd creates a new check command
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Validate the backlog without selecting anything",
		UsageText: "forage check [--json]",
		Description: `Runs every structural check to completion and reports all violations
at once: dependency cycles with their full paths, references to unknown
items, and out-of-enumeration field values.

Exits 3 when any violation is found.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the report as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	report, err := app.Check(ctx)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		if err := iojson.WriteLine(out, report); err != nil {
			return err
		}
		if !report.Empty() {
			return cli.Exit("", exitCodeInvalid)
		}
		return nil
	}

	if report.Empty() {
		fmt.Fprintln(out, styles.Title().Render("✓ backlog is valid"))
		return nil
	}

	fmt.Fprintln(out, report.Summary())
	return cli.Exit("", exitCodeInvalid)
}
