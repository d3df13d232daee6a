package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/tui"
)

type BoardCmd struct {
	flags *Flags
}

// NewBoardCmd creates a new board command
func NewBoardCmd(flags *Flags) *BoardCmd {
	return &BoardCmd{flags: flags}
}

// Register adds the board command to the application
func (cmd *BoardCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "board",
		Usage:     "Open the interactive board",
		UsageText: "forage board",
		Description: `Shows the ready set in selection order with the next pick highlighted.
Lifecycle transitions are bound to keys: s start, d done, b block.`,
		Action: cmd.Run,
	})

	return app
}

// Run starts the board. Also used as the root command's default action.
func (cmd *BoardCmd) Run(ctx context.Context, c *cli.Command) error {
	app, err := cmd.flags.RequireApp()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewBoard(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
