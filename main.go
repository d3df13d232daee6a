package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/forage/internal/commands"
	"github.com/colonyops/forage/internal/core/config"
	"github.com/colonyops/forage/internal/core/styles"
	"github.com/colonyops/forage/internal/data/snapshot"
	"github.com/colonyops/forage/internal/forage"
	"github.com/colonyops/forage/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "forage",
		Usage:     "Deterministic work scheduling for markdown backlogs",
		UsageText: "forage [global options] command [command options]",
		Description: `Forage keeps a backlog of markdown work items with dependency edges and
always knows which one to do next.

Items live as frontmatter-annotated markdown files under .forage/items.
Urgency flows backward through blocking edges, and the same backlog
always yields the same pick.

Run 'forage' with no arguments to open the interactive board.
Run 'forage next' to print the next item to work on.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("FORAGE_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("FORAGE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"C"},
				Usage:       "directory to locate the workspace from (defaults to cwd)",
				Sources:     cli.EnvVars("FORAGE_DIR"),
				Destination: &flags.Dir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			dir := flags.Dir
			if dir == "" {
				dir, err = os.Getwd()
				if err != nil {
					return ctx, err
				}
			}

			// Outside a workspace only init works; commands that need the
			// service report this through Flags.RequireApp.
			root, err := snapshot.FindRoot(dir)
			if errors.Is(err, snapshot.ErrNoWorkspace) {
				return ctx, nil
			}
			if err != nil {
				return ctx, err
			}
			flags.Root = root

			cfg, err := config.Load(commands.ConfigPath(root))
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = &cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			itemsDir, archivePath, lockPath := commands.WorkspacePaths(root, cfg)
			store := snapshot.NewStore(itemsDir, archivePath, lockPath, cfg.LockTimeout.Std())

			flags.App = forage.NewApp(cfg, store, log.Logger)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	boardCmd := commands.NewBoardCmd(flags)

	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewNextCmd(flags).Register(app)
	app = commands.NewLsCmd(flags).Register(app)
	app = commands.NewExplainCmd(flags).Register(app)
	app = commands.NewCheckCmd(flags).Register(app)
	app = commands.NewShowCmd(flags).Register(app)
	app = commands.NewNewCmd(flags).Register(app)
	app = commands.NewStatusCmd(flags).Register(app)
	app = boardCmd.Register(app)

	// Open the board when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'forage --help' for usage", c.Args().First())
		}
		return boardCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
