package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-ledger/internal/app"
	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/domain/playerstats"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
	"github.com/riskibarqy/tournament-ledger/internal/usecase"
	"github.com/urfave/cli/v2"
)

// runner owns the app for the lifetime of one CLI invocation.
type runner struct {
	cfg    config.Config
	logger *logging.Logger
	app    *app.App
}

func newCLI(cfg config.Config, logger *logging.Logger) *cli.App {
	r := &runner{cfg: cfg, logger: logger}

	limitFlag := &cli.IntFlag{
		Name:  "limit",
		Usage: "number of rows to print (0 uses LEADERBOARD_DEFAULT_LIMIT)",
	}

	return &cli.App{
		Name:  "ledger",
		Usage: "merge match reports and print tournament leaderboards",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data-dir",
				Usage: "directory holding match report files (overrides MATCH_DATA_DIR)",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "store driver: memory, sqlite or postgres (overrides STORE_DRIVER)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print JSON instead of tables",
			},
		},
		Before: r.open,
		After:  r.close,
		Commands: []*cli.Command{
			{
				Name:  "scan",
				Usage: "merge new or changed match files into the ledger",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print per-file outcomes"},
				},
				Action: r.scan,
			},
			{
				Name:   "standings",
				Usage:  "print the team table",
				Action: r.standings,
			},
			{
				Name:   "scorers",
				Usage:  "print top scorers",
				Flags:  []cli.Flag{limitFlag},
				Action: r.board(playerstats.BoardTopScorers),
			},
			{
				Name:   "penalties",
				Usage:  "print the most carded players",
				Flags:  []cli.Flag{limitFlag},
				Action: r.board(playerstats.BoardMostCarded),
			},
			{
				Name:   "ironmen",
				Usage:  "print players with the most minutes",
				Flags:  []cli.Flag{limitFlag},
				Action: r.board(playerstats.BoardMostMinutes),
			},
			{
				Name:  "export",
				Usage: "write standings and player totals to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "ledger.xlsx", Usage: "output file"},
				},
				Action: r.export,
			},
			{
				Name:   "processed",
				Usage:  "list match files already merged",
				Action: r.processed,
			},
		},
	}
}

func (r *runner) open(c *cli.Context) error {
	if dir := c.String("data-dir"); dir != "" {
		r.cfg.MatchDataDir = dir
	}
	if driver := c.String("store"); driver != "" {
		r.cfg.StoreDriver = driver
	}
	// The CLI has no /metrics endpoint.
	r.cfg.MetricsEnabled = false

	ledgerApp, err := app.New(c.Context, r.cfg, r.logger)
	if err != nil {
		return err
	}
	r.app = ledgerApp
	return nil
}

func (r *runner) close(*cli.Context) error {
	return r.app.Close()
}

func (r *runner) scan(c *cli.Context) error {
	report, err := r.app.Ingestion.Scan(c.Context)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		if !c.Bool("verbose") {
			report.Files = nil
		}
		return printJSON(c.App.Writer, report)
	}

	fmt.Fprintf(c.App.Writer, "Processing finished: %d new file(s) merged, %d unchanged, %d skipped.\n",
		report.Merged, report.Unchanged, report.Skipped)
	if !c.Bool("verbose") {
		return nil
	}

	tw := newTable(c.App.Writer, "FILE", "STATUS", "REASON")
	for _, f := range report.Files {
		row(tw, f.Filename, f.Status, f.Reason)
	}
	return tw.Flush()
}

func (r *runner) standings(c *cli.Context) error {
	items, err := r.app.Leaderboard.Standings(c.Context)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, items)
	}

	tw := newTable(c.App.Writer, "#", "TEAM", "PTS", "P", "W", "OTW", "OTL", "L", "GF", "GA", "GD")
	for i, s := range items {
		row(tw, i+1, s.TeamName, s.Points, s.Played(), s.WonRegulation, s.WonOvertime,
			s.LostOvertime, s.LostRegulation, s.GoalsFor, s.GoalsAgainst, s.GoalDifference())
	}
	return tw.Flush()
}

func (r *runner) board(board playerstats.Board) cli.ActionFunc {
	return func(c *cli.Context) error {
		items, err := r.app.Leaderboard.Board(c.Context, board, c.Int("limit"))
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return printJSON(c.App.Writer, items)
		}

		tw := newTable(c.App.Writer, "#", "PLAYER", "TEAM", "NR", "G", "A", "YC", "RC", "MIN", "GP")
		for i, p := range items {
			row(tw, i+1, p.Name, p.Team, p.Number, p.Goals, p.Assists,
				p.YellowCards, p.RedCards, p.MinutesPlayed, p.GamesPlayed)
		}
		return tw.Flush()
	}
}

func (r *runner) export(c *cli.Context) error {
	path := c.String("out")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := r.app.Leaderboard.ExportWorkbook(c.Context, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}

func (r *runner) processed(c *cli.Context) error {
	items, err := r.app.Processed.ListProcessedFiles(c.Context)
	if err != nil {
		return fmt.Errorf("%w: list processed files: %v", usecase.ErrDependencyUnavailable, err)
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, items)
	}

	tw := newTable(c.App.Writer, "FILE", "FINGERPRINT", "PROCESSED AT")
	for _, p := range items {
		row(tw, p.Filename, shortFingerprint(p.Fingerprint), p.ProcessedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func newTable(w io.Writer, headers ...any) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row(tw, headers...)
	return tw
}

func row(w io.Writer, cells ...any) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, cell)
	}
	fmt.Fprintln(w)
}

func printJSON(w io.Writer, v any) error {
	return sonic.ConfigDefault.NewEncoder(w).Encode(v)
}

func shortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}
