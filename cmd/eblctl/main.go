// Command eblctl is the operator CLI for league standings and advancement.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/okian/ebladvance/internal/adapters/export"
	app "github.com/okian/ebladvance/internal/app"
	"github.com/okian/ebladvance/internal/config"
	"github.com/okian/ebladvance/internal/domain/advancement"
	"github.com/okian/ebladvance/internal/domain/types"
	"github.com/okian/ebladvance/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "eblctl:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "eblctl",
		Usage:  "league standings and advancement tools",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file", EnvVars: []string{"EBL_CONFIG"}},
			&cli.StringFlag{Name: "db", Usage: "override db_path"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of a table"},
		},
		Commands: []*cli.Command{
			fetchCommand(),
			standingsCommand(),
			advancementCommand(),
			awardCommand(),
			exportCommand(),
			worksheetCommand(),
		},
	}
}

// withRuntime loads config, wires the service and runs fn against it.
func withRuntime(c *cli.Context, fn func(ctx context.Context, rt *app.Runtime, cfg *config.Config) error) error {
	if path := c.String("config"); path != "" {
		if err := os.Setenv("EBL_CONFIG", path); err != nil {
			return err
		}
	}
	ctx := c.Context
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	rt, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(ctx, rt, cfg)
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "pull league meet results and store them",
		Action: func(c *cli.Context) error {
			return withRuntime(c, func(ctx context.Context, rt *app.Runtime, _ *config.Config) error {
				if err := rt.Service.Refresh(ctx); err != nil {
					return err
				}
				counts, err := rt.Store.Counts(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "stored %d league records for %d teams across %d meet matches\n",
					counts.LeaguePerformances, counts.LeagueTeams, counts.MeetMatches)
				return nil
			})
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the league ranking",
		Action: func(c *cli.Context) error {
			return withRuntime(c, func(ctx context.Context, rt *app.Runtime, _ *config.Config) error {
				rows, err := rt.Service.Rankings(ctx)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(c.App.Writer, rows)
				}
				return printStandings(c.App.Writer, rows)
			})
		},
	}
}

func advancementCommand() *cli.Command {
	return &cli.Command{
		Name:  "advancement",
		Usage: "print the advancement table",
		Action: func(c *cli.Context) error {
			return withRuntime(c, func(ctx context.Context, rt *app.Runtime, _ *config.Config) error {
				rows, err := rt.Service.Advancement(ctx)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(c.App.Writer, rows)
				}
				return printAdvancement(c.App.Writer, rows)
			})
		},
	}
}

func awardCommand() *cli.Command {
	return &cli.Command{
		Name:      "award",
		Usage:     `record an advancement entry, e.g. award 5214 "Inspire 1st (60)"`,
		ArgsUsage: "TEAM LABEL",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("award needs TEAM and LABEL, got %d arguments", c.NArg())
			}
			return withRuntime(c, func(ctx context.Context, rt *app.Runtime, _ *config.Config) error {
				sel, err := rt.Service.ApplySelection(ctx, c.Args().Get(0), c.Args().Get(1))
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "recorded %s entry worth %d points for %s\n", sel.Kind, sel.Points, c.Args().Get(0))
				return nil
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write rankings and advancement to an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "ebl-standings.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			return withRuntime(c, func(ctx context.Context, rt *app.Runtime, _ *config.Config) error {
				f, err := os.Create(c.String("out"))
				if err != nil {
					return err
				}
				if err := rt.Service.ExportWorkbook(ctx, f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String("out"))
				return nil
			})
		},
	}
}

func worksheetCommand() *cli.Command {
	return &cli.Command{
		Name:  "worksheet",
		Usage: "score a manual advancement worksheet (Team, Rank, Alliance, Award columns)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "input xlsx"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "optional xlsx result"},
			&cli.IntFlag{Name: "slots", Value: 2, Usage: "advancing teams"},
		},
		Action: func(c *cli.Context) error {
			in, err := os.Open(c.String("in"))
			if err != nil {
				return err
			}
			rows, err := export.ReadWorksheet(in)
			_ = in.Close()
			if err != nil {
				return err
			}
			rows = advancement.Worksheet(rows, c.Int("slots"))

			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := export.WriteWorksheet(f, rows); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			}
			if c.Bool("json") {
				return printJSON(c.App.Writer, rows)
			}
			return printWorksheet(c.App.Writer, rows)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStandings(w io.Writer, rows []types.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTEAM\tNAME\tRP\tPLAYED\tAVG")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%.2f\n", r.Rank, r.Number, r.Name, r.TotalRP, r.MatchesPlayed, r.AvgScore)
	}
	return tw.Flush()
}

func printAdvancement(w io.Writer, rows []types.AdvancementRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tNAME\tLEAGUE\tQUAL\tALLIANCE\tAWARDS\tPLAYOFF\tTOTAL\tADVANCES")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n", r.Rank, r.Number, r.Name, r.LeagueRank,
			r.Qualification, r.AllianceSelection, r.Awards, r.Playoff, r.Total, yesNo(r.Advances))
	}
	return tw.Flush()
}

func printWorksheet(w io.Writer, rows []advancement.WorksheetRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tRANK\tRANK PTS\tALLIANCE\tAWARDS\tTOTAL\tADVANCES")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n", r.Team, r.Rank, r.RankPts, r.AlliancePts, r.AwardPts, r.Total, yesNo(r.Advancing))
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
