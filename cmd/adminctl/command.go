package main

import "github.com/urfave/cli/v2"

func (t *adminctl) loadApp() {
	app := cli.NewApp()
	app.Name = "adminctl"
	app.Usage = "administer lotteries on a running lottery service"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{
		&cli.StringFlag{Name: "config", Usage: "path to a TOML config file"},
		&cli.StringSliceFlag{Name: "base-url", Usage: "service origin, repeatable for failover"},
		&cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
	}

	lottery := &cli.StringFlag{Name: "lottery", Usage: "lottery id", Required: true}
	token := &cli.StringFlag{Name: "token", Usage: "edit token"}

	app.Commands = []*cli.Command{
		{
			Action:   t.showLottery,
			Name:     "show",
			Usage:    "Print a lottery and, with a token, its participants",
			Flags:    []cli.Flag{lottery, token},
			Category: "Read",
		},
		{
			Action:   t.showResults,
			Name:     "results",
			Usage:    "Print the winners of a completed lottery",
			Flags:    []cli.Flag{lottery},
			Category: "Read",
		},
		{
			Action:   t.showStats,
			Name:     "stats",
			Usage:    "Print service-wide counters",
			Category: "Read",
		},
		{
			Action: t.join,
			Name:   "join",
			Usage:  "Join a lottery as a participant",
			Flags: []cli.Flag{lottery,
				&cli.Int64Flag{Name: "user", Required: true},
				&cli.StringFlag{Name: "username"},
			},
			Category: "Read",
		},
		{
			Action: t.draw,
			Name:   "draw",
			Usage:  "Trigger the draw (asks for a second confirmation)",
			Flags: []cli.Flag{lottery, token,
				&cli.BoolFlag{Name: "yes", Usage: "confirm without prompting"},
			},
			Category: "Manage",
		},
		{
			Name:     "prize",
			Usage:    "Manage the prize roster",
			Category: "Manage",
			Subcommands: []*cli.Command{
				{
					Action: t.addPrize,
					Name:   "add",
					Usage:  "Append a prize",
					Flags: []cli.Flag{lottery, token,
						&cli.StringFlag{Name: "name", Required: true},
						&cli.IntFlag{Name: "quantity", Value: 1},
					},
				},
				{
					Action: t.updatePrize,
					Name:   "set",
					Usage:  "Update a prize by index",
					Flags: []cli.Flag{lottery, token,
						&cli.IntFlag{Name: "index", Required: true},
						&cli.StringFlag{Name: "name"},
						&cli.IntFlag{Name: "quantity"},
					},
				},
				{
					Action: t.deletePrize,
					Name:   "rm",
					Usage:  "Delete a prize by index",
					Flags: []cli.Flag{lottery, token,
						&cli.IntFlag{Name: "index", Required: true},
					},
				},
			},
		},
		{
			Name:     "participant",
			Usage:    "Manage participants and weights",
			Category: "Manage",
			Subcommands: []*cli.Command{
				{
					Action: t.addParticipant,
					Name:   "add",
					Usage:  "Add a participant by user id",
					Flags: []cli.Flag{lottery, token,
						&cli.StringFlag{Name: "user", Required: true},
					},
				},
				{
					Action: t.removeParticipant,
					Name:   "rm",
					Usage:  "Remove a participant (irreversible)",
					Flags: []cli.Flag{lottery, token,
						&cli.Int64Flag{Name: "user", Required: true},
						&cli.BoolFlag{Name: "yes", Usage: "confirm without prompting"},
					},
				},
				{
					Action: t.setWeight,
					Name:   "weight",
					Usage:  "Set a participant's global weight",
					Flags: []cli.Flag{lottery, token,
						&cli.Int64Flag{Name: "user", Required: true},
						&cli.IntFlag{Name: "weight", Required: true},
					},
				},
				{
					Action: t.setOverride,
					Name:   "override",
					Usage:  "Set a per-prize weight override",
					Flags: []cli.Flag{lottery, token,
						&cli.Int64Flag{Name: "user", Required: true},
						&cli.Int64Flag{Name: "prize", Required: true},
						&cli.IntFlag{Name: "weight", Required: true},
					},
				},
				{
					Action: t.clearOverride,
					Name:   "clear-override",
					Usage:  "Remove a per-prize weight override",
					Flags: []cli.Flag{lottery, token,
						&cli.Int64Flag{Name: "user", Required: true},
						&cli.Int64Flag{Name: "prize", Required: true},
					},
				},
			},
		},
		{
			Action:   t.setDrawConfig,
			Name:     "draw-mode",
			Usage:    "Change how the draw triggers",
			Category: "Manage",
			Flags: []cli.Flag{lottery, token,
				&cli.StringFlag{Name: "mode", Usage: "manual, timed or full", Required: true},
				&cli.TimestampFlag{Name: "at", Layout: "2006-01-02T15:04:05Z07:00", Usage: "draw time for timed mode"},
				&cli.IntFlag{Name: "entries", Usage: "entry cap for full mode"},
			},
		},
	}

	t.app = app
}
