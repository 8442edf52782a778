package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/planner"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tilecrunch",
		Usage: "Compress Tiled maps into ROM bank images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"TILECRUNCH_LOG_LEVEL"},
				Value:   "warn",
				Usage:   "one of trace, debug, info, warn, error",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "shorthand for --log-level=debug",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "write logs as JSON",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Write one bank image per tile layer",
				ArgsUsage: "SOURCE",
				Action:    compressMap,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						EnvVars: []string{"TILECRUNCH_MODE"},
						Value:   planner.ModeRoomsBlock.String(),
						Usage:   fmt.Sprintf("compression mode, one of %v", planner.ModeNames()),
					},
					roomFlag(),
					ceilingFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "base path of the bank images (default: SOURCE without its extension)",
					},
					&cli.StringSliceFlag{
						Name:    "layer",
						Aliases: []string{"l"},
						Usage:   "only compress the named layers",
					},
				},
			},
			{
				Name:      "report",
				Usage:     "Print the size of every tile layer in every mode as CSV",
				ArgsUsage: "SOURCE",
				Action:    reportMap,
				Flags: []cli.Flag{
					roomFlag(),
					ceilingFlag(),
				},
			},
			{
				Name:      "verify",
				Usage:     "Check that a bank image decodes back to a layer",
				ArgsUsage: "BANK SOURCE",
				Action:    verifyBank,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "layer",
						Aliases:  []string{"l"},
						Required: true,
						Usage:    "name of the tile layer the image was made from",
					},
				},
			},
		},
	}
}

func roomFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "room",
		Usage: "room size as WxH, overriding the map's room_width and room_height properties",
	}
}

func ceilingFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "ceiling",
		Value: tilecrunch.BankSize,
		Usage: "most size units a layer may take",
	}
}

// newLogger builds the logger from the global flags.
func newLogger(c *cli.Context) hclog.Logger {
	level := hclog.LevelFromString(c.String("log-level"))
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	if c.Bool("verbose") && level > hclog.Debug {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       c.App.Name,
		Level:      level,
		Output:     c.App.ErrWriter,
		JSONFormat: c.Bool("log-json"),
	})
}
