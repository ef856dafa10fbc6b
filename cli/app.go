// Package cli contains the vashape command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	flagDebug     = "debug"
	flagLogFile   = "log-file"
	flagScene     = "scene"
	flagListener  = "listener"
	flagElapsed   = "elapsed"
	flagTicks     = "ticks"
	flagJSON      = "json"
	flagOBJ       = "obj"
	flagOut       = "out"
	flagQueries   = "queries"
	flagSeed      = "seed"
	flagParallel  = "parallel"
	flagNoCompare = "no-compare"
)

var app = &cli.App{
	Name:            "vashape",
	Usage:           "find the nearest points of volumetric shapes",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  flagLogFile,
			Usage: "also write logs to a rotating `FILE`",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "query",
			Usage:     "evaluate every shape in a scene for one listener position",
			UsageText: "vashape query --scene <scene.yaml> [--listener x,y,z] [other options]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     flagScene,
					Required: true,
					Usage:    "scene `FILE` to load",
				},
				&cli.StringFlag{
					Name:  flagListener,
					Usage: "listener position as x,y,z, overriding the scene's listener",
				},
				&cli.DurationFlag{
					Name:  flagElapsed,
					Usage: "time passed since the previous tick",
				},
				&cli.IntFlag{
					Name:  flagTicks,
					Value: 1,
					Usage: "number of ticks to run before reporting",
				},
				&cli.BoolFlag{
					Name:  flagJSON,
					Usage: "print results as JSON",
				},
			},
			Action: QueryAction,
		},
		{
			Name:      "bake",
			Usage:     "build a spatial index for an OBJ mesh and save it",
			UsageText: "vashape bake --obj <mesh.obj> --out <mesh.tree>",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     flagOBJ,
					Required: true,
					Usage:    "OBJ `FILE` to read",
				},
				&cli.PathFlag{
					Name:     flagOut,
					Required: true,
					Usage:    "`FILE` to write the baked tree to",
				},
			},
			Action: BakeAction,
		},
		{
			Name:      "bench",
			Usage:     "compare the spatial index against a linear scan on random queries",
			UsageText: "vashape bench --obj <mesh.obj> [other options]",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     flagOBJ,
					Required: true,
					Usage:    "OBJ `FILE` to read",
				},
				&cli.IntFlag{
					Name:  flagQueries,
					Value: 1000,
					Usage: "number of random query points",
				},
				&cli.Int64Flag{
					Name:  flagSeed,
					Value: 1,
					Usage: "random seed for the query points",
				},
				&cli.IntFlag{
					Name:  flagParallel,
					Value: 4,
					Usage: "number of concurrent workers",
				},
				&cli.BoolFlag{
					Name:  flagNoCompare,
					Usage: "skip checking tree results against the linear scan",
				},
			},
			Action: BenchAction,
		},
		{
			Name:   "version",
			Usage:  "print version info for this program",
			Action: VersionAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
