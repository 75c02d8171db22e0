// Command replay feeds recorded depth frames and poses through the capture
// pipeline and exports the accumulated point cloud.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/config"
	"github.com/seqsense/pcaccum/logging"
)

const (
	flagConfig   = "config"
	flagFrames   = "frames"
	flagPoses    = "poses"
	flagMode     = "mode"
	flagOut      = "out"
	flagFormat   = "format"
	flagVoxel    = "voxel"
	flagCapacity = "capacity"
	flagLogLevel = "log-level"
)

func main() {
	app := &cli.App{
		Name:  "replay",
		Usage: "accumulate recorded depth frames into a point cloud file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:     flagFrames,
				Required: true,
				Usage:    "`DIR` of <timestamp>.pcd frames",
			},
			&cli.StringFlag{
				Name:     flagPoses,
				Required: true,
				Usage:    "YAML `FILE` of timestamped poses",
			},
			&cli.StringFlag{
				Name:  flagMode,
				Value: "accumulating",
				Usage: "capture mode: realtime or accumulating",
			},
			&cli.StringFlag{
				Name:  flagOut,
				Usage: "output `DIR` (overrides export.dir)",
			},
			&cli.StringFlag{
				Name:  flagFormat,
				Usage: "export format: text or pcd (overrides export.format)",
			},
			&cli.Float64Flag{
				Name:  flagVoxel,
				Usage: "downsample with voxels of `SIZE` meters before export (overrides export.voxel)",
			},
			&cli.IntFlag{
				Name:  flagCapacity,
				Usage: "point buffer capacity (overrides capacity)",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "debug, info, warn or error (overrides log_level)",
			},
		},
		Action: action,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet(flagMode) || c.String(flagConfig) == "" {
		cfg.Mode = c.String(flagMode)
	}
	if c.IsSet(flagOut) {
		cfg.Export.Dir = c.String(flagOut)
	}
	if c.IsSet(flagFormat) {
		cfg.Export.Format = c.String(flagFormat)
	}
	if c.IsSet(flagVoxel) {
		cfg.Export.Voxel = float32(c.Float64(flagVoxel))
	}
	if c.IsSet(flagCapacity) {
		cfg.Capacity = c.Int(flagCapacity)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	return cfg, cfg.Validate()
}

func action(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	r := &replayer{
		cfg:    cfg,
		frames: c.String(flagFrames),
		poses:  c.String(flagPoses),
		log:    log,
	}
	res, stats, err := r.run(c.Context)
	log.Info("replay finished",
		zap.Int64("frames_received", stats.Received),
		zap.Int64("frames_appended", stats.Appended),
		zap.Int64("frames_dropped", stats.Dropped),
		zap.Int64("frames_without_pose", stats.NoPose),
		zap.Int("points", stats.Points),
	)
	if err != nil {
		return err
	}
	fmt.Println(res.Path)
	return nil
}
