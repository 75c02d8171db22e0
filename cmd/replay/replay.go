package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/capture"
	"github.com/seqsense/pcaccum/cloud"
	"github.com/seqsense/pcaccum/config"
	"github.com/seqsense/pcaccum/export"
	"github.com/seqsense/pcaccum/pose"
)

type replayer struct {
	cfg    config.Config
	frames string
	poses  string
	log    *zap.Logger
}

// run feeds the recorded poses and frames through a capture controller in
// timestamp order, stops and exports the buffer.
func (r *replayer) run(ctx context.Context) (export.Result, capture.Stats, error) {
	poses, err := loadPoses(r.poses)
	if err != nil {
		return export.Result{}, capture.Stats{}, err
	}
	frames, err := listFrames(r.frames)
	if err != nil {
		return export.Result{}, capture.Stats{}, err
	}
	r.log.Info("replaying",
		zap.Int("frames", len(frames)),
		zap.Int("poses", len(poses)),
		zap.Stringer("mode", r.cfg.CaptureMode()),
	)

	buf := cloud.NewBuffer(r.cfg.Capacity)
	history := pose.NewHistory(pose.DeviceWrtStartOfService, r.cfg.Pose.History, r.cfg.MaxAgeSeconds())
	ctrl := capture.NewController(buf, history,
		capture.WithLogger(r.log.Named("capture")),
		capture.WithModelCalculator(r.cfg.ModelCalculator()),
		capture.WithMode(r.cfg.CaptureMode()),
	)

	next := 0
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return export.Result{}, ctrl.Stats(), err
		}
		for ; next < len(poses) && poses[next].Timestamp <= f.timestamp; next++ {
			ctrl.OnPose(poses[next])
		}
		frame, err := readFrame(f)
		if err != nil {
			r.log.Warn("skipping frame", zap.Error(err))
			continue
		}
		res := ctrl.OnFrame(frame)
		r.log.Debug("frame",
			zap.Float64("timestamp", f.timestamp),
			zap.Int("points", frame.Points),
			zap.Stringer("result", res),
		)
	}
	ctrl.Stop()
	if leaf := r.cfg.Export.Voxel; leaf > 0 {
		if _, err := ctrl.Downsample(leaf); err != nil {
			return export.Result{}, ctrl.Stats(), err
		}
	}
	stats := ctrl.Stats()

	if !ctrl.CanSave() {
		return export.Result{}, stats, errors.New("capture did not stop")
	}
	ex := export.New(buf,
		export.WithDir(r.cfg.Export.Dir),
		export.WithFormat(r.cfg.ExportFormat()),
		export.WithLogger(r.log.Named("export")),
	)
	ch := make(chan export.Result, 1)
	if err := ex.Save(ctx, func(res export.Result) { ch <- res }); err != nil {
		return export.Result{}, stats, err
	}
	res := <-ch
	return res, stats, res.Err
}
