package main

import (
	"bytes"
	"context"
	"fmt"
	"syscall/js"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/seqsense/pcgol/pc"
	"go.uber.org/zap"

	"github.com/seqsense/pcaccum/blob"
	"github.com/seqsense/pcaccum/capture"
	"github.com/seqsense/pcaccum/cloud"
	"github.com/seqsense/pcaccum/config"
	"github.com/seqsense/pcaccum/console"
	"github.com/seqsense/pcaccum/export"
	"github.com/seqsense/pcaccum/gl"
	"github.com/seqsense/pcaccum/logging"
	"github.com/seqsense/pcaccum/pose"
	"github.com/seqsense/pcaccum/render"
)

const (
	configPath    = "pcaccum.yaml"
	recordingBase = "recording"
	statusPeriod  = 500 * time.Millisecond
)

func main() {
	cfg := config.Default()
	if b, err := fetchGet(configPath); err == nil {
		if c, err := config.Parse(b); err == nil {
			cfg = c
		} else {
			println("invalid configuration, using defaults:", err.Error())
		}
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "mapCanvas")
	status := doc.Call("getElementById", "status")

	glctx, err := gl.New(canvas, log.Named("gl"))
	if err != nil {
		log.Fatal("failed to initialize WebGL", zap.Error(err))
	}

	buf := cloud.NewBuffer(cfg.Capacity)
	history := pose.NewHistory(pose.DeviceWrtStartOfService, cfg.Pose.History, cfg.MaxAgeSeconds())
	renderer := render.NewRenderer(glctx, buf,
		render.WithLogger(log.Named("render")),
		render.WithProjection(cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far),
	)
	ctrl := capture.NewController(buf, history,
		capture.WithLogger(log.Named("capture")),
		capture.WithModelCalculator(cfg.ModelCalculator()),
		capture.WithMode(cfg.CaptureMode()),
		capture.WithOnUpdate(renderer.RequestRender),
		capture.WithOnDevicePose(renderer.SetDevicePose),
	)
	format := cfg.ExportFormat()
	exporter := export.New(buf,
		export.WithSink(blob.Sink{Format: format}),
		export.WithFormat(format),
		export.WithLogger(log.Named("export")),
	)

	glctx.BindInput(renderer.Camera(), render.NewWheelNormalizer(nil), renderer.RequestRender)

	resize := func() {
		renderer.SurfaceChanged(canvas.Get("clientWidth").Int(), canvas.Get("clientHeight").Int())
	}
	renderer.SurfaceCreated()
	resize()
	js.Global().Get("window").Call("addEventListener", "resize",
		js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			resize()
			return nil
		}),
	)

	ctx := context.Background()
	cons := console.New(ctx, ctrl, renderer.Camera(), exporter,
		console.WithRequestRender(renderer.RequestRender),
		console.WithOnSaved(func(r export.Result) {
			if r.Err == nil {
				println("saved", r.Path, r.Points, "points")
			}
		}),
	)
	js.Global().Set("pcaccum", exports(cons, log))

	go func() {
		if err := play(ctx, ctrl, clock.New(), log); err != nil {
			log.Error("playback failed", zap.Error(err))
		}
	}()
	go func() {
		tick := time.NewTicker(statusPeriod)
		defer tick.Stop()
		for range tick.C {
			s := ctrl.Stats()
			status.Set("innerText", fmt.Sprintf(
				"%s | points: %d | frame delta: %.1f ms | dropped: %d",
				s.Mode, s.Points, s.FrameDelta, s.Dropped,
			))
		}
	}()

	if err := renderer.Run(ctx); err != nil {
		log.Error("render loop stopped", zap.Error(err))
	}
}

// exports builds the object the page calls into. run takes a console
// command line and returns its result, or the error text.
func exports(c *console.Console, log *zap.Logger) map[string]interface{} {
	return map[string]interface{}{
		"run": js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				return console.ErrArgumentNumber.Error()
			}
			line := args[0].String()
			res, err := c.Run(line)
			if err != nil {
				log.Warn("command failed", zap.String("command", line), zap.Error(err))
				return err.Error()
			}
			return res
		}),
	}
}

// play streams the recording at its recorded pace, as the device service would.
func play(ctx context.Context, ctrl *capture.Controller, clk clock.Clock, log *zap.Logger) error {
	b, err := fetchGet(recordingBase + "/manifest.yaml")
	if err != nil {
		return err
	}
	m, err := parseManifest(b, recordingBase)
	if err != nil {
		return err
	}
	pb, err := fetchGet(m.Poses)
	if err != nil {
		return err
	}
	poses, err := pose.DecodeYAML(pb)
	if err != nil {
		return err
	}

	next := 0
	var prev float64
	for i, f := range m.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			clk.Sleep(time.Duration((f.Timestamp - prev) * float64(time.Second)))
		}
		prev = f.Timestamp
		for ; next < len(poses) && poses[next].Timestamp <= f.Timestamp; next++ {
			ctrl.OnPose(poses[next])
		}
		data, err := fetchGet(f.File)
		if err != nil {
			log.Warn("skipping frame", zap.Error(err))
			continue
		}
		pp, err := pc.Unmarshal(bytes.NewReader(data))
		if err != nil {
			log.Warn("skipping frame", zap.String("file", f.File), zap.Error(err))
			continue
		}
		frame, err := cloud.FrameFromPointCloud(pp, f.Timestamp)
		if err != nil {
			log.Warn("skipping frame", zap.String("file", f.File), zap.Error(err))
			continue
		}
		ctrl.OnFrame(frame)
	}
	return nil
}
