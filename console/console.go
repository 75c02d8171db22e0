// Package console runs the user commands of the capture front end given as
// text lines, such as "accumulate", "downsample 0.05" or "zoom 2".
package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/capture"
	"github.com/seqsense/pcaccum/export"
	"github.com/seqsense/pcaccum/render"
)

var (
	ErrArgumentNumber = errors.New("invalid number of arguments")
	ErrInvalidCommand = errors.New("invalid command")
)

type Console struct {
	ctx           context.Context
	ctrl          *capture.Controller
	cam           *render.Camera
	exporter      *export.Exporter
	onSaved       func(export.Result)
	requestRender func()
}

type Option func(*Console)

// WithOnSaved sets the completion handler of exports started by "save".
func WithOnSaved(fn func(export.Result)) Option {
	return func(c *Console) {
		c.onSaved = fn
	}
}

func WithRequestRender(fn func()) Option {
	return func(c *Console) {
		c.requestRender = fn
	}
}

func New(ctx context.Context, ctrl *capture.Controller, cam *render.Camera, ex *export.Exporter, opts ...Option) *Console {
	c := &Console{
		ctx:           ctx,
		ctrl:          ctrl,
		cam:           cam,
		exporter:      ex,
		requestRender: func() {},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type command func(c *Console, args []float32) (string, error)

func noArgs(fn func(c *Console) (string, error)) command {
	return func(c *Console, args []float32) (string, error) {
		if len(args) != 0 {
			return "", ErrArgumentNumber
		}
		return fn(c)
	}
}

func view(fn func(cam *render.Camera)) command {
	return noArgs(func(c *Console) (string, error) {
		fn(c.cam)
		c.requestRender()
		return c.cam.Mode().String(), nil
	})
}

var commands = map[string]command{
	"accumulate": noArgs(func(c *Console) (string, error) {
		m, err := c.ctrl.ToggleAccumulating()
		return m.String(), err
	}),
	"stop": noArgs(func(c *Console) (string, error) {
		c.ctrl.Stop()
		return c.ctrl.Mode().String(), nil
	}),
	"realtime": noArgs(func(c *Console) (string, error) {
		c.ctrl.StartRealtime()
		return c.ctrl.Mode().String(), nil
	}),
	"mode": noArgs(func(c *Console) (string, error) {
		return c.ctrl.Mode().String(), nil
	}),
	"stats": noArgs(func(c *Console) (string, error) {
		s := c.ctrl.Stats()
		return fmt.Sprintf("%s %d %.3f %d %d %d",
			s.Mode, s.Points, s.FrameDelta, s.Appended, s.Dropped, s.NoPose,
		), nil
	}),
	"save": noArgs(func(c *Console) (string, error) {
		if !c.ctrl.CanSave() {
			return "", errors.Wrap(capture.ErrNotStopped, "stop accumulating before saving")
		}
		if err := c.exporter.Save(c.ctx, c.onSaved); err != nil {
			return "", err
		}
		return "saving", nil
	}),
	"first_person": view((*render.Camera).SetFirstPersonView),
	"third_person": view((*render.Camera).SetThirdPersonView),
	"top_down":     view((*render.Camera).SetTopDownView),
	"reset_view":   view((*render.Camera).Reset),
	"downsample": func(c *Console, args []float32) (string, error) {
		if len(args) != 1 {
			return "", ErrArgumentNumber
		}
		n, err := c.ctrl.Downsample(args[0])
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	},
	"zoom": func(c *Console, args []float32) (string, error) {
		if len(args) != 1 {
			return "", ErrArgumentNumber
		}
		c.cam.Zoom(float64(args[0]))
		c.requestRender()
		return "", nil
	},
}

// Commands returns the names of the available commands.
func Commands() []string {
	out := make([]string, 0, len(commands))
	for name := range commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run executes one command line and returns its textual result.
func (c *Console) Run(line string) (string, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return "", nil
	}
	fn, ok := commands[args[0]]
	if !ok {
		return "", errors.Wrap(ErrInvalidCommand, args[0])
	}
	var argsFloat []float32
	for i := 1; i < len(args); i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return "", errors.Wrapf(err, "argument %d", i)
		}
		argsFloat = append(argsFloat, float32(f))
	}
	return fn(c, argsFloat)
}
