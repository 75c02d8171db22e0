// Package export saves snapshots of the point buffer in the background.
package export

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var ErrInProgress = errors.New("export already in progress")

// Result is passed to the completion handler of Save.
type Result struct {
	Path     string
	Points   int
	Format   Format
	Duration time.Duration
	Err      error
}

type Option func(*Exporter)

// WithDir exports into a directory. It replaces any sink set before.
func WithDir(dir string) Option {
	return func(e *Exporter) {
		e.sink = DirSink{Dir: dir}
	}
}

func WithSink(s Sink) Option {
	return func(e *Exporter) {
		e.sink = s
	}
}

func WithFormat(f Format) Option {
	return func(e *Exporter) {
		e.format = f
	}
}

func WithClock(clk clock.Clock) Option {
	return func(e *Exporter) {
		e.clock = clk
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Exporter) {
		e.log = l
	}
}

// Exporter writes the point buffer to a sink, one export at a time.
type Exporter struct {
	src    Source
	sink   Sink
	format Format
	clock  clock.Clock
	log    *zap.Logger

	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

func New(src Source, opts ...Option) *Exporter {
	e := &Exporter{
		src:   src,
		sink:  DirSink{Dir: "."},
		clock: clock.New(),
		log:   zap.NewNop(),
		sem:   semaphore.NewWeighted(1),
	}
	for _, o := range opts {
		o(e)
	}
	if ds, ok := e.sink.(DirSink); ok && ds.Log == nil {
		ds.Log = e.log
		e.sink = ds
	}
	return e
}

func (e *Exporter) Format() Format {
	return e.format
}

// Save starts an export and returns immediately. done, if not nil, is
// called from the export goroutine with the outcome. ErrInProgress is
// returned without side effects while another export is running.
func (e *Exporter) Save(ctx context.Context, done func(Result)) error {
	if !e.sem.TryAcquire(1) {
		return ErrInProgress
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		res := e.run(ctx)
		e.sem.Release(1)

		if res.Err != nil {
			e.log.Error("export failed",
				zap.Stringer("format", res.Format),
				zap.Error(res.Err),
			)
		} else {
			e.log.Info("export saved",
				zap.String("path", res.Path),
				zap.Int("points", res.Points),
				zap.Duration("duration", res.Duration),
			)
		}
		if done != nil {
			done(res)
		}
	}()
	return nil
}

// Wait blocks until all started exports are finished.
func (e *Exporter) Wait() {
	e.wg.Wait()
}

func (e *Exporter) run(ctx context.Context) (res Result) {
	start := e.clock.Now()
	res.Format = e.format
	defer func() {
		res.Duration = e.clock.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	name := FileName(start, e.format)
	dst, err := e.sink.Create(name)
	if err != nil {
		res.Err = err
		return res
	}
	n, err := e.format.write(e.src, dst)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		res.Err = errors.Wrapf(err, "writing %s", name)
		if aerr := dst.Abort(); aerr != nil {
			e.log.Warn("failed to clean up export", zap.Error(aerr))
		}
		return res
	}
	res.Path, res.Err = dst.Commit()
	if res.Err == nil {
		res.Points = n
	}
	return res
}
