// Package cloud provides a fixed-capacity store of transformed points shared
// between sensor ingestion, rendering and export.
package cloud

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/seqsense/pcaccum/mat"
)

// DefaultCapacity is the number of points a buffer holds unless configured otherwise.
const DefaultCapacity = 1000000

// Buffer is a pre-allocated arena of XYZ float32 triples.
// storage[:n*3] always holds valid transformed points.
type Buffer struct {
	mu      sync.RWMutex
	storage []float32
	n       int

	dropped atomic.Int64
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{
		storage: make([]float32, capacity*3),
	}
}

// Writer mutates the buffer inside a critical section opened by Update.
// It must not be used after Update returns.
type Writer struct {
	b *Buffer
}

// Update runs fn with exclusive access to the buffer.
func (b *Buffer) Update(fn func(w Writer)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(Writer{b: b})
}

func (w Writer) Clear() {
	w.b.n = 0
}

func (w Writer) Len() int {
	return w.b.n
}

// Append transforms and stores all points, or none of them if they do not fit.
// It returns the number of stored points.
func (w Writer) Append(points []mat.Vec3, model mat.Mat4) int {
	b := w.b
	if !b.fits(len(points)) {
		return 0
	}
	pos := b.n * 3
	for _, p := range points {
		v := model.TransformAffine(p)
		b.storage[pos], b.storage[pos+1], b.storage[pos+2] = v[0], v[1], v[2]
		pos += 3
	}
	b.n += len(points)
	return len(points)
}

// AppendFrame decodes the frame directly into the arena with the same
// all-or-nothing rule as Append.
func (w Writer) AppendFrame(f Frame, model mat.Mat4) (int, error) {
	it, err := f.Vec3Iterator()
	if err != nil {
		return 0, err
	}
	b := w.b
	if !b.fits(f.Points) {
		return 0, nil
	}
	start := b.n * 3
	pos := start
	for ; it.IsValid(); it.Incr() {
		v := model.TransformAffine(it.Vec3())
		b.storage[pos], b.storage[pos+1], b.storage[pos+2] = v[0], v[1], v[2]
		pos += 3
	}
	n := (pos - start) / 3
	b.n += n
	return n, nil
}

func (b *Buffer) fits(n int) bool {
	if n > len(b.storage)/3-b.n {
		b.dropped.Inc()
		return false
	}
	return true
}

func (b *Buffer) Append(points []mat.Vec3, model mat.Mat4) int {
	var n int
	b.Update(func(w Writer) {
		n = w.Append(points, model)
	})
	return n
}

func (b *Buffer) AppendFrame(f Frame, model mat.Mat4) (int, error) {
	var (
		n   int
		err error
	)
	b.Update(func(w Writer) {
		n, err = w.AppendFrame(f, model)
	})
	return n, err
}

// Clear drops all points. The arena is kept and not zeroed.
func (b *Buffer) Clear() {
	b.Update(func(w Writer) {
		w.Clear()
	})
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.n
}

func (b *Buffer) Cap() int {
	return len(b.storage) / 3
}

// Dropped returns the number of appends rejected for lack of capacity.
func (b *Buffer) Dropped() int64 {
	return b.dropped.Load()
}

// Snapshot calls fn with the valid part of the arena while holding the read lock.
// vertices must not be modified or retained after fn returns.
func (b *Buffer) Snapshot(fn func(vertices []float32, n int)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(b.storage[:b.n*3:b.n*3], b.n)
}

// Vec3s returns a copy of the stored points.
func (b *Buffer) Vec3s() []mat.Vec3 {
	var out []mat.Vec3
	b.Snapshot(func(v []float32, n int) {
		out = make([]mat.Vec3, n)
		for i := range out {
			out[i] = mat.Vec3{v[3*i], v[3*i+1], v[3*i+2]}
		}
	})
	return out
}

func (b *Buffer) copyVertices() ([]float32, int) {
	var (
		out []float32
		cnt int
	)
	b.Snapshot(func(v []float32, n int) {
		out = append(make([]float32, 0, len(v)), v...)
		cnt = n
	})
	return out, cnt
}
