package cloud

import (
	"bytes"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/mat"
)

func points(n int, offset float32) []mat.Vec3 {
	out := make([]mat.Vec3, n)
	for i := range out {
		f := float32(i) + offset
		out[i] = mat.Vec3{f, f * 2, f * 3}
	}
	return out
}

func TestBufferAppend(t *testing.T) {
	testCases := map[string]struct {
		capacity int
		appends  []int
		expected int
		dropped  int64
	}{
		"Empty": {
			capacity: 5,
			expected: 0,
		},
		"WithinCapacity": {
			capacity: 10,
			appends:  []int{3, 4, 2},
			expected: 9,
		},
		"ExactlyFull": {
			capacity: 7,
			appends:  []int{3, 4},
			expected: 7,
		},
		"RejectWholeFrame": {
			capacity: 5,
			appends:  []int{3, 4},
			expected: 3,
			dropped:  1,
		},
		"AcceptAfterReject": {
			capacity: 5,
			appends:  []int{3, 4, 2, 1},
			expected: 5,
			dropped:  2,
		},
		"ZeroCapacity": {
			capacity: 0,
			appends:  []int{1, 0},
			expected: 0,
			dropped:  1,
		},
	}

	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			b := NewBuffer(tt.capacity)
			for _, n := range tt.appends {
				before := b.Len()
				added := b.Append(points(n, 0), mat.Ident())
				if added != 0 && added != n {
					t.Fatalf("Partial append of %d points out of %d", added, n)
				}
				if b.Len() != before+added {
					t.Fatalf("Expected length %d, got %d", before+added, b.Len())
				}
			}
			if b.Len() != tt.expected {
				t.Errorf("Expected %d points, got %d", tt.expected, b.Len())
			}
			if b.Dropped() != tt.dropped {
				t.Errorf("Expected %d dropped appends, got %d", tt.dropped, b.Dropped())
			}
			if b.Len() > b.Cap() {
				t.Errorf("Length %d exceeds capacity %d", b.Len(), b.Cap())
			}
		})
	}
}

func TestBufferAppendTransforms(t *testing.T) {
	b := NewBuffer(10)
	m := mat.Translate(1, 2, 3).Mul(mat.Rotate(0, 0, 1, 0.3))
	in := points(4, 0.5)
	b.Append(in, m)

	expected := make([]mat.Vec3, len(in))
	for i, p := range in {
		expected[i] = m.TransformAffine(p)
	}
	if diff := cmp.Diff(expected, b.Vec3s(), cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("Stored points differ (-expected +got):\n%s", diff)
	}
}

func TestBufferClear(t *testing.T) {
	b := NewBuffer(10)
	b.Clear()
	if n := b.Len(); n != 0 {
		t.Fatalf("Expected empty buffer, got %d points", n)
	}

	b.Append(points(6, 0), mat.Ident())
	b.Clear()
	if n := b.Len(); n != 0 {
		t.Errorf("Expected empty buffer after clear, got %d points", n)
	}
	b.Clear()
	if n := b.Len(); n != 0 {
		t.Errorf("Expected empty buffer after second clear, got %d points", n)
	}

	b.Append(points(2, 100), mat.Ident())
	expected := points(2, 100)
	if diff := cmp.Diff(expected, b.Vec3s()); diff != "" {
		t.Errorf("Stale points must not be visible (-expected +got):\n%s", diff)
	}
}

func TestBufferAppendFrame(t *testing.T) {
	in := points(3, 1)

	t.Run("Decode", func(t *testing.T) {
		b := NewBuffer(5)
		n, err := b.AppendFrame(NewFrame(in, 0), mat.Translate(0, 0, 1))
		if err != nil {
			t.Fatal(err)
		}
		if n != 3 {
			t.Fatalf("Expected 3 appended points, got %d", n)
		}
		expected := []mat.Vec3{{1, 2, 4}, {2, 4, 7}, {3, 6, 10}}
		if diff := cmp.Diff(expected, b.Vec3s()); diff != "" {
			t.Errorf("Stored points differ (-expected +got):\n%s", diff)
		}
	})
	t.Run("Unaligned", func(t *testing.T) {
		f := NewFrame(in, 0)
		data := make([]byte, len(f.Data)+1)
		copy(data[1:], f.Data)
		f.Data = data[1:]

		b := NewBuffer(5)
		if _, err := b.AppendFrame(f, mat.Ident()); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(in, b.Vec3s()); diff != "" {
			t.Errorf("Stored points differ (-expected +got):\n%s", diff)
		}
	})
	t.Run("Full", func(t *testing.T) {
		b := NewBuffer(5)
		b.AppendFrame(NewFrame(in, 0), mat.Ident())
		n, err := b.AppendFrame(NewFrame(points(4, 0), 0), mat.Ident())
		if err != nil {
			t.Fatal(err)
		}
		if n != 0 || b.Len() != 3 {
			t.Errorf("Expected rejected frame and 3 points, got %d appended and %d points", n, b.Len())
		}
	})
	t.Run("Malformed", func(t *testing.T) {
		testCases := map[string]struct {
			data   int
			points int
		}{
			"ShortData":         {data: 36, points: 4},
			"Negative":          {data: 36, points: -1},
			"OverflowingCount":  {data: 12, points: math.MaxInt/3 + 1},
			"OverflowingCount2": {data: 12, points: 1<<62 + 1},
		}
		for name, tt := range testCases {
			tt := tt
			t.Run(name, func(t *testing.T) {
				b := NewBuffer(5)
				f := Frame{Data: make([]byte, tt.data), Points: tt.points}
				n, err := b.AppendFrame(f, mat.Ident())
				if !errors.Is(err, ErrMalformedFrame) {
					t.Errorf("Expected error '%v', got '%v'", ErrMalformedFrame, err)
				}
				if n != 0 || b.Len() != 0 || b.Dropped() != 0 {
					t.Errorf("Malformed frame must not touch the buffer, got %d appended, %d points, %d dropped",
						n, b.Len(), b.Dropped())
				}
				var buf bytes.Buffer
				if _, err := b.WriteText(&buf); err != nil {
					t.Fatal(err)
				}
			})
		}
	})
	t.Run("HugeCountFits", func(t *testing.T) {
		b := NewBuffer(5)
		b.Append(in, mat.Ident())
		if b.fits(math.MaxInt / 3) {
			t.Error("Expected huge count not to fit")
		}
		if b.fits(3) {
			t.Error("Expected 3 more points not to fit in 2 free slots")
		}
		if !b.fits(2) {
			t.Error("Expected 2 more points to fit")
		}
		if b.Len() != 3 {
			t.Errorf("Expected 3 points, got %d", b.Len())
		}
	})
}

func TestBufferSnapshot(t *testing.T) {
	b := NewBuffer(4)
	b.Append(points(2, 0), mat.Ident())

	b.Snapshot(func(v []float32, n int) {
		if n != 2 {
			t.Errorf("Expected 2 points, got %d", n)
		}
		if len(v) != 6 || cap(v) != 6 {
			t.Errorf("Expected view bounded to 6 floats, got len %d cap %d", len(v), cap(v))
		}
	})
}

func TestBufferConcurrent(t *testing.T) {
	const (
		capacity = 1000
		frame    = 7
	)
	b := NewBuffer(capacity)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%50 == 0 {
				b.Clear()
			}
			b.Append(points(frame, 0), mat.Ident())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Snapshot(func(v []float32, n int) {
				if len(v) != n*3 {
					t.Errorf("Torn snapshot: %d floats for %d points", len(v), n)
				}
				if n%frame != 0 {
					t.Errorf("Partial frame visible: %d points", n)
				}
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			pts, err := parseTextFromBuffer(b)
			if err != nil {
				t.Error(err)
				return
			}
			if len(pts)%frame != 0 {
				t.Errorf("Partial frame exported: %d points", len(pts))
			}
		}
	}()
	wg.Wait()
}
