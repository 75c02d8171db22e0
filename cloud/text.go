package cloud

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/seqsense/pcaccum/mat"
)

// TextBatchSize is the number of formatted points written to the sink at once.
const TextBatchSize = 10000

// WriteText writes one "x,y,z\n" line per point.
// Points are copied under the read lock and formatted without holding it,
// so the export never sees more points than the buffer had at call time.
func (b *Buffer) WriteText(w io.Writer) (int, error) {
	v, n := b.copyVertices()
	return writeText(w, v, n)
}

func writeText(w io.Writer, v []float32, n int) (int, error) {
	// x,y,z with up to 15 bytes per float32 in 'g' format
	buf := make([]byte, 0, TextBatchSize*48)
	written := 0
	for i := 0; i < n; i++ {
		buf = strconv.AppendFloat(buf, float64(v[3*i]), 'g', -1, 32)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, float64(v[3*i+1]), 'g', -1, 32)
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, float64(v[3*i+2]), 'g', -1, 32)
		buf = append(buf, '\n')
		if (i+1)%TextBatchSize == 0 {
			if _, err := w.Write(buf); err != nil {
				return written, errors.Wrapf(err, "writing points %d-%d", written, i)
			}
			written = i + 1
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if _, err := w.Write(buf); err != nil {
			return written, errors.Wrapf(err, "writing points %d-%d", written, n-1)
		}
		written = n
	}
	return written, nil
}

// ParseText reads points written by WriteText. Blank lines are skipped.
func ParseText(r io.Reader) ([]mat.Vec3, error) {
	var out []mat.Vec3
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		l := bytes.TrimSpace(s.Bytes())
		if len(l) == 0 {
			continue
		}
		fields := bytes.Split(l, []byte{','})
		if len(fields) != 3 {
			return nil, errors.Errorf("line %d: expected 3 fields, got %d", line, len(fields))
		}
		var v mat.Vec3
		for i, f := range fields {
			x, err := strconv.ParseFloat(string(bytes.TrimSpace(f)), 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			v[i] = float32(x)
		}
		out = append(out, v)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading points")
	}
	return out, nil
}
