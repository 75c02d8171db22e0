package cloud

import (
	"encoding/binary"
	"math"

	"github.com/seqsense/pcaccum/mat"
)

type Vec3Iterator interface {
	Incr()
	IsValid() bool
	Vec3() mat.Vec3
}

func newFrameIterator(data []byte, n int) Vec3Iterator {
	data = data[:n*pointSize]
	if n > 0 && nativeLittleEndian && isAligned(data) {
		return &float32Iterator{data: byteSliceAsFloat32Slice(data)}
	}
	return &binaryVec3Iterator{data: data}
}

type binaryVec3Iterator struct {
	data []byte
	pos  int
}

func (i *binaryVec3Iterator) Incr() {
	i.pos += pointSize
}

func (i *binaryVec3Iterator) IsValid() bool {
	return i.pos+pointSize <= len(i.data)
}

func (i *binaryVec3Iterator) Vec3() mat.Vec3 {
	b := i.data[i.pos : i.pos+pointSize]
	return mat.Vec3{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	}
}

type float32Iterator struct {
	data []float32
	pos  int
}

func (i *float32Iterator) Incr() {
	i.pos += 3
}

func (i *float32Iterator) IsValid() bool {
	return i.pos+3 <= len(i.data)
}

func (i *float32Iterator) Vec3() mat.Vec3 {
	return mat.Vec3{i.data[i.pos], i.data[i.pos+1], i.data[i.pos+2]}
}
