package cloud

import (
	"unsafe"
)

var nativeLittleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

func isAligned(b []byte) bool {
	return uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(float32(0)) == 0
}

func byteSliceAsFloat32Slice(b []byte) []float32 {
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// Float32SliceAsByteSlice reinterprets vertex data as bytes without copying.
func Float32SliceAsByteSlice(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}
