package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4Size is the byte size of one column-major 4x4 float32 matrix as laid out in GPU memory.
const Mat4Size = 64

// OpenGLToWGPU remaps OpenGL clip space depth [-1, 1] onto the WebGPU depth range [0, 1].
// It is applied after an mgl32 projection matrix, which produces OpenGL-style clip coordinates.
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// PutMat4 writes m into dst as 16 little-endian float32 values in column-major order.
// dst must hold at least Mat4Size bytes.
//
// Parameters:
//   - dst: destination byte slice
//   - m: the matrix to encode
func PutMat4(dst []byte, m mgl32.Mat4) {
	_ = dst[Mat4Size-1]
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// Mat4FromBytes decodes a matrix previously written by PutMat4.
//
// Parameters:
//   - src: at least Mat4Size bytes of little-endian float32 data
//
// Returns:
//   - mgl32.Mat4: the decoded matrix
func Mat4FromBytes(src []byte) mgl32.Mat4 {
	var m mgl32.Mat4
	_ = src[Mat4Size-1]
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return m
}

// PackMat4s encodes a list of matrices into one contiguous byte slice, Mat4Size bytes each.
// The result is suitable for a vertex buffer read with an instance step mode.
//
// Parameters:
//   - mats: the matrices to encode, in order
//
// Returns:
//   - []byte: the packed matrices, or nil if mats is empty
func PackMat4s(mats []mgl32.Mat4) []byte {
	if len(mats) == 0 {
		return nil
	}
	out := make([]byte, len(mats)*Mat4Size)
	for i, m := range mats {
		PutMat4(out[i*Mat4Size:], m)
	}
	return out
}

// BuildModelMatrix constructs a model matrix from a position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll), applied after scale and before translation.
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the composed model matrix
func BuildModelMatrix(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DY(rot.Y()).Mul4(mgl32.HomogRotate3DX(rot.X())).Mul4(mgl32.HomogRotate3DZ(rot.Z()))
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(r).Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
