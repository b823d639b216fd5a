package transform

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (64 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// InstanceInputSource is the WGSL definition of the per-instance vertex input.
// Matches InstanceLayout: one model matrix split over locations 5 through 8.
//
//go:embed assets/instance_input.wgsl
var InstanceInputSource string

// GPUCameraUniform is the GPU representation of the camera uniform buffer.
// Size: 64 bytes.
type GPUCameraUniform struct {
	ViewProj mgl32.Mat4 // offset 0: combined view-projection matrix (mat4x4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (64)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutMat4(buf, g.ViewProj)
	return buf
}

// InstanceStride is the byte stride of one instance in an instance buffer.
const InstanceStride = common.Mat4Size

// InstanceFirstLocation is the shader location of the first model matrix column.
const InstanceFirstLocation = 5

// InstanceLayout describes the instance buffer bound at vertex slot 1: one column-major model
// matrix per instance, split into four vec4 columns at locations 5 through 8.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-instance buffer layout
func InstanceLayout() wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 4)
	for i := range attrs {
		attrs[i] = wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(InstanceFirstLocation + i),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: InstanceStride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attrs,
	}
}
