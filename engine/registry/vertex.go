package registry

import (
	_ "embed"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the WGSL definition of the per-vertex input. Matches VertexLayout.
//
//go:embed assets/vertex_input.wgsl
var GPUVertexSource string

// Vertex is one mesh vertex as laid out in the vertex buffer: position then texture coordinates.
type Vertex struct {
	Position  [3]float32
	TexCoords [2]float32
}

// VertexSize is the byte stride of a Vertex in the vertex buffer.
const VertexSize = uint64(unsafe.Sizeof(Vertex{}))

// VertexLayout describes the mesh vertex buffer bound at slot 0: position at location 0, texture
// coordinates at location 1.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex buffer layout
func VertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: VertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(Vertex{}.TexCoords)), ShaderLocation: 1},
		},
	}
}

// Quad returns a unit quad in the XY plane centered on the origin, facing +Z, with counter-clockwise winding.
//
// Returns:
//   - []Vertex: four corner vertices
//   - []uint32: six indices forming two triangles
func Quad() ([]Vertex, []uint32) {
	vertices := []Vertex{
		{Position: [3]float32{-0.5, -0.5, 0}, TexCoords: [2]float32{0, 1}},
		{Position: [3]float32{0.5, -0.5, 0}, TexCoords: [2]float32{1, 1}},
		{Position: [3]float32{0.5, 0.5, 0}, TexCoords: [2]float32{1, 0}},
		{Position: [3]float32{-0.5, 0.5, 0}, TexCoords: [2]float32{0, 0}},
	}
	return vertices, []uint32{0, 1, 2, 0, 2, 3}
}
