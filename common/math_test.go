package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutMat4RoundTripsColumnMajor(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	buf := make([]byte, Mat4Size)
	PutMat4(buf, m)

	assert.Equal(t, m, Mat4FromBytes(buf))
	// translation lives in the fourth column, elements 12..14
	assert.Equal(t, float32(1), Mat4FromBytes(buf)[12])
}

func TestPackMat4sPreservesOrder(t *testing.T) {
	mats := []mgl32.Mat4{mgl32.Translate3D(1, 0, 0), mgl32.Translate3D(2, 0, 0), mgl32.Translate3D(3, 0, 0)}
	packed := PackMat4s(mats)
	require.Len(t, packed, 3*Mat4Size)

	for i, m := range mats {
		assert.Equal(t, m, Mat4FromBytes(packed[i*Mat4Size:]), "matrix %d", i)
	}
	assert.Nil(t, PackMat4s(nil))
}

func TestOpenGLToWGPUMapsDepthRange(t *testing.T) {
	near := OpenGLToWGPU.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := OpenGLToWGPU.Mul4x1(mgl32.Vec4{0, 0, 1, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-6)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-6)
}

func TestBuildModelMatrix(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	p := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 7, p.X(), 1e-6)

	rot := BuildModelMatrix(mgl32.Vec3{}, mgl32.Vec3{0, mgl32.DegToRad(90), 0}, mgl32.Vec3{1, 1, 1})
	q := rot.Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0, q.X(), 1e-6)
	assert.InDelta(t, -1, q.Z(), 1e-6)
}

func TestChunkRanges(t *testing.T) {
	assert.Nil(t, ChunkRanges(0, 4))
	assert.Equal(t, [][2]int{{0, 3}}, ChunkRanges(3, 0))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, ChunkRanges(2, 8))
	assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, ChunkRanges(10, 3))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
