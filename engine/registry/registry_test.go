package registry

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	meshUploads    int
	textureUploads int
	lastIndexCount uint32
	lastSampler    common.SamplerStagingData
	fail           error
}

func (f *fakeUploader) UploadMesh(label string, vertexData, indexData []byte, indexCount uint32) (bind_group_provider.BindGroupProvider, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.meshUploads++
	f.lastIndexCount = indexCount
	return bind_group_provider.NewBindGroupProvider(label,
		bind_group_provider.WithMeshBuffers(nil, nil, indexCount),
		bind_group_provider.WithSize(uint64(len(vertexData))),
	), nil
}

func (f *fakeUploader) UploadTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (bind_group_provider.BindGroupProvider, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.textureUploads++
	f.lastSampler = sampler
	return bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithSize(uint64(len(staging.Pixels)))), nil
}

func TestRegisterMeshIssuesDenseHandles(t *testing.T) {
	up := &fakeUploader{}
	reg := NewRegistry(up)
	vertices, indices := Quad()

	first, err := reg.RegisterMesh(vertices, indices)
	require.NoError(t, err)
	second, err := reg.RegisterMesh(vertices, indices[:3])
	require.NoError(t, err)

	assert.Equal(t, MeshHandle(0), first)
	assert.Equal(t, MeshHandle(1), second)
	assert.Equal(t, 2, reg.MeshCount())

	m, ok := reg.Mesh(second)
	require.True(t, ok)
	assert.Equal(t, uint32(3), m.IndexCount)
	assert.Equal(t, uint32(4), m.VertexCount)
	assert.Equal(t, uint64(4)*VertexSize, m.Provider.Size())
}

func TestRegisterMeshRejectsOutOfRangeIndex(t *testing.T) {
	up := &fakeUploader{}
	reg := NewRegistry(up)
	vertices := []Vertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}}

	_, err := reg.RegisterMesh(vertices, []uint32{0, 1, 2})

	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.Equal(t, 0, up.meshUploads, "nothing is uploaded for a rejected mesh")
	assert.Equal(t, 0, reg.MeshCount())
}

func TestRegisterMeshRejectsEmptyInput(t *testing.T) {
	reg := NewRegistry(&fakeUploader{})
	vertices, _ := Quad()

	_, err := reg.RegisterMesh(nil, []uint32{0})
	assert.ErrorIs(t, err, ErrEmptyVertices)

	_, err = reg.RegisterMesh(vertices, nil)
	assert.ErrorIs(t, err, ErrEmptyIndices)
}

func TestRegisterMeshPropagatesUploadFailure(t *testing.T) {
	boom := errors.New("out of memory")
	reg := NewRegistry(&fakeUploader{fail: boom})
	vertices, indices := Quad()

	_, err := reg.RegisterMesh(vertices, indices)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, reg.MeshCount())
}

func TestRegisterTextureValidatesExtent(t *testing.T) {
	up := &fakeUploader{}
	reg := NewRegistry(up)

	h, err := reg.RegisterTexture(make([]byte, 2*2*4), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, TextureHandle(0), h)

	_, err = reg.RegisterTexture(make([]byte, 3), 2, 2)
	assert.ErrorIs(t, err, ErrDecodeFailed)

	_, err = reg.RegisterTexture(nil, 0, 0)
	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.Equal(t, 1, up.textureUploads)
}

func TestLoadTextureDecodesImages(t *testing.T) {
	up := &fakeUploader{}
	reg := NewRegistry(up)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))))

	h, err := reg.LoadTexture(buf.Bytes())
	require.NoError(t, err)
	tex, ok := reg.Texture(h)
	require.True(t, ok)
	assert.Equal(t, uint32(4), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
}

func TestLoadTextureCorruptBytesYieldsNoHandle(t *testing.T) {
	up := &fakeUploader{}
	reg := NewRegistry(up)

	h, err := reg.LoadTexture([]byte{0x89, 'P', 'N', 'G', 0, 0})

	assert.ErrorIs(t, err, ErrDecodeFailed)
	assert.False(t, reg.ValidTexture(h))
	assert.Equal(t, 0, up.textureUploads)
}

func TestLoadTextureFile(t *testing.T) {
	reg := NewRegistry(&fakeUploader{})
	path := filepath.Join(t.TempDir(), "t.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := reg.LoadTextureFile(path)
	assert.NoError(t, err)

	_, err = reg.LoadTextureFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, ErrDecodeFailed)
}

func TestLookupOutOfRangeHandles(t *testing.T) {
	reg := NewRegistry(&fakeUploader{})

	_, ok := reg.Mesh(-1)
	assert.False(t, ok)
	_, ok = reg.Mesh(0)
	assert.False(t, ok)
	_, ok = reg.Texture(42)
	assert.False(t, ok)
	assert.False(t, reg.ValidMesh(7))
}

func TestWithSamplerFillsDefaults(t *testing.T) {
	up := &fakeUploader{}
	reg := NewRegistry(up, WithSampler(common.SamplerStagingData{LodMaxClamp: 4}), WithCapacity(4, 4))

	_, err := reg.RegisterTexture(make([]byte, 4), 1, 1)
	require.NoError(t, err)

	d := common.DefaultSampler()
	assert.Equal(t, d.AddressModeU, up.lastSampler.AddressModeU)
	assert.Equal(t, d.MagFilter, up.lastSampler.MagFilter)
	assert.Equal(t, float32(4), up.lastSampler.LodMaxClamp)
	assert.Equal(t, uint16(1), up.lastSampler.MaxAnisotropy)
}

func TestReleaseReleasesProvidersAndBlocksRegistration(t *testing.T) {
	reg := NewRegistry(&fakeUploader{})
	vertices, indices := Quad()
	h, err := reg.RegisterMesh(vertices, indices)
	require.NoError(t, err)
	m, _ := reg.Mesh(h)

	reg.Release()
	reg.Release()

	assert.True(t, m.Provider.Released())
	assert.Equal(t, 0, reg.MeshCount())
	_, err = reg.RegisterMesh(vertices, indices)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestVertexLayoutMatchesVertexStruct(t *testing.T) {
	layout := VertexLayout()
	assert.Equal(t, uint64(20), layout.ArrayStride)
	require.Len(t, layout.Attributes, 2)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint32(1), layout.Attributes[1].ShaderLocation)
}
