package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/camera"
	"github.com/Carmen-Shannon/oxy-front/engine/config"
	"github.com/Carmen-Shannon/oxy-front/engine/frame"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct{}

func (fakeUploader) UploadMesh(label string, vertexData, indexData []byte, indexCount uint32) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithMeshBuffers(nil, nil, indexCount)), nil
}

func (fakeUploader) UploadTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label), nil
}

func initDemo(t *testing.T, cfg config.SceneConfig) (*demoScene, registry.Registry) {
	t.Helper()
	reg := registry.NewRegistry(fakeUploader{})
	s := newDemoScene(cfg)
	require.NoError(t, s.Init(frame.New(reg)))
	return s, reg
}

func TestDemoGeneratesTwoTextures(t *testing.T) {
	s, reg := initDemo(t, config.Default().Scene)
	assert.Len(t, s.textures, 2)
	assert.Equal(t, 1, reg.MeshCount())
	assert.Equal(t, 2, reg.TextureCount())
}

func TestDemoFallsBackWhenTextureFilesFail(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Textures = []string{filepath.Join(t.TempDir(), "missing.png")}
	s, _ := initDemo(t, cfg)
	assert.Len(t, s.textures, 2)
}

func TestDemoFallsBackToQuadWhenModelFails(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Model = filepath.Join(t.TempDir(), "missing.glb")
	s, reg := initDemo(t, cfg)
	assert.True(t, reg.ValidMesh(s.mesh))
	assert.Equal(t, 1, reg.MeshCount())
	assert.Len(t, s.textures, 2)
}

func TestDemoLoadsTextureFiles(t *testing.T) {
	data, err := checkerboard(4, 2, colorA, colorB)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tex.bmp")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg := config.Default().Scene
	cfg.Textures = []string{path}
	s, reg := initDemo(t, cfg)
	assert.Len(t, s.textures, 1)
	assert.Equal(t, 1, reg.TextureCount())
}

func TestDemoRenderGroupsByTexture(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Columns, cfg.Rows = 4, 3
	s, reg := initDemo(t, cfg)

	f := frame.New(reg)
	s.Render(f, 0.016)
	requests := f.Close()
	require.Len(t, requests, 12)

	groups := batch.Build(requests)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Transforms, 6)
	assert.Len(t, groups[1].Transforms, 6)
	assert.Equal(t, s.textures[0], groups[0].Texture)
}

func TestDemoRenderKeepsTilesAfterRejectedDraw(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Columns, cfg.Rows = 2, 2
	s, reg := initDemo(t, cfg)
	s.tiles[0].SetTexture(99)

	f := frame.New(reg)
	s.Render(f, 0.016)
	assert.Len(t, f.Close(), 3)
}

func TestDemoSpaceSwapsTextures(t *testing.T) {
	s, _ := initDemo(t, config.Default().Scene)
	first := s.textureFor(0)

	s.KeyDown(common.KeySpace)
	assert.Equal(t, first, s.textureFor(0))
	s.KeyUp(common.KeySpace)
	assert.NotEqual(t, first, s.textureFor(0))
	s.KeyUp(common.KeySpace)
	assert.Equal(t, first, s.textureFor(0))
}

func TestDemoSpaceRetexturesTiles(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Columns, cfg.Rows = 2, 2
	s, _ := initDemo(t, cfg)
	require.Len(t, s.tiles, 4)
	before := s.tiles[0].Texture()

	s.KeyUp(common.KeySpace)
	assert.NotEqual(t, before, s.tiles[0].Texture())
	assert.Equal(t, before, s.tiles[1].Texture())
}

func TestDemoTilesSpin(t *testing.T) {
	cfg := config.Default().Scene
	cfg.Columns, cfg.Rows = 1, 1
	cfg.Spin = 2
	s, reg := initDemo(t, cfg)

	s.Render(frame.New(reg), 0.5)
	assert.InDelta(t, 1, s.tiles[0].Rotation().Y(), 1e-6)
	assert.InDelta(t, -math32.Pi/2, s.tiles[0].Rotation().X(), 1e-6)
}

func TestDemoOrbitPauses(t *testing.T) {
	s, _ := initDemo(t, config.Default().Scene)
	cam := camera.NewCamera()

	s.UpdateCamera(cam, 1)
	moved := cam.Position()
	assert.InDelta(t, s.radius/2, moved.Y(), 1e-5)

	s.KeyUp(common.KeyR)
	s.UpdateCamera(cam, 1)
	assert.InDelta(t, moved.X(), cam.Position().X(), 1e-5)
	assert.InDelta(t, moved.Z(), cam.Position().Z(), 1e-5)
}

func TestRendererOptions(t *testing.T) {
	opts, err := rendererOptions(config.Default().Renderer)
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	cfg := config.Default().Renderer
	cfg.Shader = filepath.Join(t.TempDir(), "missing.wgsl")
	_, err = rendererOptions(cfg)
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg.Shader = filepath.Join(t.TempDir(), "custom.wgsl")
	require.NoError(t, os.WriteFile(cfg.Shader, []byte("// custom"), 0o644))
	opts, err = rendererOptions(cfg)
	require.NoError(t, err)
	assert.Len(t, opts, 6)
}
