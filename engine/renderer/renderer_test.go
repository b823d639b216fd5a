package renderer

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	w, h int
}

func (t fakeTarget) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (t fakeTarget) Width() int                                 { return t.w }
func (t fakeTarget) Height() int                                { return t.h }

type staticSource mgl32.Mat4

func (s staticSource) ViewProjectionMatrix() mgl32.Mat4 { return mgl32.Mat4(s) }

type drawRecord struct {
	mesh       string
	instances  uint32
	bindGroups []string
}

type fakeBackend struct {
	configures  [][2]int
	presentMode PresentMode
	pipelines   []pipeline.Pipeline
	acquireErr  error
	endErr      error
	acquired    bool
	passes      int
	draws       []drawRecord
	presents    int
	abandons    int
	releases    int
	writes      []bind_group_provider.BufferWrite
}

func (f *fakeBackend) UploadMesh(label string, vertexData, indexData []byte, indexCount uint32) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithMeshBuffers(nil, nil, indexCount)), nil
}

func (f *fakeBackend) UploadTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label), nil
}

func (f *fakeBackend) CreateCameraUniform(label string, data []byte) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label), nil
}

func (f *fakeBackend) CreateInstanceBuffer(label string, data []byte, count uint32) (bind_group_provider.BindGroupProvider, error) {
	if len(data) == 0 {
		return nil, errors.New("empty instance buffer")
	}
	return bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithInstanceBuffer(nil, count)), nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.configures = append(f.configures, [2]int{width, height})
	return nil
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) {
	f.presentMode = mode
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p)
	return nil
}

func (f *fakeBackend) AcquireFrame() error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired = true
	return nil
}

func (f *fakeBackend) BeginPass() error {
	f.passes++
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, mesh, instances bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	rec := drawRecord{mesh: mesh.Label(), instances: instances.InstanceCount()}
	for _, bg := range bindGroups {
		rec.bindGroups = append(rec.bindGroups, bg.Label())
	}
	f.draws = append(f.draws, rec)
}

func (f *fakeBackend) EndFrame() error {
	return f.endErr
}

func (f *fakeBackend) Present() {
	f.presents++
	f.acquired = false
}

func (f *fakeBackend) AbandonFrame() {
	f.abandons++
	f.acquired = false
}

func (f *fakeBackend) Release() {
	f.releases++
}

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (Renderer, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	r, err := NewRenderer(fakeTarget{w: 800, h: 600}, append([]RendererBuilderOption{WithBackend(fb), WithWorkers(2)}, options...)...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r, fb
}

func registerQuad(t *testing.T, r Renderer) registry.MeshHandle {
	t.Helper()
	h, err := r.Registry().RegisterMesh(registry.Quad())
	require.NoError(t, err)
	return h
}

func registerPixel(t *testing.T, r Renderer) registry.TextureHandle {
	t.Helper()
	h, err := r.Registry().RegisterTexture([]byte{255, 0, 0, 255}, 1, 1)
	require.NoError(t, err)
	return h
}

func renderFrame(t *testing.T, r Renderer, requests []batch.DrawRequest) FrameStats {
	t.Helper()
	require.NoError(t, r.BeginFrame())
	stats, err := r.Render(batch.Build(requests), staticSource(mgl32.Ident4()))
	require.NoError(t, err)
	return stats
}

func TestNewRendererConfiguresAndRegistersPipeline(t *testing.T) {
	r, fb := newTestRenderer(t, WithPresentMode(PresentModeUncapped))

	assert.Equal(t, StateConfigured, r.State())
	w, h := r.Extent()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, [][2]int{{800, 600}}, fb.configures)
	assert.Equal(t, PresentModeUncapped, fb.presentMode)

	require.Len(t, fb.pipelines, 1)
	p := fb.pipelines[0]
	assert.Equal(t, "vs_main", p.Shader().EntryPoint(shader.ShaderTypeVertex))
	assert.Equal(t, "fs_main", p.Shader().EntryPoint(shader.ShaderTypeFragment))
	require.Len(t, p.VertexLayouts(), 2)
	assert.Equal(t, wgpu.VertexStepModeInstance, p.VertexLayouts()[InstanceVertexSlot].StepMode)
	assert.Len(t, p.BindGroupLayoutDescriptors(), 2)
}

func TestNewRendererRejectsBadShader(t *testing.T) {
	fb := &fakeBackend{}
	_, err := NewRenderer(fakeTarget{w: 1, h: 1}, WithBackend(fb), WithShader("@vertex fn vs() {}"))

	assert.ErrorIs(t, err, shader.ErrMissingEntryPoint)
	assert.Equal(t, 1, fb.releases)
	assert.Empty(t, fb.pipelines)
}

func TestNewRendererRejectsShaderWithoutBindings(t *testing.T) {
	fb := &fakeBackend{}
	_, err := NewRenderer(fakeTarget{w: 1, h: 1}, WithBackend(fb), WithShader("@vertex fn vs() {}\n@fragment fn fs() {}"))

	assert.ErrorIs(t, err, pipeline.ErrBindingMismatch)
}

func TestResizeIgnoresZeroDimensions(t *testing.T) {
	r, fb := newTestRenderer(t)

	r.Resize(0, 480)
	r.Resize(640, 0)
	r.Resize(-1, -1)

	w, h := r.Extent()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Len(t, fb.configures, 1)

	r.Resize(1024, 768)
	r.Resize(1024, 768)
	w, h = r.Extent()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, StateConfigured, r.State())
}

func TestResizeAbandonsAcquiredFrame(t *testing.T) {
	r, fb := newTestRenderer(t)

	require.NoError(t, r.BeginFrame())
	r.Resize(320, 240)

	assert.Equal(t, 1, fb.abandons)
	assert.False(t, fb.acquired)
	assert.Equal(t, StateConfigured, r.State())
	assert.NoError(t, r.BeginFrame())
}

func TestZeroExtentTargetStaysUnconfigured(t *testing.T) {
	fb := &fakeBackend{}
	r, err := NewRenderer(fakeTarget{}, WithBackend(fb))
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, StateUninitialized, r.State())
	assert.ErrorIs(t, r.BeginFrame(), ErrNotConfigured)

	r.Resize(200, 100)
	assert.Equal(t, StateConfigured, r.State())
	assert.NoError(t, r.BeginFrame())
}

func TestFrameStateMachine(t *testing.T) {
	r, _ := newTestRenderer(t)

	_, err := r.Render(nil, staticSource(mgl32.Ident4()))
	assert.ErrorIs(t, err, ErrNoFrame)

	require.NoError(t, r.BeginFrame())
	assert.Equal(t, StateRendering, r.State())
	assert.ErrorIs(t, r.BeginFrame(), ErrFrameInProgress)

	_, err = r.Render(nil, staticSource(mgl32.Ident4()))
	require.NoError(t, err)
	assert.Equal(t, StateConfigured, r.State())
}

func TestZeroRequestsStillPresents(t *testing.T) {
	r, fb := newTestRenderer(t)

	stats := renderFrame(t, r, nil)

	assert.Equal(t, FrameStats{}, stats)
	assert.Empty(t, fb.draws)
	assert.Equal(t, 1, fb.passes)
	assert.Equal(t, 1, fb.presents)
}

func TestSameKeyRequestsBecomeOneInstancedDraw(t *testing.T) {
	r, fb := newTestRenderer(t)
	mesh := registerQuad(t, r)
	tex := registerPixel(t, r)

	stats := renderFrame(t, r, []batch.DrawRequest{
		{Mesh: mesh, Texture: tex, Transform: mgl32.Translate3D(1, 0, 0)},
		{Mesh: mesh, Texture: tex, Transform: mgl32.Translate3D(2, 0, 0)},
	})

	assert.Equal(t, FrameStats{Groups: 1, DrawCalls: 1, Instances: 2}, stats)
	require.Len(t, fb.draws, 1)
	assert.Equal(t, uint32(2), fb.draws[0].instances)
	assert.Equal(t, []string{"texture_0", "camera_uniform"}, fb.draws[0].bindGroups)
}

func TestInvalidHandlesAreSkipped(t *testing.T) {
	r, fb := newTestRenderer(t)
	mesh := registerQuad(t, r)
	tex := registerPixel(t, r)

	groups := batch.Build([]batch.DrawRequest{
		{Mesh: mesh, Texture: tex, Transform: mgl32.Ident4()},
		{Mesh: 42, Texture: tex, Transform: mgl32.Ident4()},
		{Mesh: mesh, Texture: -1, Transform: mgl32.Ident4()},
	})

	require.NoError(t, r.BeginFrame())
	var stats FrameStats
	var err error
	assert.NotPanics(t, func() {
		stats, err = r.Render(groups, staticSource(mgl32.Ident4()))
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.DrawCalls)
	assert.Len(t, fb.draws, 1)
	assert.Equal(t, 1, fb.presents)
}

func TestEmptyGroupIsSkippedWithoutAbandoningFrame(t *testing.T) {
	r, fb := newTestRenderer(t)
	mesh := registerQuad(t, r)
	tex := registerPixel(t, r)

	groups := []batch.Group{
		{Key: batch.Key{Mesh: mesh, Texture: tex}},
		{Key: batch.Key{Mesh: mesh, Texture: tex}, Transforms: []mgl32.Mat4{mgl32.Ident4()}},
	}

	require.NoError(t, r.BeginFrame())
	stats, err := r.Render(groups, staticSource(mgl32.Ident4()))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.DrawCalls)
	assert.Len(t, fb.draws, 1)
	assert.Zero(t, fb.abandons)
	assert.Equal(t, 1, fb.presents)
}

func TestPerMeshInstanceTotals(t *testing.T) {
	r, fb := newTestRenderer(t)
	meshes := []registry.MeshHandle{registerQuad(t, r), registerQuad(t, r), registerQuad(t, r)}
	textures := []registry.TextureHandle{registerPixel(t, r), registerPixel(t, r)}

	rng := rand.New(rand.NewSource(7))
	want := map[string]uint32{}
	requests := make([]batch.DrawRequest, 500)
	for i := range requests {
		m := meshes[rng.Intn(len(meshes))]
		requests[i] = batch.DrawRequest{
			Mesh:      m,
			Texture:   textures[rng.Intn(len(textures))],
			Transform: mgl32.Translate3D(float32(i), 0, 0),
		}
		mesh, ok := r.Registry().Mesh(m)
		require.True(t, ok)
		want[mesh.Provider.Label()]++
	}

	stats := renderFrame(t, r, requests)

	got := map[string]uint32{}
	for _, d := range fb.draws {
		got[d.mesh] += d.instances
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(requests), stats.Instances)
	assert.LessOrEqual(t, stats.DrawCalls, len(meshes)*len(textures))
}

func TestRenderWritesCameraUniform(t *testing.T) {
	r, fb := newTestRenderer(t)
	viewProj := mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100)

	require.NoError(t, r.BeginFrame())
	_, err := r.Render(nil, staticSource(viewProj))
	require.NoError(t, err)

	require.NotEmpty(t, fb.writes)
	last := fb.writes[len(fb.writes)-1]
	assert.Equal(t, viewProj, common.Mat4FromBytes(last.Data))
	assert.Same(t, r.Transforms().CameraProvider(), last.Provider)
}

func TestRenderSubmitFailureAbandonsFrame(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.endErr = errors.New("finish failed")

	require.NoError(t, r.BeginFrame())
	_, err := r.Render(nil, staticSource(mgl32.Ident4()))

	assert.ErrorContains(t, err, "finish failed")
	assert.Equal(t, 1, fb.abandons)
	assert.Zero(t, fb.presents)
	assert.Equal(t, StateConfigured, r.State())
}

func TestSurfaceErrorKinds(t *testing.T) {
	cases := []struct {
		msg         string
		kind        SurfaceErrorKind
		reconfigure bool
	}{
		{"Surface texture status: Timeout", SurfaceTimeout, false},
		{"Surface texture status: Outdated", SurfaceOutdated, true},
		{"Surface texture status: Lost", SurfaceLost, true},
		{"out of memory", SurfaceOther, true},
	}

	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			r, fb := newTestRenderer(t)
			fb.acquireErr = errors.New(tc.msg)

			err := r.BeginFrame()
			assert.ErrorIs(t, err, ErrSurfaceUnavailable)

			var se *SurfaceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.kind, se.Kind)
			assert.Equal(t, tc.reconfigure, se.NeedsReconfigure())
			assert.Equal(t, StateConfigured, r.State())
		})
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	fb := &fakeBackend{}
	r, err := NewRenderer(fakeTarget{w: 10, h: 10}, WithBackend(fb))
	require.NoError(t, err)

	r.Release()
	r.Release()

	assert.Equal(t, 1, fb.releases)
	assert.ErrorIs(t, r.BeginFrame(), ErrNotConfigured)
}

func TestLayoutsMatchDefaultShader(t *testing.T) {
	tex := TextureBindGroupLayout()
	require.Len(t, tex.Entries, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, tex.Entries[1].Sampler.Type)

	cam := CameraBindGroupLayout()
	require.Len(t, cam.Entries, 1)
	assert.Equal(t, uint64(64), cam.Entries[0].Buffer.MinBindingSize)
}
