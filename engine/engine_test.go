package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/camera"
	"github.com/Carmen-Shannon/oxy-front/engine/frame"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-front/engine/scene"
	"github.com/Carmen-Shannon/oxy-front/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	width, height int
	iterations    int
	closed        bool

	closeRequested bool

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKeyDown func(key uint32)
	onKeyUp   func(key uint32)
}

func (w *fakeWindow) SetUpdateCallback(cb func())                   { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int))  { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32))      { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))    { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32))      { w.onKeyUp = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor    { return nil }
func (w *fakeWindow) IsRunning() bool                               { return !w.closed }
func (w *fakeWindow) Width() int                                    { return w.width }
func (w *fakeWindow) Height() int                                   { return w.height }

func (w *fakeWindow) RequestClose() { w.closeRequested = true }

func (w *fakeWindow) Close() error {
	w.closed = true
	return nil
}

// ProcessMessages runs at most iterations updates, stopping early once a close is requested.
func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.iterations && !w.closeRequested && !w.closed; i++ {
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type fakeUploader struct{}

func (fakeUploader) UploadMesh(label string, vertexData, indexData []byte, indexCount uint32) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithMeshBuffers(nil, nil, indexCount)), nil
}

func (fakeUploader) UploadTexture(label string, staging common.TextureStagingData, sampler common.SamplerStagingData) (bind_group_provider.BindGroupProvider, error) {
	return bind_group_provider.NewBindGroupProvider(label), nil
}

type fakeRenderer struct {
	reg registry.Registry

	width, height int
	resizes       [][2]int
	beginErr      error
	begins        int
	renders       [][]batch.Group
	lastVP        mgl32.Mat4
	released      bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{reg: registry.NewRegistry(fakeUploader{}), width: 640, height: 480}
}

func (r *fakeRenderer) Resize(width, height int) {
	r.resizes = append(r.resizes, [2]int{width, height})
	if width > 0 && height > 0 {
		r.width, r.height = width, height
	}
}

func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) Extent() (int, int)                  { return r.width, r.height }
func (r *fakeRenderer) State() renderer.State               { return renderer.StateConfigured }
func (r *fakeRenderer) Registry() registry.Registry         { return r.reg }
func (r *fakeRenderer) Transforms() transform.Manager       { return nil }
func (r *fakeRenderer) Release()                            { r.released = true }

func (r *fakeRenderer) BeginFrame() error {
	r.begins++
	return r.beginErr
}

func (r *fakeRenderer) Render(groups []batch.Group, source renderer.TransformSource) (renderer.FrameStats, error) {
	copied := make([]batch.Group, len(groups))
	for i, g := range groups {
		copied[i] = batch.Group{Key: g.Key, Transforms: append([]mgl32.Mat4(nil), g.Transforms...)}
	}
	r.renders = append(r.renders, copied)
	r.lastVP = source.ViewProjectionMatrix()

	stats := renderer.FrameStats{Groups: len(groups)}
	for _, g := range groups {
		stats.DrawCalls++
		stats.Instances += len(g.Transforms)
	}
	return stats, nil
}

func solidPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// quadScene registers one quad and one texture, then draws count instances per frame.
func quadScene(count int) (scene.Scene, *registry.MeshHandle, *registry.TextureHandle) {
	var mesh registry.MeshHandle
	var tex registry.TextureHandle
	s := scene.NewScene("quads",
		scene.WithInit(func(f frame.Frame) error {
			vertices, indices := registry.Quad()
			var err error
			if mesh, err = f.AddMesh(vertices, indices); err != nil {
				return err
			}
			var ok bool
			if tex, ok = f.AddTextureBytes(solidPNG()); !ok {
				return errors.New("texture")
			}
			return nil
		}),
		scene.WithRender(func(f frame.Frame, dt float32) {
			for i := 0; i < count; i++ {
				_ = f.Draw(batch.DrawRequest{Mesh: mesh, Texture: tex, Transform: mgl32.Translate3D(float32(i), 0, 0)})
			}
		}),
	)
	return s, &mesh, &tex
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, *fakeWindow, *fakeRenderer) {
	t.Helper()
	w := &fakeWindow{width: 640, height: 480}
	r := newFakeRenderer()
	e, err := NewEngine(append([]EngineBuilderOption{WithWindow(w), WithRenderer(r)}, options...)...)
	require.NoError(t, err)
	return e, w, r
}

func TestNewEngineRequiresWindow(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewEngine(WithRenderer(newFakeRenderer())) })
}

func TestNewEngineDefaults(t *testing.T) {
	e, w, _ := newTestEngine(t)
	assert.NotNil(t, e.Scene())
	assert.InDelta(t, float32(640)/480, e.Camera().Aspect(), 1e-6)
	assert.NotNil(t, w.onResize)
	assert.NotNil(t, w.onKeyDown)
	assert.NotNil(t, w.onKeyUp)
	assert.NotNil(t, w.onScroll)
}

func TestStepWithNoRequestsStillRenders(t *testing.T) {
	e, _, r := newTestEngine(t)
	require.NoError(t, e.Init())

	stats, err := e.Step(0.016)
	require.NoError(t, err)
	assert.Equal(t, 1, r.begins)
	require.Len(t, r.renders, 1)
	assert.Empty(t, r.renders[0])
	assert.Zero(t, stats.DrawCalls)
}

func TestStepBatchesRequests(t *testing.T) {
	s, mesh, tex := quadScene(2)
	e, _, r := newTestEngine(t, WithScene(s))
	require.NoError(t, e.Init())

	stats, err := e.Step(0.016)
	require.NoError(t, err)
	require.Len(t, r.renders, 1)
	require.Len(t, r.renders[0], 1)

	g := r.renders[0][0]
	assert.Equal(t, *mesh, g.Mesh)
	assert.Equal(t, *tex, g.Texture)
	require.Len(t, g.Transforms, 2)
	assert.Equal(t, mgl32.Translate3D(0, 0, 0), g.Transforms[0])
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), g.Transforms[1])
	assert.Equal(t, 1, stats.DrawCalls)
	assert.Equal(t, 2, stats.Instances)
	assert.Equal(t, e.Camera().ViewProjectionMatrix(), r.lastVP)
}

func TestStepReconfiguresLostSurface(t *testing.T) {
	e, _, r := newTestEngine(t)
	r.beginErr = &renderer.SurfaceError{Kind: renderer.SurfaceOutdated}

	_, err := e.Step(0.016)
	require.ErrorIs(t, err, renderer.ErrSurfaceUnavailable)
	assert.Empty(t, r.renders)
	assert.Equal(t, [][2]int{{640, 480}}, r.resizes)
}

func TestStepSkipsTimeoutWithoutReconfigure(t *testing.T) {
	e, _, r := newTestEngine(t)
	r.beginErr = &renderer.SurfaceError{Kind: renderer.SurfaceTimeout}

	_, err := e.Step(0.016)
	require.Error(t, err)
	assert.Empty(t, r.renders)
	assert.Empty(t, r.resizes)
}

func TestStepSkipsUnconfiguredRenderer(t *testing.T) {
	e, _, r := newTestEngine(t)
	r.beginErr = renderer.ErrNotConfigured

	_, err := e.Step(0.016)
	require.ErrorIs(t, err, renderer.ErrNotConfigured)
	assert.Empty(t, r.resizes)
}

func TestResizeCallbackUpdatesRendererAndCamera(t *testing.T) {
	e, w, r := newTestEngine(t)

	w.onResize(1000, 500)
	assert.Equal(t, [][2]int{{1000, 500}}, r.resizes)
	assert.InDelta(t, 2.0, e.Camera().Aspect(), 1e-6)

	w.onResize(1000, 0)
	assert.InDelta(t, 2.0, e.Camera().Aspect(), 1e-6)
}

func TestInputReachesSceneAndController(t *testing.T) {
	var down, up []uint32
	s := scene.NewScene("input", scene.WithKeyHandlers(
		func(key uint32) { down = append(down, key) },
		func(key uint32) { up = append(up, key) },
	))
	ctrl := camera.NewCameraController()
	cam := camera.NewCamera(camera.WithController(ctrl))
	e, w, _ := newTestEngine(t, WithScene(s), WithCamera(cam))
	require.NoError(t, e.Init())

	w.onKeyDown(common.KeyLeft)
	azimuth := ctrl.Azimuth()
	_, err := e.Step(0.5)
	require.NoError(t, err)
	assert.Less(t, ctrl.Azimuth(), azimuth)
	assert.Equal(t, ctrl.Position(), cam.Position())

	w.onKeyUp(common.KeyLeft)
	assert.Equal(t, []uint32{common.KeyLeft}, down)
	assert.Equal(t, []uint32{common.KeyLeft}, up)

	radius := ctrl.Radius()
	w.onScroll(2)
	assert.InDelta(t, radius-2, ctrl.Radius(), 1e-5)
}

func TestSceneCameraUpdate(t *testing.T) {
	s := scene.NewScene("orbit", scene.WithCameraUpdate(func(cam camera.Camera, dt float32) {
		cam.Orbit(0, 5)
	}))
	e, _, _ := newTestEngine(t, WithScene(s))

	_, err := e.Step(0.016)
	require.NoError(t, err)
	assert.InDelta(t, 5, e.Camera().Position().X(), 1e-5)
	assert.InDelta(t, 0, e.Camera().Position().Z(), 1e-5)
}

func TestInitRunsOnce(t *testing.T) {
	calls := 0
	s := scene.NewScene("once", scene.WithInit(func(frame.Frame) error {
		calls++
		return nil
	}))
	e, _, _ := newTestEngine(t, WithScene(s))

	require.NoError(t, e.Init())
	require.NoError(t, e.Init())
	assert.Equal(t, 1, calls)
}

func TestInitError(t *testing.T) {
	boom := errors.New("boom")
	s := scene.NewScene("broken", scene.WithInit(func(frame.Frame) error { return boom }))
	e, _, r := newTestEngine(t, WithScene(s))

	require.ErrorIs(t, e.Run(), boom)
	assert.False(t, r.released)
}

func TestRunStepsUntilQuit(t *testing.T) {
	ticks := 0
	var e Engine
	e, w, r := newTestEngine(t, WithTickCallback(func(float32) {
		ticks++
		if ticks == 3 {
			e.Quit()
		}
	}))
	w.iterations = 10

	require.NoError(t, e.Run())
	assert.Equal(t, 3, ticks)
	assert.Len(t, r.renders, 3)
	assert.True(t, w.closeRequested)
	assert.True(t, w.closed)
	assert.True(t, r.released)
}

func TestQuitFromAnotherGoroutine(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	e, w, r := newTestEngine(t, WithTickCallback(func(float32) {
		once.Do(func() { close(started) })
	}))
	w.iterations = 1 << 30

	go func() {
		<-started
		e.Quit()
	}()

	require.NoError(t, e.Run())
	assert.True(t, w.closeRequested)
	assert.True(t, w.closed)
	assert.NotEmpty(t, r.renders)
	assert.Less(t, len(r.renders), w.iterations)
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.Equal(t, int64(1e9/50), int64(frameDuration(50)))
}
