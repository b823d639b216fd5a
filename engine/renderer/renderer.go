package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-front/common"
	"github.com/Carmen-Shannon/oxy-front/engine/batch"
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-front/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// SurfaceTarget is anything that can produce a presentable surface, usually a window.
type SurfaceTarget interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// TransformSource supplies the combined view-projection matrix for a frame.
type TransformSource interface {
	ViewProjectionMatrix() mgl32.Mat4
}

// State is the renderer's position in the frame state machine.
type State int

const (
	StateUninitialized State = iota
	StateConfigured
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateRendering:
		return "rendering"
	default:
		return "uninitialized"
	}
}

// FrameStats summarizes one rendered frame.
type FrameStats struct {
	// Groups is the number of groups submitted to Render.
	Groups int
	// DrawCalls is the number of instanced draws recorded.
	DrawCalls int
	// Instances is the total instance count across all draws.
	Instances int
	// Skipped counts groups dropped because a handle no longer resolved.
	Skipped int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend    RendererBackend
	pipeline   pipeline.Pipeline
	registry   registry.Registry
	transforms transform.Manager

	state         State
	width, height int
	released      bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
	shaderSource         string
	workers              int
}

// Renderer owns the GPU context of one surface: the device, the instanced pipeline, the resource
// registry and the transform manager. It drives a strict BeginFrame/Render cycle.
type Renderer interface {
	// Resize reconfigures the surface and depth attachment. Non-positive dimensions are ignored.
	// An acquired frame is abandoned first.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode and reconfigures a configured surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Extent returns the configured surface size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Extent() (int, int)

	// State returns the current frame state.
	State() State

	// BeginFrame acquires the next presentable image.
	//
	// Returns:
	//   - error: ErrNotConfigured, ErrFrameInProgress or a *SurfaceError
	BeginFrame() error

	// Render uploads the camera and instance data for the groups, records one instanced draw per
	// group in a single pass, submits and presents. Groups whose handles do not resolve are skipped.
	//
	// Parameters:
	//   - groups: the frame's batched draw groups
	//   - source: the view-projection source for the camera uniform
	//
	// Returns:
	//   - FrameStats: counters for the frame
	//   - error: ErrNoFrame, or an upload or submission failure
	Render(groups []batch.Group, source TransformSource) (FrameStats, error)

	// Registry returns the mesh and texture registry.
	Registry() registry.Registry

	// Transforms returns the camera and instance buffer manager.
	Transforms() transform.Manager

	// Release frees every GPU resource owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU context for a surface target, registers the instanced pipeline and
// configures the surface to the target's extent. A target with a zero extent leaves the renderer
// unconfigured until the first valid Resize.
//
// Parameters:
//   - target: the surface target, usually a window
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the configured renderer
//   - error: ErrAdapterNotFound, ErrDeviceInit, or a pipeline or resource error
func NewRenderer(target SurfaceTarget, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:           &sync.Mutex{},
		presentMode:  PresentModeVSync,
		msaa:         MSAAOff,
		clearColor:   wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		shaderSource: shader.DefaultSource,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		b, err := newWGPURendererBackend(target.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.clearColor)
		if err != nil {
			return nil, err
		}
		r.backend = b
	}
	r.backend.SetPresentMode(r.presentMode)

	p, err := newInstancedPipeline(r.shaderSource)
	if err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("failed to register pipeline %s: %w", p.PipelineKey(), err)
	}
	r.pipeline = p

	var transformOptions []transform.ManagerBuilderOption
	if r.workers > 0 {
		transformOptions = append(transformOptions, transform.WithWorkers(r.workers))
	}
	r.transforms, err = transform.NewManager(r.backend, transformOptions...)
	if err != nil {
		p.Release()
		r.backend.Release()
		return nil, err
	}
	r.registry = registry.NewRegistry(r.backend)

	r.Resize(target.Width(), target.Height())
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configure(width, height)
}

// configure must be called with r.mu held.
func (r *renderer) configure(width, height int) {
	if r.released || width <= 0 || height <= 0 {
		return
	}
	if r.state == StateRendering {
		r.backend.AbandonFrame()
		r.state = StateConfigured
	}

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		common.Logger().Warn("surface configuration failed", "width", width, "height", height, "error", err)
		return
	}
	r.width, r.height = width, height
	r.state = StateConfigured
	common.Logger().Info("surface configured", "width", width, "height", height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	if r.state != StateUninitialized {
		r.configure(r.width, r.height)
	}
}

func (r *renderer) Extent() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrNotConfigured
	}
	switch r.state {
	case StateUninitialized:
		return ErrNotConfigured
	case StateRendering:
		return ErrFrameInProgress
	}

	if err := r.backend.AcquireFrame(); err != nil {
		return classifySurfaceError(err)
	}
	r.state = StateRendering
	return nil
}

func (r *renderer) Render(groups []batch.Group, source TransformSource) (FrameStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := FrameStats{Groups: len(groups)}
	if r.state != StateRendering {
		return stats, ErrNoFrame
	}

	r.transforms.UpdateCamera(source.ViewProjectionMatrix())
	instances, err := r.transforms.Upload(groups)
	if err != nil {
		r.abandon()
		return stats, fmt.Errorf("failed to upload instances: %w", err)
	}

	if err := r.backend.BeginPass(); err != nil {
		r.abandon()
		return stats, fmt.Errorf("failed to begin render pass: %w", err)
	}

	camera := r.transforms.CameraProvider()
	for i, g := range groups {
		mesh, meshOK := r.registry.Mesh(g.Mesh)
		tex, texOK := r.registry.Texture(g.Texture)
		if !meshOK || !texOK || len(g.Transforms) == 0 {
			stats.Skipped++
			common.Logger().Warn("skipping draw group", "mesh", g.Mesh, "texture", g.Texture, "instances", len(g.Transforms))
			continue
		}

		bindGroups := make([]bind_group_provider.BindGroupProvider, 2)
		bindGroups[TextureBindGroup] = tex.Provider
		bindGroups[CameraBindGroup] = camera
		r.backend.DrawCall(r.pipeline, mesh.Provider, instances[i], bindGroups)

		stats.DrawCalls++
		stats.Instances += len(g.Transforms)
	}

	if err := r.backend.EndFrame(); err != nil {
		r.abandon()
		return stats, fmt.Errorf("failed to submit frame: %w", err)
	}
	r.backend.Present()
	r.state = StateConfigured

	common.Logger().Debug("frame rendered", "groups", stats.Groups, "draws", stats.DrawCalls, "instances", stats.Instances, "skipped", stats.Skipped)
	return stats, nil
}

// abandon must be called with r.mu held.
func (r *renderer) abandon() {
	r.backend.AbandonFrame()
	r.state = StateConfigured
}

func (r *renderer) Registry() registry.Registry {
	return r.registry
}

func (r *renderer) Transforms() transform.Manager {
	return r.transforms
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	if r.state == StateRendering {
		r.backend.AbandonFrame()
	}
	r.transforms.Release()
	r.registry.Release()
	r.pipeline.Release()
	r.backend.Release()
	r.state = StateUninitialized
}
