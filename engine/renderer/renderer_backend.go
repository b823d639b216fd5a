package renderer

import (
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-front/engine/transform"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// Bind group indices of the instanced pipeline.
const (
	TextureBindGroup = 0
	CameraBindGroup  = 1
)

// Vertex buffer slots of the instanced pipeline.
const (
	MeshVertexSlot     = 0
	InstanceVertexSlot = 1
)

// RendererBackend is the GPU API surface the Renderer drives. It uploads registry and transform
// resources and records exactly one render pass per frame.
type RendererBackend interface {
	registry.Uploader
	transform.Allocator

	// ConfigureSurface configures the surface and rebuilds the depth (and MSAA) attachments.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if an attachment could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the shader module, bind group layouts, pipeline layout and
	// render pipeline, and stores them on p. Texture and camera bind groups created afterwards
	// use p's layouts.
	//
	// Parameters:
	//   - p: the pipeline configuration
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// AcquireFrame acquires the next presentable surface texture.
	//
	// Returns:
	//   - error: the raw acquisition error, classified by the Renderer
	AcquireFrame() error

	// BeginPass creates the command encoder and begins the render pass clearing color and depth.
	//
	// Returns:
	//   - error: an error if the encoder could not be created
	BeginPass() error

	// DrawCall records one instanced indexed draw: mesh at vertex slot 0, instances at slot 1.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - mesh: the provider holding vertex and index buffers
	//   - instances: the provider holding the per-instance buffer
	//   - bindGroups: providers bound at group indices 0..n-1
	DrawCall(p pipeline.Pipeline, mesh, instances bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the acquired surface texture and releases it.
	Present()

	// AbandonFrame releases any acquired frame state without presenting.
	AbandonFrame()

	// Release frees every GPU object owned by the backend.
	Release()
}
