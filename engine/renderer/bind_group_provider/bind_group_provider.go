package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources owned by this provider. They are populated by the Renderer backend, not by user-creation.

	// bindGroup is the GPU bind group created for this provider, or nil if the resource is not bindable.
	bindGroup *wgpu.BindGroup
	// buffers holds uniform/storage buffers keyed by binding index.
	buffers map[int]*wgpu.Buffer
	// texture is the GPU texture backing the texture views, or nil.
	texture *wgpu.Texture
	// textureViews holds texture views keyed by binding index.
	textureViews map[int]*wgpu.TextureView
	// samplers holds samplers keyed by binding index.
	samplers map[int]*wgpu.Sampler

	// vertexBuffer is the per-vertex or per-instance buffer, or nil.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the index buffer, or nil.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices drawn from indexBuffer.
	indexCount uint32
	// instanceCount is the number of instances stored in vertexBuffer when it is instance-stepped.
	instanceCount uint32
	// size is the byte size of the provider's primary buffer.
	size uint64

	released bool
}

// BindGroupProvider bundles the GPU objects backing one renderable resource: a mesh (vertex + index
// buffers), a texture (texture, view, sampler, bind group), the camera uniform (buffer + bind group) or a
// per-frame instance buffer. The provider owns every object it holds and releases them together.
type BindGroupProvider interface {
	// Release releases every GPU object held by this provider. Calling it more than once is a no-op.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once the provider has been released
	Released() bool

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the bind group, or nil if the resource is not bindable.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// Texture returns the GPU texture, or nil.
	Texture() *wgpu.Texture

	// TextureView returns the texture view at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the sampler at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the vertex buffer, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for indexed draws.
	IndexCount() uint32

	// InstanceCount returns the number of instances held by an instance-stepped vertex buffer.
	InstanceCount() uint32

	// Size returns the byte size of the provider's primary buffer.
	Size() uint64

	// SetBindGroup stores the bind group.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer stores a buffer for a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores the GPU texture.
	//
	// Parameters:
	//   - tex: the created texture
	SetTexture(tex *wgpu.Texture)

	// SetTextureView stores a texture view for a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to store
	SetTextureView(binding int, tv *wgpu.TextureView)

	// SetSampler stores a sampler for a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler to store
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer stores the vertex buffer.
	//
	// Parameters:
	//   - buf: the created vertex buffer
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the index buffer.
	//
	// Parameters:
	//   - buf: the created index buffer
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices for indexed draws.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count uint32)

	// SetInstanceCount sets the number of instances held by the vertex buffer.
	//
	// Parameters:
	//   - count: the instance count
	SetInstanceCount(count uint32)

	// SetSize sets the byte size of the primary buffer.
	//
	// Parameters:
	//   - size: the size in bytes
	SetSize(size uint64)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: debug label for the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Released() bool {
	return p.released
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Texture() *wgpu.Texture {
	return p.texture
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() uint32 {
	return p.indexCount
}

func (p *bindGroupProvider) InstanceCount() uint32 {
	return p.instanceCount
}

func (p *bindGroupProvider) Size() uint64 {
	return p.size
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTexture(tex *wgpu.Texture) {
	p.texture = tex
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count uint32) {
	p.indexCount = count
}

func (p *bindGroupProvider) SetInstanceCount(count uint32) {
	p.instanceCount = count
}

func (p *bindGroupProvider) SetSize(size uint64) {
	p.size = size
}

// Release drops the bind group before the objects it references, then views before their texture.
func (p *bindGroupProvider) Release() {
	if p.released {
		return
	}
	p.released = true

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	if p.texture != nil {
		p.texture.Release()
		p.texture = nil
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}
