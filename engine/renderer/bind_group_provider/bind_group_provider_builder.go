package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroup sets the bind group for this provider.
//
// Parameters:
//   - bg: the bind group to set for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group for this provider
func WithBindGroup(bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroup = bg
	}
}

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithTexture sets the texture together with its view and sampler at the given bindings.
//
// Parameters:
//   - tex: the GPU texture
//   - viewBinding: binding index of the texture view
//   - view: the texture view
//   - samplerBinding: binding index of the sampler
//   - sampler: the sampler
//
// Returns:
//   - BindGroupProviderOption: a function that sets the texture objects for this provider
func WithTexture(tex *wgpu.Texture, viewBinding int, view *wgpu.TextureView, samplerBinding int, sampler *wgpu.Sampler) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.texture = tex
		p.textureViews[viewBinding] = view
		p.samplers[samplerBinding] = sampler
	}
}

// WithMeshBuffers sets the vertex and index buffers and the index count.
//
// Parameters:
//   - vertex: the vertex buffer
//   - index: the index buffer
//   - indexCount: number of indices to draw
//
// Returns:
//   - BindGroupProviderOption: a function that sets the mesh buffers for this provider
func WithMeshBuffers(vertex, index *wgpu.Buffer, indexCount uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vertex
		p.indexBuffer = index
		p.indexCount = indexCount
	}
}

// WithInstanceBuffer sets an instance-stepped vertex buffer holding count instances.
//
// Parameters:
//   - buf: the instance buffer
//   - count: number of instances stored in buf
//
// Returns:
//   - BindGroupProviderOption: a function that sets the instance buffer for this provider
func WithInstanceBuffer(buf *wgpu.Buffer, count uint32) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = buf
		p.instanceCount = count
	}
}

// WithSize records the byte size of the primary buffer.
//
// Parameters:
//   - size: the size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that sets the size for this provider
func WithSize(size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.size = size
	}
}
