package renderer

import (
	"github.com/Carmen-Shannon/oxy-front/engine/registry"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-front/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-front/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
)

const defaultPipelineKey = "textured_instanced"

// TextureBindGroupLayout describes group 0: a filterable 2D texture at binding 0 and its sampler at binding 1.
func TextureBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	view := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	view.Texture.SampleType = wgpu.TextureSampleTypeFloat
	view.Texture.ViewDimension = wgpu.TextureViewDimension2D
	view.Texture.Multisampled = false

	sampler := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	sampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	return wgpu.BindGroupLayoutDescriptor{
		Label:   "texture_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{view, sampler},
	}
}

// CameraBindGroupLayout describes group 1: the 64-byte camera uniform at binding 0.
func CameraBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	uniform := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageVertex}
	uniform.Buffer.Type = wgpu.BufferBindingTypeUniform
	uniform.Buffer.MinBindingSize = uint64((&transform.GPUCameraUniform{}).Size())

	return wgpu.BindGroupLayoutDescriptor{
		Label:   "camera_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniform},
	}
}

// shaderIncludes registers the WGSL structs whose Go layouts live in registry and transform.
func shaderIncludes() []shader.ShaderBuilderOption {
	return []shader.ShaderBuilderOption{
		shader.WithInclude("camera_uniform", transform.GPUCameraUniformSource),
		shader.WithInclude("vertex_input", registry.GPUVertexSource),
		shader.WithInclude("instance_input", transform.InstanceInputSource),
	}
}

// newInstancedPipeline builds and validates the textured instanced pipeline from WGSL source.
func newInstancedPipeline(source string) (pipeline.Pipeline, error) {
	s, err := shader.NewShader(defaultPipelineKey, source, shaderIncludes()...)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(defaultPipelineKey,
		pipeline.WithShader(s),
		pipeline.WithVertexLayouts(registry.VertexLayout(), transform.InstanceLayout()),
		pipeline.WithBindGroupLayouts(TextureBindGroupLayout(), CameraBindGroupLayout()),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
