package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultSource is the textured, instanced WGSL shader used when no shader is configured.
// It relies on the camera_uniform, vertex_input and instance_input includes.
//
//go:embed assets/textured_instanced.wgsl
var DefaultSource string

// ErrMissingEntryPoint is returned when a shader lacks a @vertex or @fragment entry point.
var ErrMissingEntryPoint = errors.New("shader entry point not found")

// ShaderType identifies a programmable stage of a render pipeline.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key      string
	source   string
	bindings []Binding
	entry    map[ShaderType]string
	module   *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader is a pre-processed WGSL module holding both the vertex and fragment entry points of a render pipeline.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point function name for a stage.
	//
	// Parameters:
	//   - shaderType: the pipeline stage
	//
	// Returns:
	//   - string: the function name, or "" if the stage is absent
	EntryPoint(shaderType ShaderType) string

	// Bindings returns every @group/@binding declaration in source order.
	//
	// Returns:
	//   - []Binding: the declared resource bindings
	Bindings() []Binding

	// HasBinding reports whether the shader declares a resource at group/binding.
	//
	// Parameters:
	//   - group: bind group index
	//   - binding: binding index within the group
	//
	// Returns:
	//   - bool: true if declared
	HasBinding(group, binding int) bool

	// Module returns the shader module descriptor for GPU creation.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source and locates its vertex and fragment entry points.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - source: raw WGSL source, possibly containing @oxy:include annotations
//   - options: a variadic list of options to configure the shader
//
// Returns:
//   - Shader: the processed shader
//   - error: a pre-processing error or ErrMissingEntryPoint
func NewShader(key string, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:   key,
		entry: make(map[ShaderType]string),
		pp:    NewPreProcessor(),
	}
	for _, opt := range options {
		opt(s)
	}

	processed, err := s.pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	s.source = processed

	for _, st := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment} {
		name := parseEntryPoint(s.source, st)
		if name == "" {
			return nil, fmt.Errorf("shader %s: %s stage: %w", key, st, ErrMissingEntryPoint)
		}
		s.entry[st] = name
	}
	s.bindings = parseBindings(s.source)
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

// NewShaderFromPath reads WGSL source from disk and processes it with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - path: the file path to read WGSL source from
//   - options: a variadic list of options to configure the shader
//
// Returns:
//   - Shader: the processed shader
//   - error: a read, pre-processing or entry point error
func NewShaderFromPath(key, path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	return NewShader(key, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint(shaderType ShaderType) string {
	return s.entry[shaderType]
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) HasBinding(group, binding int) bool {
	for _, b := range s.bindings {
		if b.Group == group && b.Binding == binding {
			return true
		}
	}
	return false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}
