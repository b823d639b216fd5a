package shader

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithInclude registers WGSL source that replaces `// @oxy:include <name>` lines.
//
// Parameters:
//   - name: the include name
//   - source: the WGSL text to inject
//
// Returns:
//   - ShaderBuilderOption: a function that registers the include
func WithInclude(name, source string) ShaderBuilderOption {
	return func(s *shader) {
		s.pp.Register(name, source)
	}
}
