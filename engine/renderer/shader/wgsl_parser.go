package shader

import (
	"regexp"
	"strconv"
	"strings"
)

// Binding is one resource declaration found in WGSL source.
type Binding struct {
	Group   int
	Binding int
	// Name is the WGSL variable name.
	Name string
	// Type is the declared WGSL type, e.g. "texture_2d<f32>" or "CameraUniform".
	Type string
}

var (
	// vertexEntryRegex matches the function name following a @vertex attribute.
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches the function name following a @fragment attribute.
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex matches `@group(N) @binding(M) var<...> name: type;`.
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<[^>]*>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	lineCommentRegex  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// stripComments removes line and block comments so annotations inside comments are not matched.
func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

// parseEntryPoint returns the entry point function name for a stage, or "".
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseBindings returns every @group/@binding declaration in source order.
func parseBindings(source string) []Binding {
	var out []Binding
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		out = append(out, Binding{
			Group:   group,
			Binding: binding,
			Name:    m[3],
			Type:    strings.TrimSpace(m[4]),
		})
	}
	return out
}
