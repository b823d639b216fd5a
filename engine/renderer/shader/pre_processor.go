// pre_processor.go implements the WGSL pre-processor. It replaces `@oxy:include <name>` comment
// lines with WGSL struct sources registered by the packages that own the matching Go types, so the
// Go-side byte layout and the WGSL declaration live next to each other.
package shader

import (
	"fmt"
	"strings"
)

const annotationPrefix = "@oxy:"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// includes maps include names to their WGSL source.
	includes map[string]string
}

// PreProcessor resolves include annotations in WGSL source.
type PreProcessor interface {
	// Register adds or replaces an include.
	//
	// Parameters:
	//   - name: the include name used in `@oxy:include <name>`
	//   - source: the WGSL text to inject
	Register(name, source string)

	// Process replaces every include annotation line with its registered source.
	// Lines without an annotation pass through unchanged.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL source code
	//   - error: an error if an annotation is malformed or names an unregistered include
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with no registered includes.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{includes: make(map[string]string)}
}

func (p *preProcessor) Register(name, source string) {
	p.includes[name] = source
}

func (p *preProcessor) Process(source string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		args := strings.Fields(after)
		if len(args) != 2 || args[0] != "include" {
			return "", fmt.Errorf("line %d: malformed annotation %q, want @oxy:include <name>", i+1, strings.TrimSpace(line))
		}
		src, ok := p.includes[args[1]]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, args[1])
		}
		out = append(out, strings.TrimRight(src, "\n"))
	}
	return strings.Join(out, "\n"), nil
}
