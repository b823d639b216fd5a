package batch

// Stats describes the most recent Build.
type Stats struct {
	Requests int
	Groups   int
	// Largest is the instance count of the biggest group.
	Largest int
}

// batcher is the unexported implementation of Batcher.
type batcher struct {
	index map[Key]int
	stats Stats
}

// Batcher builds draw groups frame after frame, reusing its key index between frames.
// A Batcher is used from the frame loop only and is not safe for concurrent use.
type Batcher interface {
	// Build groups requests the same way as the package-level Build.
	//
	// Parameters:
	//   - requests: the frame's draw requests
	//
	// Returns:
	//   - []Group: one group per distinct key
	Build(requests []DrawRequest) []Group

	// Stats returns statistics for the most recent Build.
	//
	// Returns:
	//   - Stats: request, group and largest-group counts
	Stats() Stats
}

var _ Batcher = &batcher{}

// NewBatcher creates a Batcher.
//
// Returns:
//   - Batcher: a new batcher with an empty key index
func NewBatcher() Batcher {
	return &batcher{index: make(map[Key]int)}
}

func (b *batcher) Build(requests []DrawRequest) []Group {
	clear(b.index)
	groups := build(requests, b.index)

	b.stats = Stats{Requests: len(requests), Groups: len(groups)}
	for _, g := range groups {
		if len(g.Transforms) > b.stats.Largest {
			b.stats.Largest = len(g.Transforms)
		}
	}
	return groups
}

func (b *batcher) Stats() Stats {
	return b.stats
}
