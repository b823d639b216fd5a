package transform

// ManagerBuilderOption is a functional option used to configure a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithWorkers sets the number of pooled workers used to pack instance data.
// Values below 1 are ignored.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - ManagerBuilderOption: a function that sets the worker count
func WithWorkers(n int) ManagerBuilderOption {
	return func(m *manager) {
		if n >= 1 {
			m.workers = n
		}
	}
}

// WithParallelThreshold sets the group count at which instance packing moves onto the worker pool.
//
// Parameters:
//   - n: minimum number of groups for parallel packing
//
// Returns:
//   - ManagerBuilderOption: a function that sets the threshold
func WithParallelThreshold(n int) ManagerBuilderOption {
	return func(m *manager) {
		m.parallelThreshold = n
	}
}
