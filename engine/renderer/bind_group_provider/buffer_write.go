package bind_group_provider

// BufferWrite describes a single queued GPU buffer write targeting a binding on a BindGroupProvider.
// A Binding of -1 addresses the provider's vertex buffer.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// VertexBinding is the BufferWrite binding value that addresses a provider's vertex buffer.
const VertexBinding = -1
