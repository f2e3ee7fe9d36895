package emit

// NullEmitter discards all events. It is the handler default, which keeps the
// silent behaviour of a plain fire-and-forget submit.
type NullEmitter struct{}

// NewNullEmitter creates a new NullEmitter.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(event Event) {}
