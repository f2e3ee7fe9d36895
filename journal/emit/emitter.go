// Package emit carries observability events out of the entry submitter.
package emit

// Emitter receives and processes observability events from submissions.
//
// Emitters make the outcome of fire-and-forget submissions visible:
//   - Logging: stdout, files
//   - Distributed tracing: OpenTelemetry
//   - Testing: in-memory history
//
// Implementations must be safe for concurrent use: overlapping activations
// emit from their own goroutines. Emit should not block for long and must
// not panic.
type Emitter interface {
	Emit(event Event)
}

// MultiEmitter fans every event out to a fixed list of emitters, in order.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter returns an emitter that forwards to each non-nil emitter.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	m := &MultiEmitter{}
	for _, e := range emitters {
		if e != nil {
			m.emitters = append(m.emitters, e)
		}
	}
	return m
}

// Emit forwards event to every wrapped emitter.
func (m *MultiEmitter) Emit(event Event) {
	for _, e := range m.emitters {
		e.Emit(event)
	}
}
