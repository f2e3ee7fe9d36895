package emit

import "sync"

// BufferedEmitter stores events in memory, grouped by activation.
//
// It backs tests and debugging sessions where the outcome of background
// submissions has to be inspected after the fact. Nothing is ever evicted,
// so long-running processes should call Clear.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event // activationID -> events
	order  []Event
}

// HistoryFilter narrows a history query. Zero fields do not filter.
type HistoryFilter struct {
	Msg    string // Filter by message (empty = no filter)
	MinSeq *int   // Minimum sequence number (nil = no filter)
	MaxSeq *int   // Maximum sequence number (nil = no filter)
}

// NewBufferedEmitter creates a new BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{
		events: make(map[string][]Event),
	}
}

// Emit stores an event in the buffer.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events[event.ActivationID] = append(b.events[event.ActivationID], event)
	b.order = append(b.order, event)
}

// GetHistory returns a copy of the events for one activation in emit order.
func (b *BufferedEmitter) GetHistory(activationID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events := b.events[activationID]
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// All returns a copy of every event across activations in emit order.
func (b *BufferedEmitter) All() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, len(b.order))
	copy(out, b.order)
	return out
}

// Filter returns all events matching filter, in emit order.
func (b *BufferedEmitter) Filter(filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, e := range b.order {
		if matchesFilter(e, filter) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of stored events carrying msg.
func (b *BufferedEmitter) Count(msg string) int {
	return len(b.Filter(HistoryFilter{Msg: msg}))
}

// Clear removes the events of one activation, or all events when
// activationID is empty.
func (b *BufferedEmitter) Clear(activationID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if activationID == "" {
		b.events = make(map[string][]Event)
		b.order = nil
		return
	}

	delete(b.events, activationID)
	kept := b.order[:0]
	for _, e := range b.order {
		if e.ActivationID != activationID {
			kept = append(kept, e)
		}
	}
	b.order = kept
}

func matchesFilter(event Event, filter HistoryFilter) bool {
	if filter.Msg != "" && event.Msg != filter.Msg {
		return false
	}
	if filter.MinSeq != nil && event.Seq < *filter.MinSeq {
		return false
	}
	if filter.MaxSeq != nil && event.Seq > *filter.MaxSeq {
		return false
	}
	return true
}
