package emit

// Event messages emitted by the submit handler.
const (
	MsgSubmitStart = "submit_start"
	MsgSubmitEnd   = "submit_end"
	MsgSubmitError = "submit_error"
)

// Event represents an observability event emitted while an activation is
// turned into a request.
type Event struct {
	// ActivationID identifies the activation that produced this event.
	ActivationID string

	// Seq is the 1-indexed order in which the handler saw the activation.
	// Requests may complete out of Seq order.
	Seq int

	// Path is the request target, always the entry endpoint for now.
	Path string

	// Msg names the event (see the Msg constants).
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "status_code": HTTP status of the response
	//   - "duration_ms": time from dispatch to response
	//   - "error": error text for failed submissions
	Meta map[string]interface{}
}
