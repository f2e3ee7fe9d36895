package journal

import "context"

// Activation is one user-initiated trigger of a submission.
//
// The trigger delivers the current field values with the activation, so the
// handler never reads shared UI state: what was in the fields at the moment
// of activation is what gets sent.
type Activation struct {
	// ID identifies the activation in events. The handler assigns one when
	// empty.
	ID string

	Title string
	Text  string
}

// Submission returns the payload for this activation.
func (a Activation) Submission() Submission {
	return NewSubmission(a.Title, a.Text)
}

// Trigger is a source of activations.
//
// Listen calls fire once per activation, in activation order, and returns
// when the source is exhausted (nil) or ctx is done (ctx.Err()). fire must
// not be called after Listen returns; Handler.Bind drops such late calls.
// fire does not block for long: Handler.Bind hands each activation off to its
// own goroutine.
type Trigger interface {
	Listen(ctx context.Context, fire func(Activation)) error
}

// TriggerFunc adapts an ordinary function to the Trigger interface.
type TriggerFunc func(ctx context.Context, fire func(Activation)) error

// Listen calls f(ctx, fire).
func (f TriggerFunc) Listen(ctx context.Context, fire func(Activation)) error {
	return f(ctx, fire)
}
