// Package trigger provides activation sources for journal.Handler.Bind.
package trigger

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/journal-go/journal"
)

// ErrClosed is returned by Click after the button has been closed.
var ErrClosed = errors.New("trigger closed")

// Button is a programmatic save button. Each Click fires one activation
// carrying the field values passed to it.
//
// Click blocks until the listener has taken the activation, so a nil return
// means the activation was delivered. Listen returns nil after Close.
type Button struct {
	clicks chan journal.Activation
	done   chan struct{}
	once   sync.Once
}

// NewButton creates an open Button.
func NewButton() *Button {
	return &Button{
		clicks: make(chan journal.Activation),
		done:   make(chan struct{}),
	}
}

// Click fires one activation with the given field values.
func (b *Button) Click(title, text string) error {
	return b.ClickContext(context.Background(), title, text)
}

// ClickContext is Click with a bound on how long to wait for the listener.
func (b *Button) ClickContext(ctx context.Context, title, text string) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	act := journal.Activation{Title: title, Text: text}
	select {
	case b.clicks <- act:
		return nil
	case <-b.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the button. It is safe to call more than once.
func (b *Button) Close() {
	b.once.Do(func() { close(b.done) })
}

// Listen delivers clicks to fire until Close or ctx is done.
func (b *Button) Listen(ctx context.Context, fire func(journal.Activation)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.done:
			return nil
		case act := <-b.clicks:
			fire(act)
		}
	}
}
