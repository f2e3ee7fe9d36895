package trigger

import (
	"context"

	"github.com/dshills/journal-go/journal"
)

// Once returns a trigger that fires a single activation and stops.
func Once(title, text string) journal.Trigger {
	return Activations(journal.Activation{Title: title, Text: text})
}

// Activations returns a trigger that fires acts in order and stops.
func Activations(acts ...journal.Activation) journal.Trigger {
	return journal.TriggerFunc(func(ctx context.Context, fire func(journal.Activation)) error {
		for _, act := range acts {
			if err := ctx.Err(); err != nil {
				return err
			}
			fire(act)
		}
		return nil
	})
}
