package trigger

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dshills/journal-go/journal"
)

// Default prompts written by Form.
const (
	DefaultTitlePrompt = "title: "
	DefaultTextPrompt  = "text: "
)

// Form is a line-oriented terminal form. It reads a title line then a text
// line, and fires one activation per completed pair. A pair cut short by EOF
// is dropped.
type Form struct {
	in  io.Reader
	out io.Writer

	TitlePrompt string
	TextPrompt  string
}

// NewForm creates a Form reading from in and prompting on out. A nil out
// disables prompts.
func NewForm(in io.Reader, out io.Writer) *Form {
	if out == nil {
		out = io.Discard
	}
	return &Form{
		in:          in,
		out:         out,
		TitlePrompt: DefaultTitlePrompt,
		TextPrompt:  DefaultTextPrompt,
	}
}

// Listen reads entries until EOF (nil), a read error, or ctx is done
// (ctx.Err()). Cancellation returns immediately even while a read is
// pending; the pending read is abandoned and its line, if any, is dropped.
func (f *Form) Listen(ctx context.Context, fire func(journal.Activation)) error {
	lines, errc := f.readLines(ctx)

	for {
		title, ok, err := f.field(ctx, lines, errc, f.TitlePrompt)
		if !ok {
			return err
		}
		text, ok, err := f.field(ctx, lines, errc, f.TextPrompt)
		if !ok {
			return err
		}
		fire(journal.Activation{Title: title, Text: text})
	}
}

// readLines scans f.in on its own goroutine. lines is closed at EOF or on a
// read error, after the scanner error has been sent on errc.
func (f *Form) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(f.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func (f *Form) field(ctx context.Context, lines <-chan string, errc <-chan error, prompt string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	fmt.Fprint(f.out, prompt)

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", false, <-errc
		}
		return line, true, nil
	}
}
