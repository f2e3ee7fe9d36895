// Package journal submits journal entries to a journal server.
//
// A Handler turns each activation of a Trigger (a save button click, a line
// read from a terminal form) into exactly one POST /new_entry request whose
// JSON body carries the entry title and text captured at activation time.
package journal

import (
	"bytes"
	"encoding/json"
)

// Submission is the payload of one POST /new_entry request.
//
// It is built fresh for every activation and discarded once the request has
// been dispatched. Both fields may be empty; nothing is validated.
type Submission struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// NewSubmission captures title and text into a Submission.
func NewSubmission(title, text string) Submission {
	return Submission{Title: title, Text: text}
}

// Encode serializes s as a single JSON object with keys "title" then "text".
//
// HTML characters are not escaped, so the body is byte-for-byte what a
// browser's JSON.stringify would produce for the same strings.
func (s Submission) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
