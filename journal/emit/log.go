package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// LogEmitter implements Emitter by writing one log line per event.
//
// Supports two output modes:
//   - Text mode (default): Human-readable format with key=value pairs
//   - JSON mode: Machine-readable JSON format, one event per line
//
// Example text output:
//
//	[submit_end] activationID=7c9e... seq=1 path=/new_entry meta={"status_code":201}
//
// Example JSON output:
//
//	{"activationID":"7c9e...","seq":1,"path":"/new_entry","msg":"submit_end","meta":{"status_code":201}}
//
// Each line is written with a single Write call under a lock, so lines from
// concurrent submissions never interleave.
type LogEmitter struct {
	mu       sync.Mutex
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter creates a new LogEmitter. A nil writer means os.Stdout.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	return &LogEmitter{
		writer:   writer,
		jsonMode: jsonMode,
	}
}

// Emit writes an event to the configured writer.
func (l *LogEmitter) Emit(event Event) {
	var buf bytes.Buffer
	if l.jsonMode {
		formatJSON(&buf, event)
	} else {
		formatText(&buf, event)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(buf.Bytes())
}

func formatJSON(buf *bytes.Buffer, event Event) {
	data, err := json.Marshal(struct {
		ActivationID string                 `json:"activationID"`
		Seq          int                    `json:"seq"`
		Path         string                 `json:"path"`
		Msg          string                 `json:"msg"`
		Meta         map[string]interface{} `json:"meta"`
	}{
		ActivationID: event.ActivationID,
		Seq:          event.Seq,
		Path:         event.Path,
		Msg:          event.Msg,
		Meta:         event.Meta,
	})
	if err != nil {
		fmt.Fprintf(buf, "{\"error\":%q}\n", "failed to marshal event: "+err.Error())
		return
	}
	buf.Write(data)
	buf.WriteByte('\n')
}

// formatText renders [msg] activationID=xxx seq=N path=/p [meta=...].
func formatText(buf *bytes.Buffer, event Event) {
	fmt.Fprintf(buf, "[%s] activationID=%s seq=%d path=%s",
		event.Msg, event.ActivationID, event.Seq, event.Path)

	if len(event.Meta) > 0 {
		metaJSON, err := json.Marshal(event.Meta)
		if err == nil {
			fmt.Fprintf(buf, " meta=%s", metaJSON)
		} else {
			fmt.Fprintf(buf, " meta=%v", event.Meta)
		}
	}

	buf.WriteByte('\n')
}
