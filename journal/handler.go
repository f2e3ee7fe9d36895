package journal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/journal-go/journal/emit"
)

// EntryPath is the fixed request target, resolved against the server URL.
const EntryPath = "/new_entry"

// ContentTypeJSON is the Content-Type of every submission.
const ContentTypeJSON = "application/json"

// Handler turns activations into POST /new_entry requests.
//
// A Handler holds no per-activation state: every activation is an independent
// unit of work. Concurrent activations are neither serialized nor
// deduplicated, and their requests may complete in any order. There is no
// retry and no timeout beyond the caller's context.
//
// Handler is safe for concurrent use.
type Handler struct {
	endpoint string
	client   *http.Client
	emitter  emit.Emitter
	metrics  *PrometheusMetrics
	headers  http.Header
	newID    func() string

	seq atomic.Int64
}

// New creates a Handler that submits entries to serverURL + EntryPath.
//
// serverURL must be an absolute http or https URL. Like a relative fetch in a
// page, EntryPath replaces any path already present on serverURL.
func New(serverURL string, opts ...Option) (*Handler, error) {
	endpoint, err := resolveEndpoint(serverURL)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	return &Handler{
		endpoint: endpoint,
		client:   cfg.client,
		emitter:  cfg.emitter,
		metrics:  cfg.metrics,
		headers:  cfg.headers,
		newID:    cfg.newID,
	}, nil
}

// Endpoint returns the absolute URL requests are sent to.
func (h *Handler) Endpoint() string {
	return h.endpoint
}

// Submit sends one request for act and waits for the response.
//
// The response body is drained and discarded without being inspected. A
// transport failure or a non-2xx status is returned as a *RequestError
// matching ErrRequestFailed.
func (h *Handler) Submit(ctx context.Context, act Activation) error {
	if act.ID == "" {
		act.ID = h.newID()
	}
	return h.dispatch(ctx, act, h.nextSeq())
}

// Bind subscribes h to trig and submits every activation fire-and-forget.
//
// Each activation is dispatched on its own goroutine with the field values it
// carried when it fired. Outcomes are not returned to the trigger; they are
// visible only through the configured emitter and metrics. Bind returns the
// trigger's Listen error once the trigger has stopped and every request it
// started has finished. Cancelling ctx stops the trigger and aborts requests
// still in flight. Activations fired after Listen has returned are dropped.
func (h *Handler) Bind(ctx context.Context, trig Trigger) error {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		stopped bool
	)

	err := trig.Listen(ctx, func(act Activation) {
		mu.Lock()
		if stopped {
			mu.Unlock()
			return
		}
		wg.Add(1)
		mu.Unlock()

		if act.ID == "" {
			act.ID = h.newID()
		}
		seq := h.nextSeq()

		go func() {
			defer wg.Done()
			_ = h.dispatch(ctx, act, seq)
		}()
	})

	mu.Lock()
	stopped = true
	mu.Unlock()

	wg.Wait()
	return err
}

func (h *Handler) nextSeq() int {
	return int(h.seq.Add(1))
}

func (h *Handler) dispatch(ctx context.Context, act Activation, seq int) error {
	event := emit.Event{ActivationID: act.ID, Seq: seq, Path: EntryPath}

	h.emit(event, emit.MsgSubmitStart, nil)
	done := h.metrics.StartInflight()
	defer done()

	start := time.Now()
	statusCode, err := h.send(ctx, act.Submission())
	elapsed := time.Since(start)

	if err != nil {
		meta := map[string]interface{}{
			"error":       err.Error(),
			"duration_ms": elapsed.Milliseconds(),
		}
		if statusCode != 0 {
			meta["status_code"] = statusCode
		}
		h.emit(event, emit.MsgSubmitError, meta)
		h.metrics.RecordSubmission(StatusError, elapsed)
		return err
	}

	h.emit(event, emit.MsgSubmitEnd, map[string]interface{}{
		"status_code": statusCode,
		"duration_ms": elapsed.Milliseconds(),
	})
	h.metrics.RecordSubmission(StatusSuccess, elapsed)
	return nil
}

// send issues the request and returns the response status code.
func (h *Handler) send(ctx context.Context, sub Submission) (int, error) {
	body, err := sub.Encode()
	if err != nil {
		return 0, &RequestError{Op: OpEncode, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, &RequestError{Op: OpBuild, Err: err}
	}
	for key, values := range h.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", ContentTypeJSON)

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, &RequestError{Op: OpSend, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused; the content is never looked at.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &RequestError{Op: OpStatus, StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

func (h *Handler) emit(base emit.Event, msg string, meta map[string]interface{}) {
	base.Msg = msg
	base.Meta = meta
	h.emitter.Emit(base)
}

func resolveEndpoint(serverURL string) (string, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidServerURL, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) url", ErrInvalidServerURL, serverURL)
	}
	return base.ResolveReference(&url.URL{Path: EntryPath}).String(), nil
}
