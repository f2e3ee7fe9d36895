package journal

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dshills/journal-go/journal/emit"
)

// Option is a functional option for configuring a Handler.
//
// Example:
//
//	h, err := journal.New("http://127.0.0.1:3000",
//	    journal.WithEmitter(emit.NewLogEmitter(os.Stderr, false)),
//	    journal.WithMetrics(journal.NewPrometheusMetrics(registry)),
//	)
type Option func(*handlerConfig) error

type handlerConfig struct {
	client  *http.Client
	emitter emit.Emitter
	metrics *PrometheusMetrics
	headers http.Header
	newID   func() string
}

func defaultConfig() handlerConfig {
	return handlerConfig{
		// No client timeout: a hung request is bounded only by the caller's context.
		client:  &http.Client{},
		emitter: emit.NewNullEmitter(),
		headers: make(http.Header),
		newID:   uuid.NewString,
	}
}

// WithHTTPClient sets the client used to send requests.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *handlerConfig) error {
		if client == nil {
			return errors.New("http client must not be nil")
		}
		cfg.client = client
		return nil
	}
}

// WithEmitter sets where submission events go. Default: discarded.
func WithEmitter(emitter emit.Emitter) Option {
	return func(cfg *handlerConfig) error {
		if emitter == nil {
			emitter = emit.NewNullEmitter()
		}
		cfg.emitter = emitter
		return nil
	}
}

// WithMetrics enables Prometheus metrics for submissions.
func WithMetrics(metrics *PrometheusMetrics) Option {
	return func(cfg *handlerConfig) error {
		cfg.metrics = metrics
		return nil
	}
}

// WithHeader adds a static header to every request. Content-Type is fixed to
// application/json and cannot be set here.
func WithHeader(key, value string) Option {
	return func(cfg *handlerConfig) error {
		if http.CanonicalHeaderKey(key) == "Content-Type" {
			return errors.New("content-type header is fixed")
		}
		cfg.headers.Add(key, value)
		return nil
	}
}

// WithIDGenerator replaces the activation ID generator (default: random UUIDs).
func WithIDGenerator(newID func() string) Option {
	return func(cfg *handlerConfig) error {
		if newID == nil {
			return errors.New("id generator must not be nil")
		}
		cfg.newID = newID
		return nil
	}
}
