package engine

import (
	"context"
	"errors"
	"fmt"
)

// UpstreamError is any failure talking to the LLM provider: transport errors,
// timeouts, non-2xx responses and empty completions.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "upstream unavailable"
	}
	msg := fmt.Sprintf("upstream unavailable: provider=%s", e.Provider)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status=%d", e.StatusCode)
	}
	if e.Body != "" {
		msg += " body=" + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) ErrorCode() string { return "upstream_unavailable" }

// Timeout reports whether the call ran out of time.
func (e *UpstreamError) Timeout() bool {
	return e != nil && errors.Is(e.Err, context.DeadlineExceeded)
}

// Upstream wraps err unless it already is an UpstreamError.
func Upstream(provider string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Provider: provider, Err: err}
}

// ErrEmptyCompletion is returned when the provider answers with no text.
var ErrEmptyCompletion = errors.New("empty upstream completion")

const maxErrorBody = 512

// TruncateBody keeps error bodies short enough for logs.
func TruncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
