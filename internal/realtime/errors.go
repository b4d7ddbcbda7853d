// Package realtime fetches live grounding facts (weather, news) for scenario generation.
package realtime

import (
	"context"
	"errors"
	"fmt"
)

// FetchError is a failed call to a real-time source.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := "upstream unavailable: " + e.Source
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status=%d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) ErrorCode() string { return "upstream_unavailable" }

func (e *FetchError) Timeout() bool { return errors.Is(e.Err, context.DeadlineExceeded) }
