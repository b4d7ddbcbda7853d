package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(err error) *Error {
	return New(http.StatusBadRequest, "invalid_request", err)
}

// Coded is implemented by domain errors that carry a stable machine-readable code.
type Coded interface {
	error
	ErrorCode() string
}

// FromCore maps an error returned by the core pipeline to an API error.
// An *Error anywhere in the chain wins; otherwise every core failure is a 500
// whose code comes from the first Coded error in the chain.
func FromCore(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := "internal_error"
	var coded Coded
	if errors.As(err, &coded) {
		code = coded.ErrorCode()
	}
	return New(http.StatusInternalServerError, code, err)
}
