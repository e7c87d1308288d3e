package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindNetwork       ErrorKind = "network"
	KindData          ErrorKind = "data"
)

// RunError is the one failure type every protocol entry point returns.
type RunError struct {
	Kind   ErrorKind `json:"kind"`
	Reason string    `json:"reason"`
	cause  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Kind, e.Reason)
}

func (e *RunError) Unwrap() error {
	return e.cause
}

func (e *RunError) HTTPStatus() int {
	switch e.Kind {
	case KindNetwork:
		return http.StatusBadGateway
	case KindData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func newRunError(kind ErrorKind, cause error, format string, args ...interface{}) *RunError {
	reason := fmt.Sprintf(format, args...)
	if cause != nil {
		reason = errors.Wrap(cause, reason).Error()
	}
	return &RunError{Kind: kind, Reason: reason, cause: cause}
}

func networkError(cause error, format string, args ...interface{}) *RunError {
	return newRunError(KindNetwork, cause, format, args...)
}

func dataError(cause error, format string, args ...interface{}) *RunError {
	return newRunError(KindData, cause, format, args...)
}

func configError(format string, args ...interface{}) *RunError {
	return newRunError(KindConfiguration, nil, format, args...)
}

// AsRunError classifies any error. Deadlines and cancellations count as
// network failures; anything else unclassified is a data failure.
func AsRunError(err error) *RunError {
	if err == nil {
		return nil
	}
	var re *RunError
	if errors.As(err, &re) {
		return re
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return networkError(err, "round trip did not complete")
	}
	return dataError(err, "protocol run failed")
}

func IsKind(err error, kind ErrorKind) bool {
	var re *RunError
	return errors.As(err, &re) && re.Kind == kind
}
