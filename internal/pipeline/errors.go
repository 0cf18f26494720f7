package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingURL rejects requests without a source URL.
var ErrMissingURL = errors.New("video_url required")

// timeoutMessage is the user-facing text for any bounded-stage timeout.
const timeoutMessage = "Processing timeout"

// Kind categorizes a failed request.
type Kind string

const (
	KindValidation           Kind = "validation_error"
	KindAcquisitionTimeout   Kind = "acquisition_timeout"
	KindAcquisitionError     Kind = "acquisition_error"
	KindNormalizationTimeout Kind = "normalization_timeout"
	KindNormalizationError   Kind = "normalization_error"
	KindClassificationError  Kind = "classification_error"
	KindInternal             Kind = "internal_error"
)

// IsTimeout reports whether k is a bounded-stage timeout.
func (k Kind) IsTimeout() bool {
	return k == KindAcquisitionTimeout || k == KindNormalizationTimeout
}

// HTTPStatus maps k to the response status code.
func (k Kind) HTTPStatus() int {
	switch {
	case k == KindValidation:
		return http.StatusBadRequest
	case k.IsTimeout():
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure of one request, tagged with the stage it happened in.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the text placed in the response's error field.
func (e *Error) Message() string {
	switch {
	case e.Kind.IsTimeout():
		return timeoutMessage
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

// KindOf returns the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// AsError returns err as an *Error, wrapping uncategorized errors as internal.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: KindInternal, Stage: StageFailed, Err: err}
}
