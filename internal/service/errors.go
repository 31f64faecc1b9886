package service

import (
	"errors"
	"github.com/stripe/stripe-go/v79"
)

type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindValidation    ErrorKind = "validation"
	KindUpstream      ErrorKind = "upstream"
	KindSignature     ErrorKind = "signature"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrUpstream      = &Error{Kind: KindUpstream}
	ErrSignature     = &Error{Kind: KindSignature}
)

// Error is returned by every checkout, webhook and revenue operation. Message is the
// user-facing text; for upstream failures it is the provider's own message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}

func newConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

func newValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func newSignatureError(err error) *Error {
	return &Error{Kind: KindSignature, Message: err.Error(), Err: err}
}

func newUpstreamError(err error, fallback string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	upstream := &Error{Kind: KindUpstream, Message: fallback, Err: err}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		upstream.Code = string(stripeErr.Code)
		if stripeErr.Msg != "" {
			upstream.Message = stripeErr.Msg
		}
		return upstream
	}

	if msg := err.Error(); msg != "" {
		upstream.Message = msg
	}

	return upstream
}
