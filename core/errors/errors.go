package errors

import "errors"

// Kind discriminates protocol failure classes by value rather than by
// concrete error type, so discrimination survives wrapping and mocking
// boundaries.
type Kind string

const (
	KindSignout             Kind = "signout"
	KindFingerprintMismatch Kind = "fingerprint_mismatch"
	KindProcessorStepMaxRc  Kind = "processor_step_max_rc"
	KindInvalidLocator      Kind = "invalid_locator"
	KindGeneric             Kind = "generic"
)

type protocolError struct {
	kind    Kind
	element string
	message string
	cause   error
}

func (e *protocolError) Error() string {
	if e.message != "" {
		return e.message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "unknown error"
}

func (e *protocolError) Unwrap() error {
	return e.cause
}

func (e *protocolError) Kind() Kind {
	return e.kind
}

func (e *protocolError) Element() string {
	return e.element
}

// New builds a protocol error of the given kind for an element.
func New(kind Kind, element string, message string) error {
	return &protocolError{kind: kind, element: element, message: message}
}

// Wrap classifies an underlying cause. A nil cause yields nil.
func Wrap(cause error, kind Kind, element string, message string) error {
	if cause == nil {
		return nil
	}
	return &protocolError{kind: kind, element: element, message: message, cause: cause}
}

func Signout(element string, message string) error {
	return New(KindSignout, element, message)
}

func FingerprintMismatch(element string, message string) error {
	return New(KindFingerprintMismatch, element, message)
}

func ProcessorStepMaxRc(element string, message string) error {
	return New(KindProcessorStepMaxRc, element, message)
}

func InvalidLocator(message string) error {
	return New(KindInvalidLocator, "", message)
}

// KindOf reports the protocol kind of err, KindGeneric for foreign and
// unclassified errors, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var classified *protocolError
	if errors.As(err, &classified) {
		return classified.kind
	}
	return KindGeneric
}

// ElementOf returns the element name attached to err, if any.
func ElementOf(err error) string {
	var classified *protocolError
	if errors.As(err, &classified) {
		return classified.element
	}
	return ""
}

func IsSignout(err error) bool {
	return KindOf(err) == KindSignout
}

func IsFingerprintMismatch(err error) bool {
	return KindOf(err) == KindFingerprintMismatch
}

// IsProcessorStepMaxRc reports whether err is a processor return-code
// overflow, which callers treat as a committed result.
func IsProcessorStepMaxRc(err error) bool {
	return KindOf(err) == KindProcessorStepMaxRc
}

func IsInvalidLocator(err error) bool {
	return KindOf(err) == KindInvalidLocator
}
