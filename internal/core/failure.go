package core

import (
	"errors"
	"fmt"
)

// FailureKind classifies an error at the point it becomes user-visible.
type FailureKind string

const (
	// FailureTransport covers attachment fetch and generation API errors.
	FailureTransport FailureKind = "transport"
	// FailureUnsupported means every attachment was rejected by classification.
	FailureUnsupported FailureKind = "unsupported"
	// FailureTooLarge means the platform rejected a reply for its size.
	FailureTooLarge FailureKind = "too_large"
	// FailureNormalization means persisted history could not be converted.
	FailureNormalization FailureKind = "normalization"
	// FailureCommand covers slash-command handling errors.
	FailureCommand FailureKind = "command"
)

type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func NewFailure(kind FailureKind, err error) error {
	return &Failure{Kind: kind, Err: err}
}

func Failuref(kind FailureKind, format string, args ...any) error {
	return &Failure{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report as transport failures, the broadest bucket.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureTransport
}
