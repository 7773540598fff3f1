package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so every boundary maps them the same way.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindUpstream
	KindGeneration
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindGeneration:
		return "generation"
	default:
		return "internal"
	}
}

// Error carries a kind, a caller-safe message and the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// UpstreamError hides storage details behind a generic message.
func UpstreamError(err error) *Error {
	return &Error{Kind: KindUpstream, Message: "Internal server error", Err: err}
}

// GenerationError names the artifact that could not be packaged.
func GenerationError(artifact string, err error) *Error {
	return &Error{Kind: KindGeneration, Message: fmt.Sprintf("Failed to generate %s report", artifact), Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
