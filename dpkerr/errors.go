// Package dpkerr defines the closed error taxonomy shared by the DataPak
// reader and writer. Every failure the engine can report is one of the
// Kind values declared here; callers compare against them with Is
// instead of matching error strings.
package dpkerr

import (
	"errors"
	"fmt"
)

// Kind is one of the closed set of archive-level failure categories.
type Kind int

const (
	// BadSignature means the file does not begin with the expected 8 bytes.
	BadSignature Kind = iota + 1
	// BadChecksum means the header CRC32 trailer, or a per-file digest,
	// did not match.
	BadChecksum
	// UnsupportedAccessMode means SeekTo was called on an archive that
	// does not support random access.
	UnsupportedAccessMode
	// Compression means a codec reported an error, including a failed
	// dictionary load.
	Compression
	// UnknownCompressionExtension means the compMethod tag on the header
	// is not one of the recognized values.
	UnknownCompressionExtension
	// UnexpectedEof means the stream ended before an expected record
	// finished.
	UnexpectedEof
)

func (k Kind) String() string {
	switch k {
	case BadSignature:
		return "bad signature"
	case BadChecksum:
		return "bad checksum"
	case UnsupportedAccessMode:
		return "unsupported access mode"
	case Compression:
		return "compression error"
	case UnknownCompressionExtension:
		return "unknown compression extension"
	case UnexpectedEof:
		return "unexpected eof"
	default:
		return fmt.Sprintf("dpkerr.Kind(%d)", int(k))
	}
}

// Error is the concrete error type returned by the reader and writer. It
// carries a Kind from the closed taxonomy plus an optional wrapped cause
// and a free-form detail string, so dpkerr.Is(err, dpkerr.BadChecksum)
// works regardless of which layer produced it.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Detail == "" && e.Cause == nil {
		return e.Kind.String()
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given Kind with a detail message.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap builds an *Error of the given Kind, annotating cause.
func Wrap(kind Kind, cause error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// Is reports whether err is a *Error of the given Kind anywhere in its
// chain. This is the primary way callers should check DataPak errors:
//
//	if dpkerr.Is(err, dpkerr.BadChecksum) { ... }
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
