// Package xerrors defines the three-kind error surface the streaming core
// reports to its transport, replacing the teacher's legacy errs package
// (not carried in this module) with plain wrapped Go errors.
package xerrors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a StreamError for the transport layer. There are exactly
// two error kinds in the core; "transient data gap" is deliberately absent
// here because it is not an error at all — see stream/cursor_producer.go.
type Kind int

const (
	// KindInvalidRequest means the client's configuration cannot be
	// served, e.g. a starting cursor that no longer resolves to anything.
	// It always terminates the subscription.
	KindInvalidRequest Kind = iota
	// KindInternal means storage or the batch producer failed. It always
	// terminates the subscription.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// StreamError is the error type returned by every operation in the stream
// package that can terminate a subscription.
type StreamError struct {
	Kind Kind
	msg  string
	err  error
}

func (e *StreamError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *StreamError) Unwrap() error {
	return e.err
}

// InvalidRequest builds a client-facing configuration error.
func InvalidRequest(msg string) *StreamError {
	return &StreamError{Kind: KindInvalidRequest, msg: msg}
}

// Internal wraps a storage or batch-producer failure.
func Internal(err error) *StreamError {
	return &StreamError{Kind: KindInternal, msg: "internal error", err: err}
}

// Internalf wraps a storage or batch-producer failure with additional
// context, analogous to fmt.Errorf("...: %w", err).
func Internalf(format string, args ...any) *StreamError {
	return &StreamError{Kind: KindInternal, msg: "internal error", err: fmt.Errorf(format, args...)}
}

// Is reports whether err is a *StreamError of the given kind.
func Is(err error, kind Kind) bool {
	var se *StreamError
	if !errors.As(err, &se) {
		return false
	}
	return se.Kind == kind
}

// GRPCStatus lets a gRPC transport translate a StreamError via
// status.FromError without this package importing a transport framework
// beyond the status/codes vocabulary.
func (e *StreamError) GRPCStatus() *status.Status {
	switch e.Kind {
	case KindInvalidRequest:
		return status.New(codes.InvalidArgument, e.Error())
	default:
		return status.New(codes.Internal, e.Error())
	}
}
