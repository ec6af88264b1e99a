// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"errors"
	"fmt"
)

// ErrWouldBlock is returned by ReadFrame when the byte source has no byte
// available yet. It is not a failure: the decoder keeps all accumulated
// state and the next ReadFrame call resumes exactly where this one left off.
var ErrWouldBlock = errors.New("rdm6300: no byte available")

// DecodeErrorKind identifies which protocol rule a frame violated.
type DecodeErrorKind int

const (
	KindInvalidHead DecodeErrorKind = iota
	KindInvalidTail
	KindInvalidData
	KindInvalidChecksum
)

// String returns the human-readable name for the error kind
func (k DecodeErrorKind) String() string {
	switch k {
	case KindInvalidHead:
		return "invalid head marker"
	case KindInvalidTail:
		return "invalid tail marker"
	case KindInvalidData:
		return "invalid hex data"
	case KindInvalidChecksum:
		return "checksum mismatch"
	default:
		return fmt.Sprintf("unknown kind %d", int(k))
	}
}

// DecodeError reports a malformed frame. It is frame-scoped: the decoder is
// ready for a fresh frame as soon as the error is returned.
type DecodeError struct {
	Kind DecodeErrorKind
}

func (e *DecodeError) Error() string {
	return "rdm6300: " + e.Kind.String()
}

// SourceError wraps a hard error from the byte source, as opposed to a
// malformed frame. Callers that get a SourceError should look at the link;
// callers that get a DecodeError should just try the next frame.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("rdm6300: source: %v", e.Err)
}

// Unwrap exposes the underlying transport error
func (e *SourceError) Unwrap() error {
	return e.Err
}
