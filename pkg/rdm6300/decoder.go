// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"errors"
	"io"
)

// Decoder assembles tag frames one byte at a time from a byte source.
//
// The source's ReadByte may return ErrWouldBlock instead of blocking; the
// decoder then returns ErrWouldBlock from ReadFrame with its state intact,
// and the next call resumes at the same point. Any other source error is
// wrapped in a SourceError and propagated as-is.
//
// A Decoder is bound to one source for its lifetime and must only be polled
// from a single goroutine.
type Decoder struct {
	src    io.ByteReader
	state  int
	buffer [BodyLength]byte
	offset int
}

// NewDecoder creates a decoder reading from src. Opening, configuring, and
// closing the underlying transport is the caller's job; the decoder only
// ever pulls single bytes.
func NewDecoder(src io.ByteReader) *Decoder {
	return &Decoder{src: src, state: stateAwaitHead}
}

// Reset discards any partially assembled frame and waits for a new head
// marker. Safe to call at any time, in any state; calling it twice is the
// same as calling it once.
func (d *Decoder) Reset() {
	d.offset = 0
	d.state = stateAwaitHead
}

// readByte pulls one byte from the source, passing ErrWouldBlock through
// untouched and wrapping anything else as a SourceError.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.src.ReadByte()
	if err != nil {
		if errors.Is(err, ErrWouldBlock) {
			return 0, ErrWouldBlock
		}
		return 0, &SourceError{Err: err}
	}
	return b, nil
}

// fillBody accumulates interior bytes until the buffer holds all of them.
// Resumable: a not-ready or source error leaves the fill count where it is.
func (d *Decoder) fillBody() error {
	for d.offset < BodyLength {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		d.buffer[d.offset] = b
		d.offset++
	}
	return nil
}

// ReadFrame reads one complete frame and returns the decoded tag id.
//
// It returns ErrWouldBlock when the source has nothing buffered yet; call
// again later to resume. A byte that is not the head marker is consumed and
// reported as KindInvalidHead, resynchronizing one byte per call until a
// real head appears. A bad tail discards the frame; bad hex data or a
// checksum mismatch are reported after the frame has been fully consumed.
// After any decode error the decoder is immediately ready for the next
// frame.
func (d *Decoder) ReadFrame() (TagID, error) {
	for {
		switch d.state {
		case stateAwaitHead:
			b, err := d.readByte()
			if err != nil {
				return TagID{}, err
			}
			if b != Head {
				// Still awaiting the head marker: the stray byte is
				// consumed and the next call keeps scanning.
				return TagID{}, &DecodeError{Kind: KindInvalidHead}
			}
			d.state = stateReadBody

		case stateReadBody:
			if err := d.fillBody(); err != nil {
				return TagID{}, err
			}
			d.state = stateAwaitTail

		case stateAwaitTail:
			b, err := d.readByte()
			if err != nil {
				return TagID{}, err
			}
			body := d.buffer
			d.Reset()
			if b != Tail {
				return TagID{}, &DecodeError{Kind: KindInvalidTail}
			}
			return decodeBody(&body)
		}
	}
}
