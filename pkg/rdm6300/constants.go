// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

// Package rdm6300 decodes tag frames emitted by RDM6300-class 125 kHz RFID
// readers.
//
// The reader transmits one fixed 14-byte frame per tag scan over a 9600 baud
// serial link: a head marker, ten ASCII hex characters carrying the 5-byte
// tag id, two ASCII hex characters carrying an XOR checksum, and a tail
// marker. This package provides the incremental frame decoder, the matching
// encoder, and tag event formatting.
package rdm6300

// Frame markers
const (
	Head = 0x02
	Tail = 0x03
)

// Frame layout
const (
	FrameLength    = 14 // head + body + tail
	BodyLength     = 12 // 10 payload hex chars + 2 checksum hex chars
	ChecksumLength = 2  // hex chars encoding the checksum byte
	TagLength      = 5  // raw tag id bytes
)

// Decoder states (internal)
const (
	stateAwaitHead = iota
	stateReadBody
	stateAwaitTail
)
