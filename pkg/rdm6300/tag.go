// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"encoding/binary"
	"fmt"
)

// TagID is the 5-byte identifier carried by one frame. For EM4100-style
// cards byte 0 is the version/customer code and bytes 1-4 are the card
// serial number. Equality is byte-wise; the zero value is the null id.
type TagID [TagLength]byte

// String returns the id as ten uppercase hex characters, the same form the
// reader transmits on the wire.
func (t TagID) String() string {
	return fmt.Sprintf("%X", t[:])
}

// Checksum returns the XOR of all five id bytes, the value carried in the
// frame's checksum field.
func (t TagID) Checksum() byte {
	var sum byte
	for _, b := range t {
		sum ^= b
	}
	return sum
}

// Version returns the version/customer code byte.
func (t TagID) Version() byte {
	return t[0]
}

// CardNumber returns bytes 1-4 as the decimal card number printed on most
// EM4100 cards.
func (t TagID) CardNumber() uint32 {
	return binary.BigEndian.Uint32(t[1:])
}

// IsNull reports an all-zero id, usually a misread rather than a real card.
func (t TagID) IsNull() bool {
	return t == TagID{}
}

// ParseTagID parses a 10-character hex string into a TagID. Accepts upper
// and lower case.
func ParseTagID(s string) (TagID, error) {
	var id TagID
	if len(s) != 2*TagLength {
		return TagID{}, fmt.Errorf("rdm6300: tag id must be %d hex characters, got %d", 2*TagLength, len(s))
	}
	for i := 0; i < TagLength; i++ {
		hi, ok := hexDigit(s[2*i])
		if !ok {
			return TagID{}, fmt.Errorf("rdm6300: invalid hex character %q in tag id", s[2*i])
		}
		lo, ok := hexDigit(s[2*i+1])
		if !ok {
			return TagID{}, fmt.Errorf("rdm6300: invalid hex character %q in tag id", s[2*i+1])
		}
		id[i] = hi<<4 | lo
	}
	return id, nil
}
