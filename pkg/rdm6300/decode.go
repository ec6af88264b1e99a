// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

// hexDigit maps one ASCII hex character to its 4-bit value. Strict radix-16
// mapping: no whitespace or locale tolerance.
func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

// decodeBody decodes the 12 buffered interior bytes into a tag id and
// verifies the transmitted checksum against the XOR of the decoded bytes.
// Pure function: no I/O, no decoder state.
func decodeBody(body *[BodyLength]byte) (TagID, error) {
	var id TagID
	for i := 0; i < TagLength; i++ {
		hi, ok := hexDigit(body[2*i])
		if !ok {
			return TagID{}, &DecodeError{Kind: KindInvalidData}
		}
		lo, ok := hexDigit(body[2*i+1])
		if !ok {
			return TagID{}, &DecodeError{Kind: KindInvalidData}
		}
		id[i] = hi<<4 | lo
	}

	hi, ok := hexDigit(body[BodyLength-ChecksumLength])
	if !ok {
		return TagID{}, &DecodeError{Kind: KindInvalidData}
	}
	lo, ok := hexDigit(body[BodyLength-ChecksumLength+1])
	if !ok {
		return TagID{}, &DecodeError{Kind: KindInvalidData}
	}
	sum := hi<<4 | lo

	if id.Checksum() != sum {
		return TagID{}, &DecodeError{Kind: KindInvalidChecksum}
	}
	return id, nil
}
