// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

const hexUpper = "0123456789ABCDEF"

// AppendFrame appends the 14-byte wire frame for id to dst and returns the
// extended slice. The checksum is computed; hex characters are uppercase,
// matching what the reader hardware emits.
func AppendFrame(dst []byte, id TagID) []byte {
	dst = append(dst, Head)
	for _, b := range id {
		dst = append(dst, hexUpper[b>>4], hexUpper[b&0x0F])
	}
	sum := id.Checksum()
	dst = append(dst, hexUpper[sum>>4], hexUpper[sum&0x0F])
	return append(dst, Tail)
}

// EncodeFrame returns the complete wire frame for id, ready for
// transmission.
func EncodeFrame(id TagID) []byte {
	return AppendFrame(make([]byte, 0, FrameLength), id)
}
