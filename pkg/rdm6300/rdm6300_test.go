// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"bytes"
	"errors"
	"testing"
)

// ============================================================
// Hex decoding
// ============================================================

func TestHexDigit(t *testing.T) {
	tests := []struct {
		c    byte
		want byte
		ok   bool
	}{
		{'0', 0, true},
		{'9', 9, true},
		{'A', 10, true},
		{'F', 15, true},
		{'a', 10, true},
		{'f', 15, true},
		{'G', 0, false},
		{'g', 0, false},
		{' ', 0, false},
		{0x00, 0, false},
		{'/', 0, false}, // one below '0'
		{':', 0, false}, // one above '9'
	}

	for _, tt := range tests {
		got, ok := hexDigit(tt.c)
		if ok != tt.ok || got != tt.want {
			t.Errorf("hexDigit(%q) = (%d, %v), want (%d, %v)", tt.c, got, ok, tt.want, tt.ok)
		}
	}
}

// ============================================================
// Body decoding
// ============================================================

func bodyOf(s string) *[BodyLength]byte {
	var body [BodyLength]byte
	copy(body[:], s)
	return &body
}

func TestDecodeBody_DatasheetExample(t *testing.T) {
	id, err := decodeBody(bodyOf("14008EC793CE"))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	want := TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}
	if id != want {
		t.Errorf("decoded %v, want %v", id, want)
	}
}

func TestDecodeBody_LowercaseHex(t *testing.T) {
	id, err := decodeBody(bodyOf("14008ec793ce"))
	if err != nil {
		t.Fatalf("decodeBody: %v", err)
	}
	want := TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}
	if id != want {
		t.Errorf("decoded %v, want %v", id, want)
	}
}

func TestDecodeBody_ChecksumSensitivity(t *testing.T) {
	// Flip each of the two checksum characters in turn.
	for _, body := range []string{"14008EC793CF", "14008EC793DE"} {
		id, err := decodeBody(bodyOf(body))
		var de *DecodeError
		if !errors.As(err, &de) || de.Kind != KindInvalidChecksum {
			t.Fatalf("%s: got %v, want KindInvalidChecksum", body, err)
		}
		if !id.IsNull() {
			t.Errorf("%s: tag bytes %v returned on checksum mismatch", body, id)
		}
	}
}

func TestDecodeBody_InvalidHexPositions(t *testing.T) {
	for pos := 0; pos < BodyLength; pos++ {
		body := bodyOf("14008EC793CE")
		body[pos] = 'G'
		_, err := decodeBody(body)
		var de *DecodeError
		if !errors.As(err, &de) || de.Kind != KindInvalidData {
			t.Errorf("pos %d: got %v, want KindInvalidData", pos, err)
		}
	}
}

// ============================================================
// TagID
// ============================================================

func TestTagID_Accessors(t *testing.T) {
	id := TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}

	if got := id.String(); got != "14008EC793" {
		t.Errorf("String() = %q, want %q", got, "14008EC793")
	}
	if got := id.Checksum(); got != 0xCE {
		t.Errorf("Checksum() = 0x%02X, want 0xCE", got)
	}
	if got := id.Version(); got != 0x14 {
		t.Errorf("Version() = 0x%02X, want 0x14", got)
	}
	if got := id.CardNumber(); got != 0x008EC793 {
		t.Errorf("CardNumber() = %d, want %d", got, uint32(0x008EC793))
	}
	if id.IsNull() {
		t.Error("IsNull() = true for a non-zero id")
	}
	if !(TagID{}).IsNull() {
		t.Error("IsNull() = false for the zero id")
	}
}

func TestParseTagID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    TagID
		wantErr bool
	}{
		{"uppercase", "14008EC793", TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}, false},
		{"lowercase", "14008ec793", TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}, false},
		{"too short", "14008EC79", TagID{}, true},
		{"too long", "14008EC7931", TagID{}, true},
		{"bad char", "14008EC79G", TagID{}, true},
		{"empty", "", TagID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTagID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTagID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTagID(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// ============================================================
// Encoder
// ============================================================

func TestEncodeFrame_DatasheetExample(t *testing.T) {
	frame := EncodeFrame(TagID{0x14, 0x00, 0x8E, 0xC7, 0x93})
	want := []byte("\x0214008EC793CE\x03")
	if !bytes.Equal(frame, want) {
		t.Errorf("EncodeFrame = %q, want %q", frame, want)
	}
	if len(frame) != FrameLength {
		t.Errorf("frame length %d, want %d", len(frame), FrameLength)
	}
}

func TestEncodeFrame_RoundTrip(t *testing.T) {
	ids := []TagID{
		{},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x0A, 0x0B, 0x0C, 0x0D, 0x0E},
		{0x14, 0x00, 0x8E, 0xC7, 0x93},
		{0x01, 0x23, 0x45, 0x67, 0x89},
	}

	for _, id := range ids {
		d := NewDecoder(&scriptSource{steps: byteSteps(EncodeFrame(id))})
		got, err := d.ReadFrame()
		if err != nil {
			t.Fatalf("%v: round trip failed: %v", id, err)
		}
		if got != id {
			t.Errorf("round trip decoded %v, want %v", got, id)
		}
	}
}

func TestAppendFrame_ExtendsDst(t *testing.T) {
	id := TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}
	dst := AppendFrame(nil, id)
	dst = AppendFrame(dst, id)
	if len(dst) != 2*FrameLength {
		t.Fatalf("appended length %d, want %d", len(dst), 2*FrameLength)
	}
	if !bytes.Equal(dst[:FrameLength], dst[FrameLength:]) {
		t.Error("consecutive frames differ for the same id")
	}
}
