// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"errors"
	"io"
	"testing"
)

// ============================================================
// Scripted byte source
// ============================================================

// step is one scripted ReadByte outcome: a byte, or an error.
type step struct {
	b   byte
	err error
}

// scriptSource replays a fixed sequence of ReadByte outcomes. Reading past
// the end returns io.EOF, which the decoder treats as a hard source error.
type scriptSource struct {
	steps []step
	pos   int
}

func (s *scriptSource) ReadByte() (byte, error) {
	if s.pos >= len(s.steps) {
		return 0, io.EOF
	}
	st := s.steps[s.pos]
	s.pos++
	if st.err != nil {
		return 0, st.err
	}
	return st.b, nil
}

func byteSteps(data []byte) []step {
	steps := make([]step, len(data))
	for i, b := range data {
		steps[i] = step{b: b}
	}
	return steps
}

func wouldBlock() step {
	return step{err: ErrWouldBlock}
}

// refTag is the reference tag used throughout: payload 14 00 8E C7 93,
// checksum XOR = 0xCE.
var refTag = TagID{0x14, 0x00, 0x8E, 0xC7, 0x93}

var refFrame = []byte("\x0214008EC793CE\x03")

// pollTag drains ErrWouldBlock returns until a terminal outcome appears.
func pollTag(t *testing.T, d *Decoder) (TagID, error) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		id, err := d.ReadFrame()
		if errors.Is(err, ErrWouldBlock) {
			continue
		}
		return id, err
	}
	t.Fatal("decoder never produced a terminal outcome")
	return TagID{}, nil
}

// checkInvariants verifies the buffer fill bounds after any call.
func checkInvariants(t *testing.T, d *Decoder) {
	t.Helper()
	if d.offset > BodyLength {
		t.Fatalf("buffer fill count %d exceeds %d", d.offset, BodyLength)
	}
	if d.state == stateAwaitHead && d.offset != 0 {
		t.Fatalf("fill count %d while awaiting head, want 0", d.offset)
	}
}

// ============================================================
// ReadFrame
// ============================================================

func TestReadFrame_ValidFrame(t *testing.T) {
	d := NewDecoder(&scriptSource{steps: byteSteps(refFrame)})

	id, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if id != refTag {
		t.Errorf("decoded %v, want %v", id, refTag)
	}
	checkInvariants(t, d)
}

func TestReadFrame_StrayByteResync(t *testing.T) {
	steps := append([]step{{b: 0x01}}, byteSteps(refFrame)...)
	d := NewDecoder(&scriptSource{steps: steps})

	// Exactly one InvalidHead for the stray byte.
	_, err := d.ReadFrame()
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != KindInvalidHead {
		t.Fatalf("got %v, want KindInvalidHead", err)
	}
	checkInvariants(t, d)

	// The same frame then decodes on the next call, no priming needed.
	id, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame after resync: %v", err)
	}
	if id != refTag {
		t.Errorf("decoded %v, want %v", id, refTag)
	}
}

func TestReadFrame_OneInvalidHeadPerByte(t *testing.T) {
	noise := []byte{0x00, 0x01, 0x7F, 0xFF}
	steps := append(byteSteps(noise), byteSteps(refFrame)...)
	d := NewDecoder(&scriptSource{steps: steps})

	for i := range noise {
		_, err := d.ReadFrame()
		var de *DecodeError
		if !errors.As(err, &de) || de.Kind != KindInvalidHead {
			t.Fatalf("byte %d: got %v, want KindInvalidHead", i, err)
		}
	}

	id, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame after noise: %v", err)
	}
	if id != refTag {
		t.Errorf("decoded %v, want %v", id, refTag)
	}
}

func TestReadFrame_InvalidTailDiscardsFrame(t *testing.T) {
	bad := append([]byte{}, refFrame...)
	bad[FrameLength-1] = 0x7F
	steps := append(byteSteps(bad), byteSteps(refFrame)...)
	d := NewDecoder(&scriptSource{steps: steps})

	_, err := d.ReadFrame()
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != KindInvalidTail {
		t.Fatalf("got %v, want KindInvalidTail", err)
	}
	checkInvariants(t, d)

	// Frame was discarded, decoder immediately accepts the next one.
	id, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame after bad tail: %v", err)
	}
	if id != refTag {
		t.Errorf("decoded %v, want %v", id, refTag)
	}
}

func TestReadFrame_InvalidChecksum(t *testing.T) {
	// CE -> CF: frame is structurally intact, checksum no longer matches.
	bad := append([]byte{}, refFrame...)
	bad[12] = 'F'
	d := NewDecoder(&scriptSource{steps: byteSteps(bad)})

	id, err := d.ReadFrame()
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != KindInvalidChecksum {
		t.Fatalf("got %v, want KindInvalidChecksum", err)
	}
	if !id.IsNull() {
		t.Errorf("tag id %v returned alongside checksum failure", id)
	}
	checkInvariants(t, d)
}

func TestReadFrame_InvalidDataAfterFullFrame(t *testing.T) {
	bad := append([]byte{}, refFrame...)
	bad[3] = 'G' // non-hex payload character
	steps := append(byteSteps(bad), byteSteps(refFrame)...)
	d := NewDecoder(&scriptSource{steps: steps})

	_, err := d.ReadFrame()
	var de *DecodeError
	if !errors.As(err, &de) || de.Kind != KindInvalidData {
		t.Fatalf("got %v, want KindInvalidData", err)
	}
	// Raised after the state machine already reset.
	checkInvariants(t, d)

	id, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame after data error: %v", err)
	}
	if id != refTag {
		t.Errorf("decoded %v, want %v", id, refTag)
	}
}

func TestReadFrame_TwoConsecutiveFrames(t *testing.T) {
	second := TagID{0x0A, 0x12, 0x34, 0x56, 0x78}
	stream := append(append([]byte{}, refFrame...), EncodeFrame(second)...)
	d := NewDecoder(&scriptSource{steps: byteSteps(stream)})

	id, err := d.ReadFrame()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if id != refTag {
		t.Errorf("first frame decoded %v, want %v", id, refTag)
	}

	id, err = d.ReadFrame()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if id != second {
		t.Errorf("second frame decoded %v, want %v", id, second)
	}
}

// ============================================================
// Suspend/resume
// ============================================================

func TestReadFrame_WouldBlockPreservesState(t *testing.T) {
	// Inject a not-ready signal before every single frame byte. Each one
	// must surface as ErrWouldBlock without disturbing the final decode.
	var steps []step
	for _, b := range refFrame {
		steps = append(steps, wouldBlock(), step{b: b})
	}
	steps = append(steps, wouldBlock())
	d := NewDecoder(&scriptSource{steps: steps})

	blocked := 0
	var id TagID
	var err error
	for {
		id, err = d.ReadFrame()
		if errors.Is(err, ErrWouldBlock) {
			blocked++
			checkInvariants(t, d)
			continue
		}
		break
	}
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if id != refTag {
		t.Errorf("decoded %v, want %v", id, refTag)
	}
	if blocked != FrameLength {
		t.Errorf("observed %d ErrWouldBlock returns, want %d", blocked, FrameLength)
	}
}

func TestReadFrame_WouldBlockAtEveryPosition(t *testing.T) {
	// One not-ready signal at each possible position in the frame.
	for pos := 0; pos <= FrameLength; pos++ {
		steps := make([]step, 0, FrameLength+1)
		for i, b := range refFrame {
			if i == pos {
				steps = append(steps, wouldBlock())
			}
			steps = append(steps, step{b: b})
		}
		if pos == FrameLength {
			steps = append(steps, wouldBlock())
		}
		d := NewDecoder(&scriptSource{steps: steps})

		id, err := pollTag(t, d)
		if err != nil {
			t.Fatalf("pos %d: %v", pos, err)
		}
		if id != refTag {
			t.Errorf("pos %d: decoded %v, want %v", pos, id, refTag)
		}
	}
}

// ============================================================
// Source errors
// ============================================================

func TestReadFrame_SourceErrorPropagated(t *testing.T) {
	cause := errors.New("device unplugged")
	steps := append(byteSteps(refFrame[:4]), step{err: cause})
	d := NewDecoder(&scriptSource{steps: steps})

	_, err := d.ReadFrame()
	var se *SourceError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want SourceError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("SourceError does not unwrap to the original cause")
	}

	// Consumed bytes stay consumed: the 3 body bytes are still buffered.
	if d.offset != 3 {
		t.Errorf("fill count %d after source error, want 3", d.offset)
	}
}

func TestReadFrame_EOFIsSourceError(t *testing.T) {
	d := NewDecoder(&scriptSource{})

	_, err := d.ReadFrame()
	var se *SourceError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want SourceError", err)
	}
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF to be preserved, got %v", err)
	}
}

// ============================================================
// Reset
// ============================================================

func TestReset_AbandonsPartialFrame(t *testing.T) {
	// Head plus three body bytes, then nothing ready.
	steps := append(byteSteps(refFrame[:4]), wouldBlock())
	d := NewDecoder(&scriptSource{steps: steps})

	_, err := d.ReadFrame()
	if !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("got %v, want ErrWouldBlock", err)
	}
	if d.offset != 3 {
		t.Fatalf("fill count %d before reset, want 3", d.offset)
	}

	d.Reset()
	if d.offset != 0 || d.state != stateAwaitHead {
		t.Errorf("reset left offset=%d state=%d", d.offset, d.state)
	}
}

func TestReset_Idempotent(t *testing.T) {
	steps := append(byteSteps(refFrame[:4]), wouldBlock())
	d := NewDecoder(&scriptSource{steps: steps})

	// Suspend mid-body, then reset twice.
	if _, err := d.ReadFrame(); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("got %v, want ErrWouldBlock", err)
	}
	d.Reset()
	offset, state := d.offset, d.state
	d.Reset()
	if d.offset != offset || d.state != state {
		t.Errorf("second reset changed state: offset %d->%d state %d->%d",
			offset, d.offset, state, d.state)
	}
}
