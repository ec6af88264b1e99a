// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quartzmill Labs

package rdm6300

import (
	"encoding/json"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// TagEvent is the machine-readable record emitted for one successful read.
// Field layout is stable across the JSON and CBOR encodings so downstream
// consumers can switch formats without remapping.
type TagEvent struct {
	ID      string    `json:"id" cbor:"1,keyasint"`
	Card    uint32    `json:"card" cbor:"2,keyasint"`
	Version uint8     `json:"version" cbor:"3,keyasint"`
	Seen    time.Time `json:"seen" cbor:"4,keyasint"`
}

// NewTagEvent builds the event record for a tag read at the given time.
func NewTagEvent(id TagID, seen time.Time) TagEvent {
	return TagEvent{
		ID:      id.String(),
		Card:    id.CardNumber(),
		Version: id.Version(),
		Seen:    seen,
	}
}

// EncodeJSON returns the event as a single JSON object, one per line when
// streamed.
func (e TagEvent) EncodeJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EncodeCBOR returns the event as a CBOR map with integer keys, the compact
// form used when piping events into a binary consumer.
func (e TagEvent) EncodeCBOR() ([]byte, error) {
	return cbor.Marshal(e)
}
