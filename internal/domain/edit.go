package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalInt is an integer field that may be absent or malformed on the wire.
// Numbers are truncated toward zero and numeric strings are accepted; anything
// else decodes as absent rather than failing the whole message.
type OptionalInt struct {
	Value int
	Valid bool
}

// NewOptionalInt returns a present OptionalInt
func NewOptionalInt(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		o.Value, o.Valid = int(v), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			o.Value, o.Valid = n, true
		}
	}
	return nil
}

// Or returns the value when present and def otherwise
func (o OptionalInt) Or(def int) int {
	if o.Valid {
		return o.Value
	}
	return def
}

// OptionalString is a string field that decodes as absent when the wire value
// is missing or not a string.
type OptionalString struct {
	Value string
	Valid bool
}

// NewOptionalString returns a present OptionalString
func NewOptionalString(v string) OptionalString {
	return OptionalString{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	*o = OptionalString{}

	var s *string
	if err := json.Unmarshal(data, &s); err == nil && s != nil {
		o.Value, o.Valid = *s, true
	}
	return nil
}

// EditRange holds the anchors of a proposed edit. Each anchor accepts a long
// and a short field name; the long one wins when both are usable.
type EditRange struct {
	Start  OptionalInt `json:"start"`
	S      OptionalInt `json:"s"`
	OldEnd OptionalInt `json:"old_end"`
	NewEnd OptionalInt `json:"new_end"`
	E      OptionalInt `json:"e"`
}

// UnmarshalJSON implements json.Unmarshaler; a range that is not an object is empty
func (r *EditRange) UnmarshalJSON(data []byte) error {
	type plain EditRange
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*r = EditRange{}
		return nil
	}
	*r = EditRange(p)
	return nil
}

// StartAnchor returns start, falling back to s
func (r EditRange) StartAnchor() OptionalInt {
	if r.Start.Valid {
		return r.Start
	}
	return r.S
}

// NewEndAnchor returns new_end, falling back to e
func (r EditRange) NewEndAnchor() OptionalInt {
	if r.NewEnd.Valid {
		return r.NewEnd
	}
	return r.E
}

// EditProposal is an inbound edit as sent by a client. Text is the client's
// full text after the edit; Delta is the replacement run.
type EditProposal struct {
	Text        OptionalString `json:"text"`
	Delta       OptionalString `json:"delta"`
	Range       EditRange      `json:"range"`
	Version     OptionalInt    `json:"version"`
	BaseVersion OptionalInt    `json:"base_version"`
}

// ObservedVersion returns the version the proposer last saw, preferring version over base_version
func (p EditProposal) ObservedVersion() OptionalInt {
	if p.Version.Valid {
		return p.Version
	}
	return p.BaseVersion
}
