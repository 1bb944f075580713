package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditProposal_Unmarshal_FullPayload(t *testing.T) {
	raw := `{"text":"aXYcdef","delta":"XY","range":{"start":1,"old_end":2,"new_end":3},"version":1}`

	var p EditProposal
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, NewOptionalString("aXYcdef"), p.Text)
	assert.Equal(t, NewOptionalString("XY"), p.Delta)
	assert.Equal(t, NewOptionalInt(1), p.Range.StartAnchor())
	assert.Equal(t, NewOptionalInt(2), p.Range.OldEnd)
	assert.Equal(t, NewOptionalInt(3), p.Range.NewEndAnchor())
	assert.Equal(t, NewOptionalInt(1), p.ObservedVersion())
}

func TestEditProposal_Unmarshal_ShortNames(t *testing.T) {
	raw := `{"range":{"s":4,"e":6},"base_version":"7"}`

	var p EditProposal
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, NewOptionalInt(4), p.Range.StartAnchor())
	assert.Equal(t, NewOptionalInt(6), p.Range.NewEndAnchor())
	assert.False(t, p.Range.OldEnd.Valid)
	assert.Equal(t, NewOptionalInt(7), p.ObservedVersion())
}

func TestEditProposal_Unmarshal_MalformedFieldsBecomeAbsent(t *testing.T) {
	raw := `{"text":42,"delta":null,"range":"oops","version":"abc"}`

	var p EditProposal
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.False(t, p.Text.Valid)
	assert.False(t, p.Delta.Valid)
	assert.False(t, p.Range.StartAnchor().Valid)
	assert.False(t, p.ObservedVersion().Valid)
}

func TestOptionalInt_TruncatesFloats(t *testing.T) {
	var o OptionalInt
	require.NoError(t, json.Unmarshal([]byte(`3.9`), &o))

	assert.Equal(t, NewOptionalInt(3), o)
	assert.Equal(t, 3, o.Or(10))
	assert.Equal(t, 10, OptionalInt{}.Or(10))
}

func TestEditRange_LongNameWins(t *testing.T) {
	r := EditRange{Start: NewOptionalInt(1), S: NewOptionalInt(9), NewEnd: NewOptionalInt(2), E: NewOptionalInt(8)}

	assert.Equal(t, 1, r.StartAnchor().Value)
	assert.Equal(t, 2, r.NewEndAnchor().Value)
}
