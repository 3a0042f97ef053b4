package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupInstrument(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected InstrumentMapping
	}{
		{name: "kick", key: "kick", expected: InstrumentMapping{ID: "P1-X2", Name: "Kick Drum", GM: 36, Voice: 2}},
		{name: "snare", key: "snare", expected: InstrumentMapping{ID: "P1-X4", Name: "Snare", GM: 38, Voice: 1}},
		{name: "closed hat", key: "hihat_closed", expected: InstrumentMapping{ID: "P1-X8", Name: "Closed Hi-Hat", GM: 42, Notehead: "x", Voice: 1}},
		{name: "open hat", key: "hihat_open", expected: InstrumentMapping{ID: "P1-X10", Name: "Open Hi-Hat", GM: 46, Notehead: "circle-x", Voice: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := LookupInstrument(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, m)
		})
	}

	_, ok := LookupInstrument("tambourine")
	assert.False(t, ok)
	_, ok = LookupInstrument("")
	assert.False(t, ok)
}

func TestInstrumentMap_Contents(t *testing.T) {
	required := []string{
		"kick", "snare", "hihat_closed", "hihat_open", "crash",
		"ride", "tom_high", "tom_mid", "tom_floor", "cowbell", "clap",
	}

	ids := make(map[string]string)
	for _, key := range required {
		m, ok := LookupInstrument(key)
		require.True(t, ok, "missing instrument %s", key)

		if other, dup := ids[m.ID]; dup {
			t.Errorf("instrument id %s shared by %s and %s", m.ID, key, other)
		}
		ids[m.ID] = key

		assert.Contains(t, []int{1, 2}, m.Voice, key)
		assert.GreaterOrEqual(t, m.GM, 35, key)
		assert.LessOrEqual(t, m.GM, 81, key)
		assert.NotEmpty(t, m.Name, key)
	}
}

func TestInstruments_OrderedByID(t *testing.T) {
	keys := Instruments()
	require.Len(t, keys, len(instrumentMap))
	assert.Equal(t, "kick", keys[0])
	assert.Equal(t, "ride", keys[len(keys)-1])

	for i := 1; i < len(keys); i++ {
		prev, _ := LookupInstrument(keys[i-1])
		cur, _ := LookupInstrument(keys[i])
		assert.Less(t, instrumentIDNumber(prev.ID), instrumentIDNumber(cur.ID))
	}

	// callers get a copy
	keys[0] = "mutated"
	assert.Equal(t, "kick", Instruments()[0])
}
