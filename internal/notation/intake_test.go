package notation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mixedInstrumentsJSON passes lenient validation: the numeric instrument
// is truthy, so it only counts as unknown.
const mixedInstrumentsJSON = `{
	"metadata": {},
	"grid": {"ppq": 480, "divisions_per_quarter": 4},
	"events": [
		{"bar": 0, "beat": 0, "instrument": "kick"},
		{"bar": 0, "beat": 2, "instrument": 7}
	]
}`

func TestParse_ValidatedDocumentsAlwaysRender(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedNotes   int
		expectedSkipped []SkippedEvent
	}{
		{
			name:            "numeric instrument",
			input:           mixedInstrumentsJSON,
			expectedNotes:   1,
			expectedSkipped: []SkippedEvent{{Index: 1, Bar: 0, Beat: 2, Tick: 0, Instrument: "7"}},
		},
		{
			name:            "object instrument",
			input:           `{"metadata":{},"grid":{"ppq":480,"divisions_per_quarter":4},"events":[{"bar":0,"beat":0,"instrument":{"name":"kick"}}]}`,
			expectedNotes:   0,
			expectedSkipped: []SkippedEvent{{Index: 0, Instrument: "map[name:kick]"}},
		},
		{
			name:          "mistyped unchecked fields",
			input:         `{"metadata":{"title":5,"tempo_bpm":"96","time_signatures":"4/4"},"grid":{"ppq":"480","divisions_per_quarter":4},"events":[{"bar":0,"beat":0,"tick":"x","instrument":"snare","duration_ticks":"240","velocity":null,"probability":"high"}]}`,
			expectedNotes: 1,
		},
		{
			name:          "metadata is not an object",
			input:         `{"metadata":true,"grid":{"ppq":480,"divisions_per_quarter":4},"events":[{"bar":0,"beat":0,"instrument":"kick"}]}`,
			expectedNotes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Validate(decodeRaw(t, tt.input)).OK)

			doc, err := Parse([]byte(tt.input), Options{})
			require.NoError(t, err)

			res, err := RenderWithOptions(doc, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedNotes, res.Notes)
			if tt.expectedSkipped == nil {
				assert.Empty(t, res.Skipped)
			} else {
				assert.Equal(t, tt.expectedSkipped, res.Skipped)
			}
		})
	}
}

func TestParse_StrictReportsNumericInstrument(t *testing.T) {
	_, err := Parse([]byte(mixedInstrumentsJSON), Options{StrictInstruments: true})
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"Event 1 unknown instrument 7"}, invalid.Errors)
}

func TestFromValue_Coercion(t *testing.T) {
	raw := decodeRaw(t, `{
		"metadata": {"title": 5, "tempo_bpm": " 96.5 ", "time_signatures": [3, {"bar_index": 0, "beats": 6, "beat_type": 8}]},
		"grid": {"ppq": "480", "divisions_per_quarter": true},
		"events": [{"bar": 2.9, "beat": -0.5, "tick": 1e12, "instrument": true, "duration_ticks": "nope", "velocity": 100, "probability": false}]
	}`)

	doc := FromValue(raw)

	require.NotNil(t, doc.Metadata)
	assert.Equal(t, "5", doc.Metadata.Title)
	assert.Equal(t, 96.5, doc.Metadata.TempoBPM)
	assert.Equal(t, []TimeSignature{{BarIndex: 0, Beats: 6, BeatType: 8}}, doc.Metadata.TimeSignatures)

	require.NotNil(t, doc.Grid)
	assert.Equal(t, Grid{PPQ: 480, DivisionsPerQuarter: 1}, *doc.Grid)

	assert.Equal(t, []Event{{
		Bar:           2,
		Beat:          -1,
		Tick:          2147483647,
		Instrument:    "true",
		DurationTicks: 0,
		Velocity:      100,
		Probability:   0,
	}}, doc.Events)
}

func TestFromValue_AbsentSections(t *testing.T) {
	doc := FromValue(decodeRaw(t, `{"metadata": 0, "grid": "", "events": {}}`))
	assert.Nil(t, doc.Metadata)
	assert.Nil(t, doc.Grid)
	assert.Nil(t, doc.Events)

	doc = FromValue(nil)
	assert.Equal(t, []string{"Missing metadata", "Missing grid", "Missing events array"}, ValidateDocument(doc, Options{}).Errors)
}

func TestInspect(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		_, _, err := Inspect([]byte(`[`), Options{})
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("untyped defects", func(t *testing.T) {
		result, doc, err := Inspect([]byte(`{"events":[]}`), Options{})
		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.Equal(t, []string{"Missing metadata", "Missing grid"}, result.Errors)
	})

	t.Run("divisions that floor to zero", func(t *testing.T) {
		result, doc, err := Inspect([]byte(`{"metadata":{},"grid":{"divisions_per_quarter":0.5},"events":[]}`), Options{})
		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.False(t, result.OK)
		assert.Equal(t, []string{"Missing divisions_per_quarter"}, result.Errors)
	})

	t.Run("valid", func(t *testing.T) {
		result, doc, err := Inspect([]byte(mixedInstrumentsJSON), Options{})
		require.NoError(t, err)
		assert.True(t, result.OK)
		require.NotNil(t, doc)
		assert.Len(t, doc.Events, 2)
	})
}

func TestAnalysisDocument_UnmarshalJSON(t *testing.T) {
	var doc AnalysisDocument
	require.NoError(t, json.Unmarshal([]byte(mixedInstrumentsJSON), &doc))
	assert.Equal(t, "7", doc.Events[1].Instrument)

	err := json.Unmarshal([]byte(`[1, 2]`), &doc)
	assert.ErrorIs(t, err, ErrMalformedDocument)
}
