package midiexport

import (
	"bytes"
	"testing"

	"github.com/Conceptual-Machines/drumscore-api/internal/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteHit struct {
	tick     int64
	key      uint8
	velocity uint8
	on       bool
}

func testDoc(events ...notation.Event) *notation.AnalysisDocument {
	return &notation.AnalysisDocument{
		Metadata: &notation.Metadata{
			Title:          "Groove",
			TempoBPM:       100,
			TimeSignatures: []notation.TimeSignature{{BarIndex: 0, Beats: 4, BeatType: 4}},
		},
		Grid:   &notation.Grid{PPQ: 480, DivisionsPerQuarter: 4},
		Events: events,
	}
}

func readHits(t *testing.T, data []byte) (*smf.SMF, []noteHit) {
	t.Helper()
	file, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, file.Tracks, 2)

	var hits []noteHit
	var abs int64
	for _, ev := range file.Tracks[1] {
		abs += int64(ev.Delta)
		msg := midi.Message(ev.Message)

		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			assert.Equal(t, uint8(drumChannel), ch)
			hits = append(hits, noteHit{tick: abs, key: key, velocity: vel, on: true})
		case msg.GetNoteEnd(&ch, &key):
			assert.Equal(t, uint8(drumChannel), ch)
			hits = append(hits, noteHit{tick: abs, key: key})
		}
	}
	return file, hits
}

func TestWrite_DrumTrack(t *testing.T) {
	doc := testDoc(
		notation.Event{Bar: 1, Beat: 0, Instrument: "hihat_closed", DurationTicks: 240, Velocity: 80},
		notation.Event{Bar: 0, Beat: 0, Instrument: "kick", DurationTicks: 240, Velocity: 100},
		notation.Event{Bar: 0, Beat: 1, Instrument: "snare", DurationTicks: 240, Velocity: 0},
		notation.Event{Bar: 0, Beat: 2, Instrument: "tambourine", DurationTicks: 240, Velocity: 90},
	)

	data, err := Bytes(doc, notation.Options{})
	require.NoError(t, err)

	file, hits := readHits(t, data)

	ticks, ok := file.TimeFormat.(smf.MetricTicks)
	require.True(t, ok)
	assert.Equal(t, uint16(480), ticks.Ticks4th())

	assert.Equal(t, []noteHit{
		{tick: 0, key: 36, velocity: 100, on: true},
		{tick: 240, key: 36},
		{tick: 480, key: 38, velocity: 1, on: true},
		{tick: 720, key: 38},
		{tick: 1920, key: 42, velocity: 80, on: true},
		{tick: 2160, key: 42},
	}, hits)
}

func TestWrite_ConductorTrack(t *testing.T) {
	doc := testDoc(notation.Event{Bar: 0, Beat: 0, Instrument: "kick", DurationTicks: 240, Velocity: 100})
	doc.Metadata.TimeSignatures = []notation.TimeSignature{{BarIndex: 0, Beats: 6, BeatType: 8}}

	data, err := Bytes(doc, notation.Options{})
	require.NoError(t, err)

	file, err := smf.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)

	var bpm float64
	var num, denom uint8
	var gotTempo, gotMeter bool
	for _, ev := range file.Tracks[0] {
		if ev.Message.GetMetaTempo(&bpm) {
			gotTempo = true
		}
		if ev.Message.GetMetaMeter(&num, &denom) {
			gotMeter = true
		}
	}

	require.True(t, gotTempo)
	require.True(t, gotMeter)
	assert.InDelta(t, 100.0, bpm, 0.01)
	assert.Equal(t, uint8(6), num)
	assert.Equal(t, uint8(8), denom)
}

func TestWrite_CompoundMeterBeatLength(t *testing.T) {
	doc := testDoc(notation.Event{Bar: 1, Beat: 1, Instrument: "kick", DurationTicks: 60, Velocity: 100})
	doc.Metadata.TimeSignatures = []notation.TimeSignature{{BarIndex: 0, Beats: 6, BeatType: 8}}

	data, err := Bytes(doc, notation.Options{})
	require.NoError(t, err)

	_, hits := readHits(t, data)
	require.Len(t, hits, 2)
	// eighth-note beats at 480 ppq are 240 ticks, bars are 1440
	assert.Equal(t, int64(1440+240), hits[0].tick)
	assert.Equal(t, int64(1440+240+60), hits[1].tick)
}

func TestWrite_Errors(t *testing.T) {
	t.Run("invalid document", func(t *testing.T) {
		var buf bytes.Buffer
		err := Write(&buf, &notation.AnalysisDocument{}, notation.Options{})
		var invalid *notation.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Zero(t, buf.Len())
	})

	t.Run("strict unknown instrument", func(t *testing.T) {
		doc := testDoc(notation.Event{Bar: 0, Beat: 0, Instrument: "tambourine", DurationTicks: 240})
		_, err := Bytes(doc, notation.Options{StrictInstruments: true})
		var invalid *notation.InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("zero ppq", func(t *testing.T) {
		doc := testDoc()
		doc.Events = []notation.Event{}
		doc.Grid.PPQ = 0
		_, err := Bytes(doc, notation.Options{})
		assert.ErrorIs(t, err, ErrUnsupportedGrid)
	})

	t.Run("far event", func(t *testing.T) {
		// 200000 bars of 1920 ticks is past the largest delta time
		doc := testDoc(notation.Event{Bar: 200000, Beat: 0, Instrument: "kick", DurationTicks: 240})
		var buf bytes.Buffer
		err := Write(&buf, doc, notation.Options{})
		assert.ErrorIs(t, err, ErrPositionOutOfRange)
		assert.Zero(t, buf.Len())
	})

	t.Run("negative bar", func(t *testing.T) {
		doc := testDoc(notation.Event{Bar: -1, Beat: 0, Instrument: "kick", DurationTicks: 240})
		_, err := Bytes(doc, notation.Options{})
		assert.ErrorIs(t, err, ErrNegativePosition)
	})
}

func TestWrite_MeterRange(t *testing.T) {
	tests := []struct {
		name        string
		beats       int
		beatType    int
		expectedErr error
	}{
		{name: "common time", beats: 4, beatType: 4},
		{name: "largest numerator", beats: 255, beatType: 4},
		{name: "128th notes", beats: 3, beatType: 128},
		{name: "numerator overflows a byte", beats: 256, beatType: 4, expectedErr: ErrUnsupportedMeter},
		{name: "zero beats", beats: 0, beatType: 4, expectedErr: ErrUnsupportedMeter},
		{name: "beat type not a power of two", beats: 4, beatType: 3, expectedErr: ErrUnsupportedMeter},
		{name: "beat type too small", beats: 4, beatType: 0, expectedErr: ErrUnsupportedMeter},
		{name: "beat type too large", beats: 4, beatType: 256, expectedErr: ErrUnsupportedMeter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDoc(notation.Event{Bar: 1, Beat: 0, Instrument: "kick", DurationTicks: 240})
			doc.Metadata.TimeSignatures = []notation.TimeSignature{{BarIndex: 0, Beats: tt.beats, BeatType: tt.beatType}}

			_, err := Bytes(doc, notation.Options{})
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
