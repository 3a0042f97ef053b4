// Package midiexport writes an analysis document as a Standard MIDI File
// with the drums on General MIDI channel 10.
package midiexport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/Conceptual-Machines/drumscore-api/internal/notation"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	drumChannel     = 9 // Channel 10, 0-indexed
	defaultTempoBPM = 120.0
	maxPPQ          = math.MaxInt16
	maxVelocity     = 127
	drumTrackName   = "Drum Set"
	maxMeterBeats   = math.MaxUint8
	maxMeterUnit    = 128
	maxDeltaTicks   = 0x0FFFFFFF // Largest SMF variable-length quantity
)

// ErrUnsupportedGrid is returned when the grid resolution cannot be
// expressed as an SMF metric timebase.
var ErrUnsupportedGrid = errors.New("grid ppq not representable in SMF")

// ErrNegativePosition is returned for events placed before bar 0
var ErrNegativePosition = errors.New("event starts before bar 0")

// ErrUnsupportedMeter is returned when the time signature does not fit an
// SMF meter event.
var ErrUnsupportedMeter = errors.New("time signature not representable in SMF")

// ErrPositionOutOfRange is returned when the gap between two messages on
// the drum track exceeds what an SMF delta time can hold.
var ErrPositionOutOfRange = errors.New("event position not representable in SMF")

type timedMessage struct {
	tick  int64
	order int // note offs before note ons on the same tick
	seq   int
	msg   midi.Message
}

// Bytes renders doc as an SMF and returns the file contents
func Bytes(doc *notation.AnalysisDocument, opts notation.Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders doc as a format 1 SMF: a conductor track carrying title,
// meter and tempo, and one drum track. Events with instruments missing
// from the instrument map are skipped, as in the score renderer.
func Write(w io.Writer, doc *notation.AnalysisDocument, opts notation.Options) error {
	if v := notation.ValidateDocument(doc, opts); !v.OK {
		return &notation.InvalidInputError{Errors: v.Errors}
	}

	ppq := doc.Grid.PPQ
	if ppq <= 0 || ppq > maxPPQ {
		return fmt.Errorf("%w: %d", ErrUnsupportedGrid, ppq)
	}

	sig := doc.EffectiveTimeSignature()
	if err := checkMeter(sig); err != nil {
		return err
	}
	beatTicks := int64(ppq) * 4 / int64(sig.BeatType)
	barTicks := beatTicks * int64(sig.Beats)

	tempo := doc.Metadata.TempoBPM
	if tempo <= 0 {
		tempo = defaultTempoBPM
	}

	var conductor smf.Track
	if doc.Metadata.Title != "" {
		conductor.Add(0, smf.MetaTrackSequenceName(doc.Metadata.Title))
	}
	conductor.Add(0, smf.MetaMeter(uint8(sig.Beats), uint8(sig.BeatType)))
	conductor.Add(0, smf.MetaTempo(tempo))
	conductor.Close(0)

	messages := make([]timedMessage, 0, len(doc.Events)*2)
	for i, ev := range doc.Events {
		mapping, ok := notation.LookupInstrument(ev.Instrument)
		if !ok {
			continue
		}

		start := int64(ev.Bar)*barTicks + int64(ev.Beat)*beatTicks + int64(ev.Tick)
		if start < 0 {
			return fmt.Errorf("%w: event %d", ErrNegativePosition, i)
		}
		length := int64(ev.DurationTicks)
		if length < 1 {
			length = 1
		}

		key := uint8(mapping.GM)
		messages = append(messages,
			timedMessage{tick: start, order: 1, seq: i, msg: midi.NoteOn(drumChannel, key, clampVelocity(ev.Velocity))},
			timedMessage{tick: start + length, order: 0, seq: i, msg: midi.NoteOff(drumChannel, key)},
		)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i], messages[j]
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.seq < b.seq
	})

	var drums smf.Track
	drums.Add(0, smf.MetaTrackSequenceName(drumTrackName))
	var last int64
	for _, m := range messages {
		delta := m.tick - last
		if delta > maxDeltaTicks {
			return fmt.Errorf("%w: event %d is %d ticks after the previous message", ErrPositionOutOfRange, m.seq, delta)
		}
		drums.Add(uint32(delta), m.msg)
		last = m.tick
	}
	drums.Close(0)

	file := smf.New()
	file.TimeFormat = smf.MetricTicks(ppq)
	if err := file.Add(conductor); err != nil {
		return fmt.Errorf("failed to add conductor track: %w", err)
	}
	if err := file.Add(drums); err != nil {
		return fmt.Errorf("failed to add drum track: %w", err)
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write SMF: %w", err)
	}
	return nil
}

// checkMeter accepts 1..255 beats over a power-of-two beat type up to 128
func checkMeter(sig notation.TimeSignature) error {
	if sig.Beats < 1 || sig.Beats > maxMeterBeats {
		return fmt.Errorf("%w: %d beats", ErrUnsupportedMeter, sig.Beats)
	}
	if sig.BeatType < 1 || sig.BeatType > maxMeterUnit || sig.BeatType&(sig.BeatType-1) != 0 {
		return fmt.Errorf("%w: beat type %d", ErrUnsupportedMeter, sig.BeatType)
	}
	return nil
}

// clampVelocity keeps note-on velocities in 1..127; a zero velocity note
// on would read as a note off.
func clampVelocity(v int) uint8 {
	switch {
	case v < 1:
		return 1
	case v > maxVelocity:
		return maxVelocity
	default:
		return uint8(v)
	}
}
