package notation

import (
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Result is a rendered score plus the counters a caller needs to surface
// events the renderer dropped.
type Result struct {
	XML      string         `json:"musicxml"`
	Measures int            `json:"measures"`
	Notes    int            `json:"notes"`
	Skipped  []SkippedEvent `json:"skipped"`
}

// SkippedEvent is an event that produced no note because its instrument
// is not in the instrument map.
type SkippedEvent struct {
	Index      int    `json:"index"`
	Bar        int    `json:"bar"`
	Beat       int    `json:"beat"`
	Tick       int    `json:"tick"`
	Instrument string `json:"instrument"`
}

// Render converts an analysis document into MusicXML text using the
// default (lenient) options.
func Render(doc *AnalysisDocument) (string, error) {
	res, err := RenderWithOptions(doc, Options{})
	if err != nil {
		return "", err
	}
	return res.XML, nil
}

// RenderWithOptions converts an analysis document into MusicXML. The
// document is re-validated first; an invalid document yields an
// *InvalidInputError and no output.
func RenderWithOptions(doc *AnalysisDocument, opts Options) (*Result, error) {
	if v := ValidateDocument(doc, opts); !v.OK {
		return nil, &InvalidInputError{Errors: v.Errors}
	}

	score, notes, skipped := buildScore(doc)

	body, err := xml.MarshalIndent(score, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode score: %w", err)
	}

	var sb strings.Builder
	sb.Grow(len(xml.Header) + len(musicXMLDoctype) + len(body) + 2)
	sb.WriteString(xml.Header)
	sb.WriteString(musicXMLDoctype)
	sb.WriteByte('\n')
	sb.Write(body)
	sb.WriteByte('\n')

	return &Result{
		XML:      sb.String(),
		Measures: len(score.Parts[0].Measures),
		Notes:    notes,
		Skipped:  skipped,
	}, nil
}

type indexedEvent struct {
	index int
	Event
}

func buildScore(doc *AnalysisDocument) (*ScorePartwise, int, []SkippedEvent) {
	divs := doc.Grid.DivisionsPerQuarter
	ppq := doc.Grid.PPQ
	sig := doc.EffectiveTimeSignature()

	bars := make(map[int][]indexedEvent)
	for i, ev := range doc.Events {
		bars[ev.Bar] = append(bars[ev.Bar], indexedEvent{index: i, Event: ev})
	}

	barKeys := make([]int, 0, len(bars))
	for bar := range bars {
		barKeys = append(barKeys, bar)
	}
	sort.Ints(barKeys)

	part := Part{ID: partID, Measures: make([]Measure, 0, len(barKeys))}
	notes := 0
	skipped := make([]SkippedEvent, 0)

	for _, bar := range barKeys {
		measure := Measure{Number: bar, Notes: make([]Note, 0, len(bars[bar]))}

		if bar == 0 {
			measure.Attributes = &Attributes{
				Divisions: divs,
				Time:      Time{Beats: sig.Beats, BeatType: sig.BeatType},
				Clef:      Clef{Sign: clefSign, Line: clefLine},
			}
			measure.Direction = tempoDirection(doc.Metadata.TempoBPM)
		}

		events := bars[bar]
		sort.SliceStable(events, func(i, j int) bool {
			return sortKey(events[i].Event) < sortKey(events[j].Event)
		})

		for _, ev := range events {
			mapping, ok := LookupInstrument(ev.Instrument)
			if !ok {
				skipped = append(skipped, SkippedEvent{
					Index:      ev.index,
					Bar:        ev.Bar,
					Beat:       ev.Beat,
					Tick:       ev.Tick,
					Instrument: ev.Instrument,
				})
				continue
			}

			measure.Notes = append(measure.Notes, Note{
				Unpitched:  Unpitched{DisplayStep: displayStep, DisplayOctave: displayOctave},
				Duration:   noteDuration(ev.DurationTicks, ppq, divs),
				Instrument: InstrumentReference{ID: mapping.ID},
				Voice:      mapping.Voice,
				Type:       noteType,
				Notehead:   mapping.Notehead,
			})
			notes++
		}

		part.Measures = append(part.Measures, measure)
	}

	score := &ScorePartwise{
		Version: MusicXMLVersion,
		PartList: PartList{ScoreParts: []ScorePart{{
			ID:               partID,
			Name:             partName,
			ScoreInstruments: scoreInstruments(),
		}}},
		Parts: []Part{part},
	}
	if doc.Metadata.Title != "" {
		score.Work = &Work{Title: doc.Metadata.Title}
	}

	return score, notes, skipped
}

func tempoDirection(bpm float64) *Direction {
	tempo := strconv.FormatFloat(bpm, 'f', -1, 64)
	return &Direction{
		Placement: tempoPlacement,
		DirectionType: DirectionType{
			Metronome: Metronome{BeatUnit: tempoBeatUnit, PerMinute: tempo},
		},
		Sound: &Sound{Tempo: tempo},
	}
}

func scoreInstruments() []ScoreInstrument {
	out := make([]ScoreInstrument, 0, len(instrumentOrder))
	for _, key := range instrumentOrder {
		m := instrumentMap[key]
		out = append(out, ScoreInstrument{ID: m.ID, Name: m.Name})
	}
	return out
}

func sortKey(ev Event) int {
	return ev.Beat*beatSortWeight + ev.Tick
}

// noteDuration converts a tick length into notation divisions, never
// shorter than one division. A grid without ppq yields one division.
func noteDuration(durationTicks, ppq, divs int) int {
	if ppq <= 0 {
		return 1
	}
	d := int(math.Round(float64(durationTicks) / float64(ppq) * float64(divs)))
	if d < 1 {
		return 1
	}
	return d
}
