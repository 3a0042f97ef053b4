// Package notation turns quantized drum analyses into MusicXML drum scores.
// Validation and rendering are pure and safe for concurrent use.
package notation

import (
	"encoding/json"
	"fmt"
)

// AnalysisDocument is the quantized drum analysis produced by the
// transcription pipeline. Nil Metadata/Grid or a nil Events slice mean the
// field was absent on the wire.
type AnalysisDocument struct {
	Metadata *Metadata `json:"metadata"`
	Grid     *Grid     `json:"grid"`
	Events   []Event   `json:"events"`
}

// Metadata describes the piece as a whole
type Metadata struct {
	Title          string          `json:"title"`
	TempoBPM       float64         `json:"tempo_bpm"`
	TimeSignatures []TimeSignature `json:"time_signatures"`
}

// TimeSignature applies from BarIndex onwards. Only the first entry is
// honoured by the renderer.
type TimeSignature struct {
	BarIndex int `json:"bar_index"`
	Beats    int `json:"beats"`
	BeatType int `json:"beat_type"`
}

// Grid is the quantization grid of the analysis
type Grid struct {
	PPQ                 int `json:"ppq"`                   // Pulses per quarter note
	DivisionsPerQuarter int `json:"divisions_per_quarter"` // Notation subdivision unit
}

// Event is a single quantized drum hit
type Event struct {
	Bar           int     `json:"bar"`
	Beat          int     `json:"beat"`
	Tick          int     `json:"tick"` // Offset within the beat, 0..ppq-1
	Instrument    string  `json:"instrument"`
	DurationTicks int     `json:"duration_ticks"`
	Velocity      int     `json:"velocity"`
	Probability   float64 `json:"probability"`
}

// EffectiveTimeSignature returns the signature governing the whole
// document: the first entry, or 4/4 when none is present.
func (d *AnalysisDocument) EffectiveTimeSignature() TimeSignature {
	if d.Metadata == nil || len(d.Metadata.TimeSignatures) == 0 {
		return TimeSignature{BarIndex: 0, Beats: defaultBeats, BeatType: defaultBeatType}
	}
	return d.Metadata.TimeSignatures[0]
}

// Decode unmarshals raw JSON into an untyped intake value suitable for
// Validate.
func Decode(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return raw, nil
}

// Inspect runs both intake stages and reports their outcome without
// failing on defects. The document is non-nil only when the result is OK.
// The error is non-nil only when data is not JSON.
func Inspect(data []byte, opts Options) (ValidationResult, *AnalysisDocument, error) {
	raw, err := Decode(data)
	if err != nil {
		return ValidationResult{}, nil, err
	}

	result := ValidateWithOptions(raw, opts)
	if !result.OK {
		return result, nil, nil
	}

	doc := FromValue(raw)
	if typed := ValidateDocument(doc, opts); !typed.OK {
		return typed, nil, nil
	}
	return result, doc, nil
}

// Parse runs the two-stage intake: the untyped document is validated
// first, and only a document that passes is converted into the typed model.
// Once validation passes, conversion cannot fail.
func Parse(data []byte, opts Options) (*AnalysisDocument, error) {
	result, doc, err := Inspect(data, opts)
	if err != nil {
		return nil, err
	}
	if !result.OK {
		return nil, &InvalidInputError{Errors: result.Errors}
	}
	return doc, nil
}

// UnmarshalJSON decodes leniently, the same way Parse does. JSON null is a
// no-op; any other non-object value is an error.
func (d *AnalysisDocument) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if _, ok := raw.(map[string]any); !ok {
		return fmt.Errorf("%w: document is not an object", ErrMalformedDocument)
	}
	*d = *FromValue(raw)
	return nil
}
