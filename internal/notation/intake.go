package notation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FromValue converts a decoded JSON value into the typed model. It never
// fails: values of the wrong type are coerced the way arithmetic on the
// wire format coerces them.
//
//   - numbers are floored to integers where the model is integral
//   - numeric strings count as numbers, true as 1, anything else as 0
//   - a non-string instrument keeps its printed form, so it is looked up
//     (and skipped) like any other unknown key
//   - time signature entries that are not objects are ignored
//
// Absent metadata, grid or events stay nil so ValidateDocument reports
// them the same way Validate does.
func FromValue(raw any) *AnalysisDocument {
	obj, _ := raw.(map[string]any)
	doc := &AnalysisDocument{}

	if truthy(obj["metadata"]) {
		doc.Metadata = metadataFromValue(obj["metadata"])
	}
	if truthy(obj["grid"]) {
		doc.Grid = &Grid{
			PPQ:                 intValue(field(obj["grid"], "ppq")),
			DivisionsPerQuarter: intValue(field(obj["grid"], "divisions_per_quarter")),
		}
	}
	if events, ok := obj["events"].([]any); ok {
		doc.Events = make([]Event, 0, len(events))
		for _, ev := range events {
			doc.Events = append(doc.Events, Event{
				Bar:           intValue(field(ev, "bar")),
				Beat:          intValue(field(ev, "beat")),
				Tick:          intValue(field(ev, "tick")),
				Instrument:    stringValue(field(ev, "instrument")),
				DurationTicks: intValue(field(ev, "duration_ticks")),
				Velocity:      intValue(field(ev, "velocity")),
				Probability:   floatValue(field(ev, "probability")),
			})
		}
	}

	return doc
}

func metadataFromValue(v any) *Metadata {
	md := &Metadata{
		Title:    stringValue(field(v, "title")),
		TempoBPM: floatValue(field(v, "tempo_bpm")),
	}
	sigs, _ := field(v, "time_signatures").([]any)
	for _, sig := range sigs {
		if _, ok := sig.(map[string]any); !ok {
			continue
		}
		md.TimeSignatures = append(md.TimeSignatures, TimeSignature{
			BarIndex: intValue(field(sig, "bar_index")),
			Beats:    intValue(field(sig, "beats")),
			BeatType: intValue(field(sig, "beat_type")),
		})
	}
	return md
}

// floatValue coerces v to a number; NaN and infinities become 0
func floatValue(v any) float64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// intValue floors floatValue(v) and clamps it to the int32 range
func intValue(v any) int {
	f := math.Floor(floatValue(v))
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	default:
		return int(f)
	}
}

// stringValue returns strings as is and prints other non-null values with
// %v, matching the validator's messages
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
