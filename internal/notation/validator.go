package notation

import (
	"encoding/json"
	"fmt"
	"math"
)

// ValidationResult reports whether a document can be rendered. Errors is
// never nil and lists messages in the order the checks ran.
type ValidationResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// Validate inspects an untyped analysis document (as produced by
// json.Unmarshal into an any) and reports every defect it finds. It never
// panics on malformed input.
func Validate(raw any) ValidationResult {
	return ValidateWithOptions(raw, Options{})
}

// ValidateWithOptions is Validate with configurable strictness
func ValidateWithOptions(raw any, opts Options) ValidationResult {
	doc, _ := raw.(map[string]any)
	errs := make([]string, 0)

	metadata := doc["metadata"]
	grid := doc["grid"]
	events, isArray := doc["events"].([]any)

	if !truthy(metadata) {
		errs = append(errs, "Missing metadata")
	}
	if !truthy(grid) {
		errs = append(errs, "Missing grid")
	}
	if !isArray {
		errs = append(errs, "Missing events array")
	}
	if truthy(grid) && !truthy(field(grid, "divisions_per_quarter")) {
		errs = append(errs, "Missing divisions_per_quarter")
	}

	for idx, ev := range events {
		instrument := field(ev, "instrument")
		if !truthy(instrument) {
			errs = append(errs, fmt.Sprintf("Event %d missing instrument", idx))
		}
		if !numeric(field(ev, "bar")) {
			errs = append(errs, fmt.Sprintf("Event %d missing bar", idx))
		}
		if !numeric(field(ev, "beat")) {
			errs = append(errs, fmt.Sprintf("Event %d missing beat", idx))
		}
		if opts.StrictInstruments && truthy(instrument) {
			name, isString := instrument.(string)
			if _, known := LookupInstrument(name); !isString || !known {
				errs = append(errs, fmt.Sprintf("Event %d unknown instrument %v", idx, instrument))
			}
		}
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

// ValidateDocument applies the same checks to a typed document. Bar and
// beat are always numeric once typed, so only the structural and
// instrument checks can fail here.
func ValidateDocument(doc *AnalysisDocument, opts Options) ValidationResult {
	errs := make([]string, 0)
	if doc == nil {
		doc = &AnalysisDocument{}
	}

	if doc.Metadata == nil {
		errs = append(errs, "Missing metadata")
	}
	if doc.Grid == nil {
		errs = append(errs, "Missing grid")
	}
	if doc.Events == nil {
		errs = append(errs, "Missing events array")
	}
	if doc.Grid != nil && doc.Grid.DivisionsPerQuarter == 0 {
		errs = append(errs, "Missing divisions_per_quarter")
	}

	for idx, ev := range doc.Events {
		if ev.Instrument == "" {
			errs = append(errs, fmt.Sprintf("Event %d missing instrument", idx))
			continue
		}
		if opts.StrictInstruments {
			if _, known := LookupInstrument(ev.Instrument); !known {
				errs = append(errs, fmt.Sprintf("Event %d unknown instrument %s", idx, ev.Instrument))
			}
		}
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

// field reads key from v when v is a JSON object, nil otherwise
func field(v any, key string) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj[key]
}

// truthy follows JavaScript truthiness for decoded JSON values
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	default:
		// Objects and arrays are truthy even when empty
		return true
	}
}

func numeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return true
	default:
		return false
	}
}
