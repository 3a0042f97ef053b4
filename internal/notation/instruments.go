package notation

import (
	"sort"
	"strconv"
	"strings"
)

// InstrumentMapping is the notation identity of a logical drum instrument
type InstrumentMapping struct {
	ID       string `json:"id"`                 // Score instrument id referenced by <instrument id="...">
	Name     string `json:"name"`               // Display name in the part list
	GM       int    `json:"gm"`                 // General MIDI percussion key
	Notehead string `json:"notehead,omitempty"` // Empty means the default notehead
	Voice    int    `json:"voice"`              // 1 = hands, 2 = feet
}

// instrumentMap is read-only after package init. Adding an instrument is a
// data change here; the renderer does not need to know about it.
var instrumentMap = map[string]InstrumentMapping{
	"kick":         {ID: "P1-X2", Name: "Kick Drum", GM: 36, Voice: 2},
	"snare":        {ID: "P1-X4", Name: "Snare", GM: 38, Voice: 1},
	"clap":         {ID: "P1-X5", Name: "Hand Clap", GM: 39, Notehead: "x", Voice: 1},
	"tom_floor":    {ID: "P1-X6", Name: "Floor Tom", GM: 43, Voice: 1},
	"hihat_closed": {ID: "P1-X8", Name: "Closed Hi-Hat", GM: 42, Notehead: "x", Voice: 1},
	"tom_mid":      {ID: "P1-X9", Name: "Mid Tom", GM: 47, Voice: 1},
	"hihat_open":   {ID: "P1-X10", Name: "Open Hi-Hat", GM: 46, Notehead: "circle-x", Voice: 1},
	"tom_high":     {ID: "P1-X12", Name: "High Tom", GM: 50, Voice: 1},
	"crash":        {ID: "P1-X13", Name: "Crash Cymbal", GM: 49, Notehead: "x", Voice: 1},
	"cowbell":      {ID: "P1-X15", Name: "Cowbell", GM: 56, Notehead: "triangle", Voice: 1},
	"ride":         {ID: "P1-X16", Name: "Ride Cymbal", GM: 51, Notehead: "x", Voice: 1},
}

// instrumentOrder holds the map keys ordered by notation id
var instrumentOrder = sortedInstrumentKeys()

// LookupInstrument returns the mapping for a logical instrument name
func LookupInstrument(name string) (InstrumentMapping, bool) {
	m, ok := instrumentMap[name]
	return m, ok
}

// Instruments returns the known instrument keys ordered by notation id
func Instruments() []string {
	out := make([]string, len(instrumentOrder))
	copy(out, instrumentOrder)
	return out
}

func sortedInstrumentKeys() []string {
	keys := make([]string, 0, len(instrumentMap))
	for k := range instrumentMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return instrumentIDNumber(instrumentMap[keys[i]].ID) < instrumentIDNumber(instrumentMap[keys[j]].ID)
	})
	return keys
}

// instrumentIDNumber extracts N from "P1-XN" so ids sort numerically
func instrumentIDNumber(id string) int {
	n, err := strconv.Atoi(id[strings.LastIndex(id, "X")+1:])
	if err != nil {
		return 0
	}
	return n
}
