package notation

import "encoding/xml"

// MusicXMLVersion is the MusicXML version rendered scores declare
const MusicXMLVersion = "4.0"

const (
	musicXMLDoctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`

	partID   = "P1"
	partName = "Drum Set"

	clefSign       = "F"
	clefLine       = 4
	displayStep    = "C"
	displayOctave  = 4
	noteType       = "eighth"
	tempoBeatUnit  = "quarter"
	tempoPlacement = "above"
)

// ScorePartwise is the subset of the MusicXML partwise schema the renderer
// emits. It also decodes rendered output.
type ScorePartwise struct {
	XMLName  xml.Name `xml:"score-partwise"`
	Version  string   `xml:"version,attr"`
	Work     *Work    `xml:"work,omitempty"`
	PartList PartList `xml:"part-list"`
	Parts    []Part   `xml:"part"`
}

type Work struct {
	Title string `xml:"work-title"`
}

type PartList struct {
	ScoreParts []ScorePart `xml:"score-part"`
}

type ScorePart struct {
	ID               string            `xml:"id,attr"`
	Name             string            `xml:"part-name"`
	ScoreInstruments []ScoreInstrument `xml:"score-instrument"`
}

type ScoreInstrument struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"instrument-name"`
}

type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

type Measure struct {
	Number     int         `xml:"number,attr"`
	Attributes *Attributes `xml:"attributes,omitempty"`
	Direction  *Direction  `xml:"direction,omitempty"`
	Notes      []Note      `xml:"note"`
}

type Attributes struct {
	Divisions int  `xml:"divisions"`
	Time      Time `xml:"time"`
	Clef      Clef `xml:"clef"`
}

type Time struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type Clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

// Direction carries the tempo marking of the first measure
type Direction struct {
	Placement     string        `xml:"placement,attr,omitempty"`
	DirectionType DirectionType `xml:"direction-type"`
	Sound         *Sound        `xml:"sound,omitempty"`
}

type DirectionType struct {
	Metronome Metronome `xml:"metronome"`
}

type Metronome struct {
	BeatUnit  string `xml:"beat-unit"`
	PerMinute string `xml:"per-minute"`
}

type Sound struct {
	Tempo string `xml:"tempo,attr"`
}

// Note is an unpitched percussion note
type Note struct {
	Unpitched  Unpitched           `xml:"unpitched"`
	Duration   int                 `xml:"duration"`
	Instrument InstrumentReference `xml:"instrument"`
	Voice      int                 `xml:"voice"`
	Type       string              `xml:"type"`
	Notehead   string              `xml:"notehead,omitempty"`
}

type Unpitched struct {
	DisplayStep   string `xml:"display-step"`
	DisplayOctave int    `xml:"display-octave"`
}

type InstrumentReference struct {
	ID string `xml:"id,attr"`
}
