package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/himanishpuri/AcousticScore/internal/notation"
)

const musicXMLDoctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 4.0 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">`

type scorePartwise struct {
	XMLName        xml.Name       `xml:"score-partwise"`
	Version        string         `xml:"version,attr"`
	Work           *work          `xml:"work,omitempty"`
	Identification identification `xml:"identification"`
	PartList       partList       `xml:"part-list"`
	Parts          []partwisePart `xml:"part"`
}

type work struct {
	Title string `xml:"work-title"`
}

type identification struct {
	Software string `xml:"encoding>software"`
}

type partList struct {
	ScoreParts []scorePart `xml:"score-part"`
}

type scorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type partwisePart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number     string      `xml:"number,attr"`
	Attributes *attributes `xml:"attributes,omitempty"`
	Direction  *direction  `xml:"direction,omitempty"`
	Notes      []xmlNote   `xml:"note"`
}

type attributes struct {
	Divisions int     `xml:"divisions"`
	Time      xmlTime `xml:"time"`
	Clef      clef    `xml:"clef"`
}

type xmlTime struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type direction struct {
	Placement string        `xml:"placement,attr"`
	Type      directionType `xml:"direction-type"`
	Sound     sound         `xml:"sound"`
}

type directionType struct {
	Metronome metronome `xml:"metronome"`
}

type metronome struct {
	BeatUnit  string `xml:"beat-unit"`
	PerMinute int    `xml:"per-minute"`
}

type sound struct {
	Tempo int `xml:"tempo,attr"`
}

type empty struct{}

type xmlNote struct {
	Rest       *empty     `xml:"rest,omitempty"`
	Pitch      *xmlPitch  `xml:"pitch,omitempty"`
	Duration   int        `xml:"duration"`
	Ties       []tie      `xml:"tie"`
	Voice      string     `xml:"voice"`
	Type       string     `xml:"type,omitempty"`
	Dots       []empty    `xml:"dot"`
	Accidental string     `xml:"accidental,omitempty"`
	Notations  *notations `xml:"notations,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type tie struct {
	Type string `xml:"type,attr"`
}

type notations struct {
	Tied []tie `xml:"tied"`
}

var sharpSpelling = [12]struct {
	step  string
	alter int
}{
	{"C", 0}, {"C", 1}, {"D", 0}, {"D", 1}, {"E", 0}, {"F", 0},
	{"F", 1}, {"G", 0}, {"G", 1}, {"A", 0}, {"A", 1}, {"B", 0},
}

// spell names a note number with sharps. Octave 4 starts at middle C (60).
func spell(n int) xmlPitch {
	pc := ((n % 12) + 12) % 12
	octave := n / 12
	if n < 0 && n%12 != 0 {
		octave--
	}
	s := sharpSpelling[pc]
	return xmlPitch{Step: s.step, Alter: s.alter, Octave: octave - 1}
}

var noteTypes = []struct {
	name  string
	ticks notation.Duration
}{
	{"whole", notation.Whole},
	{"half", notation.Half},
	{"quarter", notation.Quarter},
	{"eighth", notation.Eighth},
	{"16th", notation.Sixteenth},
	{"32nd", notation.Sixteenth / 2},
	{"64th", notation.Sixteenth / 4},
}

// noteType maps a duration to a MusicXML type name and dot count. Durations
// that are not a plain, dotted or double-dotted value get no type.
func noteType(d notation.Duration) (string, int) {
	for _, nt := range noteTypes {
		switch d {
		case nt.ticks:
			return nt.name, 0
		case nt.ticks * 3 / 2:
			return nt.name, 1
		case nt.ticks * 7 / 4:
			return nt.name, 2
		}
	}
	return "", 0
}

func tieTypes(t notation.Tie) []string {
	switch t {
	case notation.TieStart:
		return []string{"start"}
	case notation.TieStop:
		return []string{"stop"}
	case notation.TieContinue:
		return []string{"stop", "start"}
	}
	return nil
}

func buildNote(p notation.Placed) xmlNote {
	n := xmlNote{
		Duration: int(p.Event.Duration()),
		Voice:    "1",
	}
	name, dots := noteType(p.Event.Duration())
	n.Type = name
	if dots > 0 {
		n.Dots = make([]empty, dots)
	}

	num, ok := p.Event.Pitch()
	if !ok {
		n.Rest = &empty{}
		return n
	}

	sp := spell(num)
	n.Pitch = &sp
	if sp.Alter == 1 {
		n.Accidental = "sharp"
	}
	if types := tieTypes(p.Tie); len(types) > 0 {
		n.Notations = &notations{}
		for _, t := range types {
			n.Ties = append(n.Ties, tie{Type: t})
			n.Notations.Tied = append(n.Notations.Tied, tie{Type: t})
		}
	}
	return n
}

func buildMusicXML(score *notation.Score) *scorePartwise {
	part := &score.Part
	doc := &scorePartwise{
		Version:        "4.0",
		Identification: identification{Software: "AcousticScore"},
		PartList:       partList{ScoreParts: []scorePart{{ID: "P1", Name: part.Name}}},
	}
	if score.Title != "" {
		doc.Work = &work{Title: score.Title}
	}

	measures := part.Measures()
	out := partwisePart{ID: "P1", Measures: make([]xmlMeasure, 0, len(measures))}
	for _, m := range measures {
		xm := xmlMeasure{Number: strconv.Itoa(m.Number)}
		if m.Number == 1 {
			xm.Attributes = &attributes{
				Divisions: notation.Divisions,
				Time:      xmlTime{Beats: part.TimeSignature.Beats, BeatType: part.TimeSignature.BeatUnit},
				Clef:      clef{Sign: "G", Line: 2},
			}
			xm.Direction = &direction{
				Placement: "above",
				Type:      directionType{Metronome: metronome{BeatUnit: "quarter", PerMinute: part.Tempo.BPM}},
				Sound:     sound{Tempo: part.Tempo.BPM},
			}
		}
		for _, p := range m.Items {
			xm.Notes = append(xm.Notes, buildNote(p))
		}
		out.Measures = append(out.Measures, xm)
	}
	doc.Parts = []partwisePart{out}
	return doc
}

func encodeMusicXML(w io.Writer, score *notation.Score) error {
	if _, err := io.WriteString(w, xml.Header+musicXMLDoctype+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(buildMusicXML(score)); err != nil {
		return fmt.Errorf("failed to encode MusicXML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
