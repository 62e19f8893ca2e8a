package notation

// Tie marks how a laid-out note connects to its neighbours.
type Tie int

const (
	TieNone Tie = iota
	TieStart
	TieStop
	TieContinue
)

// Placed is an event slice positioned inside a measure.
type Placed struct {
	Event  Event
	Offset Duration // from the start of the measure
	Tie    Tie
}

type Measure struct {
	Number int
	Items  []Placed
}

// Measures lays the part's events out into bars of the time signature's
// length. An event that crosses a barline is cut at the barline: note pieces
// are tied, rest pieces are not. The part itself is not changed. A part with
// no events still yields one empty measure.
func (p *Part) Measures() []Measure {
	length := p.TimeSignature.MeasureLength()
	if length <= 0 {
		length = CommonTime.MeasureLength()
	}

	measures := []Measure{{Number: 1}}
	var offset Duration

	for _, e := range p.Events {
		remaining := e.duration
		first := true
		for remaining > 0 {
			if offset == length {
				measures = append(measures, Measure{Number: len(measures) + 1})
				offset = 0
			}

			chunk := remaining
			if space := length - offset; chunk > space {
				chunk = space
			}
			last := chunk == remaining

			tie := TieNone
			if !e.rest {
				switch {
				case first && !last:
					tie = TieStart
				case !first && last:
					tie = TieStop
				case !first && !last:
					tie = TieContinue
				}
			}

			piece := e
			piece.duration = chunk
			m := &measures[len(measures)-1]
			m.Items = append(m.Items, Placed{Event: piece, Offset: offset, Tie: tie})

			offset += chunk
			remaining -= chunk
			first = false
		}
	}
	return measures
}
