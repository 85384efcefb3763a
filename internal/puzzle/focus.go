package puzzle

import (
	"math"

	"adventcalendar/internal/models"
)

// WithinTolerance reports whether |value - target| <= tolerance
func WithinTolerance(value, target, tolerance float64) bool {
	return math.Abs(value-target) <= tolerance
}

type focusPuzzle struct {
	target    float64
	tolerance float64
	min, max  float64
	solved    bool
	attempts  int
	last      float64
}

type FocusState struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Last     float64 `json:"last"`
	Solved   bool    `json:"solved"`
	Attempts int     `json:"attempts"`
}

func newFocusPuzzle(def models.PuzzleDef) *focusPuzzle {
	return &focusPuzzle{target: def.Value, tolerance: def.Tolerance, min: def.Min, max: def.Max}
}

func (p *focusPuzzle) Kind() models.PuzzleKind { return models.KindFocus }
func (p *focusPuzzle) Solved() bool            { return p.solved }
func (p *focusPuzzle) Attempts() int           { return p.attempts }

func (p *focusPuzzle) Submit(in Input) Outcome {
	if p.solved {
		return Outcome{Accepted: true}
	}
	p.last = in.Value
	outOfRange := p.max > p.min && (in.Value < p.min || in.Value > p.max)
	if !outOfRange && WithinTolerance(in.Value, p.target, p.tolerance) {
		p.solved = true
		return Outcome{Accepted: true, Moved: true}
	}
	p.attempts++
	return Outcome{}
}

func (p *focusPuzzle) State() any {
	return FocusState{Min: p.min, Max: p.max, Last: p.last, Solved: p.solved, Attempts: p.attempts}
}
