package puzzle

import (
	"strings"

	"adventcalendar/internal/models"
)

// MatchRiddle accepts input that contains any accepted phrase after
// case-folding and trimming both sides.
func MatchRiddle(input string, accept []string) bool {
	in := normalize(input)
	if in == "" {
		return false
	}
	for _, a := range accept {
		a = normalize(a)
		if a != "" && strings.Contains(in, a) {
			return true
		}
	}
	return false
}

// MatchExact accepts input equal to one accepted phrase after case-folding and trimming.
func MatchExact(input string, accept []string) bool {
	in := normalize(input)
	for _, a := range accept {
		if in == normalize(a) {
			return true
		}
	}
	return false
}

// MatchCode compares a code after trimming only. Codes are case sensitive.
func MatchCode(input, answer string) bool {
	return strings.TrimSpace(input) == strings.TrimSpace(answer)
}

type answerPuzzle struct {
	kind     models.PuzzleKind
	match    func(string) bool
	solved   bool
	attempts int
	last     string
}

type AnswerState struct {
	Solved   bool   `json:"solved"`
	Attempts int    `json:"attempts"`
	Last     string `json:"last,omitempty"`
}

func newAnswerPuzzle(def models.PuzzleDef, match func(string) bool) *answerPuzzle {
	return &answerPuzzle{kind: def.Kind, match: match}
}

func (p *answerPuzzle) Kind() models.PuzzleKind { return p.kind }
func (p *answerPuzzle) Solved() bool            { return p.solved }
func (p *answerPuzzle) Attempts() int           { return p.attempts }

func (p *answerPuzzle) Submit(in Input) Outcome {
	if p.solved {
		return Outcome{Accepted: true}
	}
	p.last = in.Answer
	if p.match(in.Answer) {
		p.solved = true
		return Outcome{Accepted: true, Moved: true}
	}
	p.attempts++
	return Outcome{}
}

func (p *answerPuzzle) State() any {
	return AnswerState{Solved: p.solved, Attempts: p.attempts, Last: p.last}
}
