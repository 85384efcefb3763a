package puzzle

import (
	"strings"

	"adventcalendar/internal/models"
)

// Cell is a selected grid position
type Cell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

// SelectionResult classifies a word-search selection against its target
type SelectionResult int

const (
	SelectionPartial SelectionResult = iota
	SelectionComplete
	SelectionReset
)

// MatchSelection compares the concatenated selected letters with target.
// Anything that is not a prefix of target must reset the selection.
func MatchSelection(selected, target string) SelectionResult {
	switch {
	case selected == target:
		return SelectionComplete
	case strings.HasPrefix(target, selected):
		return SelectionPartial
	default:
		return SelectionReset
	}
}

// WordSearch tracks the in-progress cell selection on a letter grid
type WordSearch struct {
	grid     [][]rune
	target   string
	selected []Cell
	solved   bool
	attempts int
}

type WordSearchState struct {
	Grid     []string `json:"grid"`
	Selected []Cell   `json:"selected"`
	Solved   bool     `json:"solved"`
	Attempts int      `json:"attempts"`
}

func NewWordSearch(rows []string, target string) *WordSearch {
	grid := make([][]rune, len(rows))
	for i, row := range rows {
		grid[i] = []rune(strings.ToUpper(row))
	}
	return &WordSearch{grid: grid, target: strings.ToUpper(target)}
}

func (w *WordSearch) Kind() models.PuzzleKind { return models.KindWordSearch }
func (w *WordSearch) Solved() bool            { return w.solved }
func (w *WordSearch) Attempts() int           { return w.attempts }

// Submit selects the cell at in.Row, in.Col. Cells outside the grid are ignored.
func (w *WordSearch) Submit(in Input) Outcome {
	if w.solved {
		return Outcome{Accepted: true}
	}
	if in.Row < 0 || in.Row >= len(w.grid) || in.Col < 0 || in.Col >= len(w.grid[in.Row]) {
		return Outcome{}
	}

	w.selected = append(w.selected, Cell{Row: in.Row, Col: in.Col, Letter: string(w.grid[in.Row][in.Col])})

	switch MatchSelection(w.word(), w.target) {
	case SelectionComplete:
		w.solved = true
		return Outcome{Accepted: true, Moved: true}
	case SelectionPartial:
		return Outcome{Moved: true}
	default:
		w.selected = nil
		w.attempts++
		return Outcome{Moved: true}
	}
}

func (w *WordSearch) word() string {
	var b strings.Builder
	for _, c := range w.selected {
		b.WriteString(c.Letter)
	}
	return b.String()
}

func (w *WordSearch) State() any {
	rows := make([]string, len(w.grid))
	for i, r := range w.grid {
		rows[i] = string(r)
	}
	return WordSearchState{
		Grid:     rows,
		Selected: append([]Cell{}, w.selected...),
		Solved:   w.solved,
		Attempts: w.attempts,
	}
}
