// Package puzzle holds the per-kind answer validators and the ephemeral
// attempt state built around them.
//
// Each kind exposes a pure predicate (MatchRiddle, Overlap, IsCanonical, ...)
// and a Puzzle implementation that tracks one attempt. A rejected input never
// returns an error: it is reported through Outcome and the attempt counter.
package puzzle

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"adventcalendar/internal/models"
)

var ErrUnknownKind = errors.New("unknown puzzle kind")

// Input carries one submission. Action selects the operation for puzzles
// that support more than one; the remaining fields are read per kind.
type Input struct {
	Action   string  `json:"action,omitempty"`
	Answer   string  `json:"answer,omitempty"`
	Row      int     `json:"row,omitempty"`
	Col      int     `json:"col,omitempty"`
	Position int     `json:"position,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Ticks    int     `json:"ticks,omitempty"`
	Letter   string  `json:"letter,omitempty"`
}

// Outcome is the result of one submission
type Outcome struct {
	Accepted bool   `json:"accepted"`
	Moved    bool   `json:"moved"`
	Failed   bool   `json:"failed,omitempty"`
	Perfect  bool   `json:"perfect,omitempty"`
	Pending  string `json:"pending,omitempty"`
}

// Puzzle is one in-progress attempt at a puzzle definition
type Puzzle interface {
	Kind() models.PuzzleKind
	Submit(in Input) Outcome
	Solved() bool
	Attempts() int
	State() any
}

// New builds a fresh attempt for def. rng is used by kinds that shuffle.
func New(def models.PuzzleDef, rng *rand.Rand) (Puzzle, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}
	switch def.Kind {
	case models.KindRiddle:
		return newAnswerPuzzle(def, func(in string) bool { return MatchRiddle(in, def.Accept) }), nil
	case models.KindExact:
		return newAnswerPuzzle(def, func(in string) bool { return MatchExact(in, def.Accept) }), nil
	case models.KindCode:
		return newAnswerPuzzle(def, func(in string) bool { return MatchCode(in, def.Answer) }), nil
	case models.KindMorse:
		return newMorsePuzzle(def), nil
	case models.KindWordSearch:
		return NewWordSearch(def.Grid, def.Target), nil
	case models.KindSliding:
		return NewSliding(def.Size, rng), nil
	case models.KindFocus:
		return newFocusPuzzle(def), nil
	case models.KindBlockStack:
		return NewBlockStack(blockStackConfig(def)), nil
	case models.KindLetterWheel:
		return NewLetterWheel(def.Phrase, def.Vowels, def.Challenges), nil
	case models.KindRoute:
		return NewRoute(def.Steps), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, def.Kind)
	}
}

// Validate checks that def carries the parameters its kind needs
func Validate(def models.PuzzleDef) error {
	if def.ID == "" {
		return errors.New("puzzle id is required")
	}
	switch def.Kind {
	case models.KindRiddle, models.KindExact:
		if len(def.Accept) == 0 {
			return fmt.Errorf("puzzle %s: accept list is required", def.ID)
		}
	case models.KindCode:
		if strings.TrimSpace(def.Answer) == "" {
			return fmt.Errorf("puzzle %s: answer is required", def.ID)
		}
	case models.KindMorse:
		if def.Message == "" || len(def.Accept) == 0 {
			return fmt.Errorf("puzzle %s: message and accept are required", def.ID)
		}
		if _, err := DecodeMorse(def.Message); err != nil {
			return fmt.Errorf("puzzle %s: %w", def.ID, err)
		}
	case models.KindWordSearch:
		if len(def.Grid) == 0 || def.Target == "" {
			return fmt.Errorf("puzzle %s: grid and target are required", def.ID)
		}
		width := len([]rune(def.Grid[0]))
		for i, row := range def.Grid {
			if len([]rune(row)) != width {
				return fmt.Errorf("puzzle %s: grid row %d has width %d, want %d", def.ID, i, len([]rune(row)), width)
			}
		}
	case models.KindSliding:
		if def.Size < 2 || def.Size > 6 {
			return fmt.Errorf("puzzle %s: size must be between 2 and 6", def.ID)
		}
	case models.KindFocus:
		if def.Tolerance < 0 {
			return fmt.Errorf("puzzle %s: tolerance must not be negative", def.ID)
		}
		if def.Max < def.Min {
			return fmt.Errorf("puzzle %s: max must not be below min", def.ID)
		}
	case models.KindBlockStack:
		cfg := blockStackConfig(def)
		if len([]rune(cfg.Word)) < 2 {
			return fmt.Errorf("puzzle %s: word needs at least two letters", def.ID)
		}
		if cfg.BlockWidth > cfg.AreaWidth || cfg.MinWidth > cfg.BlockWidth {
			return fmt.Errorf("puzzle %s: widths must satisfy min <= block <= area", def.ID)
		}
	case models.KindLetterWheel:
		if strings.TrimSpace(def.Phrase) == "" {
			return fmt.Errorf("puzzle %s: phrase is required", def.ID)
		}
	case models.KindRoute:
		if len(def.Steps) == 0 {
			return fmt.Errorf("puzzle %s: at least one step is required", def.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, def.Kind)
	}
	return nil
}

// normalize case-folds and trims free text before matching
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
