package puzzle

import (
	"fmt"
	"sort"
	"strings"

	"adventcalendar/internal/models"
)

var morseAlphabet = map[string]string{
	"A": ".-", "B": "-...", "C": "-.-.", "D": "-..", "E": ".", "F": "..-.",
	"G": "--.", "H": "....", "I": "..", "J": ".---", "K": "-.-", "L": ".-..",
	"M": "--", "N": "-.", "O": "---", "P": ".--.", "Q": "--.-", "R": ".-.",
	"S": "...", "T": "-", "U": "..-", "V": "...-", "W": ".--", "X": "-..-",
	"Y": "-.--", "Z": "--..",
}

var morseReverse = func() map[string]string {
	out := make(map[string]string, len(morseAlphabet))
	for letter, code := range morseAlphabet {
		out[code] = letter
	}
	return out
}()

// MorseEntry is one row of the reference table shown to the player
type MorseEntry struct {
	Letter string `json:"letter"`
	Code   string `json:"code"`
}

// MorseTable returns the A-Z reference table in alphabetical order
func MorseTable() []MorseEntry {
	out := make([]MorseEntry, 0, len(morseAlphabet))
	for letter, code := range morseAlphabet {
		out = append(out, MorseEntry{Letter: letter, Code: code})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Letter < out[j].Letter })
	return out
}

// DecodeMorse decodes letters separated by single spaces and words separated
// by " / ".
func DecodeMorse(message string) (string, error) {
	var words []string
	for _, word := range strings.Split(strings.TrimSpace(message), "/") {
		var b strings.Builder
		for _, code := range strings.Fields(word) {
			letter, ok := morseReverse[code]
			if !ok {
				return "", fmt.Errorf("invalid morse symbol %q", code)
			}
			b.WriteString(letter)
		}
		if b.Len() > 0 {
			words = append(words, b.String())
		}
	}
	return strings.Join(words, " "), nil
}

type morsePuzzle struct {
	*answerPuzzle
	message string
}

type MorseState struct {
	AnswerState
	Message string       `json:"message"`
	Table   []MorseEntry `json:"table"`
}

func newMorsePuzzle(def models.PuzzleDef) *morsePuzzle {
	accept := def.Accept
	return &morsePuzzle{
		answerPuzzle: newAnswerPuzzle(def, func(in string) bool { return MatchExact(in, accept) }),
		message:      def.Message,
	}
}

func (p *morsePuzzle) State() any {
	return MorseState{
		AnswerState: p.answerPuzzle.State().(AnswerState),
		Message:     p.message,
		Table:       MorseTable(),
	}
}
