package puzzle

import (
	"strings"
	"unicode"

	"adventcalendar/internal/models"
)

const defaultVowels = "AEIOU"

// PhraseSolved reports whether every letter of phrase has been guessed.
// Spaces and punctuation are shown from the start.
func PhraseSolved(phrase string, guessed map[rune]bool) bool {
	for _, r := range phrase {
		if !unicode.IsLetter(r) {
			continue
		}
		if !guessed[r] {
			return false
		}
	}
	return true
}

// LetterWheel reveals a fixed phrase one guessed letter at a time.
// Vowels are held behind a side challenge and only revealed once it is confirmed.
type LetterWheel struct {
	phrase     string
	vowels     map[rune]bool
	challenges map[rune]string
	guessed    map[rune]bool
	order      []string
	pending    rune
	attempts   int
}

type LetterWheelState struct {
	Masked    string   `json:"masked"`
	Guessed   []string `json:"guessed"`
	Pending   string   `json:"pending,omitempty"`
	Challenge string   `json:"challenge,omitempty"`
	Solved    bool     `json:"solved"`
	Attempts  int      `json:"attempts"`
}

func NewLetterWheel(phrase, vowels string, challenges map[string]string) *LetterWheel {
	if vowels == "" {
		vowels = defaultVowels
	}
	w := &LetterWheel{
		phrase:     strings.ToUpper(strings.TrimSpace(phrase)),
		vowels:     make(map[rune]bool),
		challenges: make(map[rune]string),
		guessed:    make(map[rune]bool),
	}
	for _, r := range strings.ToUpper(vowels) {
		w.vowels[r] = true
	}
	for k, v := range challenges {
		if r := []rune(strings.ToUpper(k)); len(r) == 1 {
			w.challenges[r[0]] = v
		}
	}
	return w
}

func (w *LetterWheel) Kind() models.PuzzleKind { return models.KindLetterWheel }
func (w *LetterWheel) Solved() bool            { return PhraseSolved(w.phrase, w.guessed) }
func (w *LetterWheel) Attempts() int           { return w.attempts }

// Submit handles "guess" (default), "confirm" and "cancel" actions
func (w *LetterWheel) Submit(in Input) Outcome {
	if w.Solved() {
		return Outcome{Accepted: true}
	}
	switch in.Action {
	case "confirm":
		if w.pending == 0 {
			return Outcome{}
		}
		letter := w.pending
		w.pending = 0
		return w.reveal(letter)
	case "cancel":
		w.pending = 0
		return Outcome{}
	}

	letters := []rune(strings.ToUpper(strings.TrimSpace(in.Letter)))
	if len(letters) != 1 || !unicode.IsLetter(letters[0]) {
		return Outcome{}
	}
	letter := letters[0]
	if w.guessed[letter] {
		return Outcome{}
	}
	if w.vowels[letter] {
		w.pending = letter
		return Outcome{Pending: w.challengeFor(letter)}
	}
	return w.reveal(letter)
}

func (w *LetterWheel) reveal(letter rune) Outcome {
	w.guessed[letter] = true
	w.order = append(w.order, string(letter))
	if !strings.ContainsRune(w.phrase, letter) {
		w.attempts++
	}
	return Outcome{Accepted: w.Solved(), Moved: true}
}

func (w *LetterWheel) challengeFor(letter rune) string {
	if text, ok := w.challenges[letter]; ok {
		return text
	}
	return "Complete a challenge to reveal " + string(letter)
}

// Masked renders the phrase with unguessed letters as underscores
func (w *LetterWheel) Masked() string {
	var b strings.Builder
	for _, r := range w.phrase {
		switch {
		case r == ' ':
			b.WriteString("  ")
		case !unicode.IsLetter(r), w.guessed[r]:
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteString("_ ")
		}
	}
	return strings.TrimSpace(b.String())
}

func (w *LetterWheel) State() any {
	st := LetterWheelState{
		Masked:   w.Masked(),
		Guessed:  append([]string{}, w.order...),
		Solved:   w.Solved(),
		Attempts: w.attempts,
	}
	if w.pending != 0 {
		st.Pending = string(w.pending)
		st.Challenge = w.challengeFor(w.pending)
	}
	return st
}
