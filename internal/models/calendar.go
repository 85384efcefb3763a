package models

// PuzzleKind identifies which validator a puzzle definition is bound to
type PuzzleKind string

const (
	KindRiddle      PuzzleKind = "riddle"
	KindExact       PuzzleKind = "exact"
	KindCode        PuzzleKind = "code"
	KindMorse       PuzzleKind = "morse"
	KindWordSearch  PuzzleKind = "word_search"
	KindSliding     PuzzleKind = "sliding"
	KindFocus       PuzzleKind = "focus"
	KindBlockStack  PuzzleKind = "block_stack"
	KindLetterWheel PuzzleKind = "letter_wheel"
	KindRoute       PuzzleKind = "route"
)

// Calendar is the static content table loaded at startup
type Calendar struct {
	Recipient string        `yaml:"recipient" json:"recipient"`
	Levels    []LevelConfig `yaml:"levels" json:"levels"`
}

// LevelConfig is one dated advent-calendar entry
type LevelConfig struct {
	ID           int         `yaml:"id" json:"id"`
	Title        string      `yaml:"title" json:"title"`
	UnlockDate   string      `yaml:"unlock_date" json:"unlock_date"`
	Briefing     string      `yaml:"briefing" json:"briefing"`
	RealLifeClue string      `yaml:"real_life_clue" json:"real_life_clue"`
	Gate         *Gate       `yaml:"gate,omitempty" json:"-"`
	Puzzles      []PuzzleDef `yaml:"puzzles" json:"-"`
	FinalCode    string      `yaml:"final_code,omitempty" json:"-"`
	OnComplete   Completion  `yaml:"on_complete,omitempty" json:"-"`
	Reward       *Reward     `yaml:"reward,omitempty" json:"-"`
}

// Gate marks the password-protected level. It is exempt from time-gating.
type Gate struct {
	PasswordHash string `yaml:"password_hash"`
	AlsoUnlocks  []int  `yaml:"also_unlocks,omitempty"`
}

// Completion lists levels unlocked once a level is completed
type Completion struct {
	Unlocks []int `yaml:"unlocks,omitempty"`
}

// Reward is the gift revealed when a level is completed
type Reward struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// HintDef is an optional hint guarded by unlock codes
type HintDef struct {
	Text  string   `yaml:"text"`
	Codes []string `yaml:"codes"`
}

// RouteStep is one instruction in a route puzzle
type RouteStep struct {
	Instruction string `yaml:"instruction" json:"instruction"`
	Detail      string `yaml:"detail" json:"detail"`
}

// PuzzleDef describes one puzzle inside a level. Only the fields relevant
// to Kind are read.
type PuzzleDef struct {
	ID       string     `yaml:"id"`
	Kind     PuzzleKind `yaml:"kind"`
	Title    string     `yaml:"title"`
	Prompt   string     `yaml:"prompt"`
	Reveal   string     `yaml:"reveal,omitempty"`
	Fragment string     `yaml:"fragment,omitempty"`
	Hint     *HintDef   `yaml:"hint,omitempty"`

	// riddle, exact, morse
	Accept []string `yaml:"accept,omitempty"`
	// code
	Answer string `yaml:"answer,omitempty"`
	// morse
	Message string `yaml:"message,omitempty"`

	// word_search
	Grid   []string `yaml:"grid,omitempty"`
	Target string   `yaml:"target,omitempty"`

	// sliding
	Size int `yaml:"size,omitempty"`

	// focus
	Value     float64 `yaml:"value,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
	Min       float64 `yaml:"min,omitempty"`
	Max       float64 `yaml:"max,omitempty"`

	// block_stack
	Word       string  `yaml:"word,omitempty"`
	AreaWidth  float64 `yaml:"area_width,omitempty"`
	BlockWidth float64 `yaml:"block_width,omitempty"`
	MinWidth   float64 `yaml:"min_width,omitempty"`
	Speed      float64 `yaml:"speed,omitempty"`

	// letter_wheel
	Phrase     string            `yaml:"phrase,omitempty"`
	Vowels     string            `yaml:"vowels,omitempty"`
	Challenges map[string]string `yaml:"challenges,omitempty"`

	// route
	Steps []RouteStep `yaml:"steps,omitempty"`
}

// Level returns the level with the given id
func (c *Calendar) Level(id int) (*LevelConfig, bool) {
	for i := range c.Levels {
		if c.Levels[i].ID == id {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

// GatedLevel returns the password-protected level, if any
func (c *Calendar) GatedLevel() (*LevelConfig, bool) {
	for i := range c.Levels {
		if c.Levels[i].Gate != nil {
			return &c.Levels[i], true
		}
	}
	return nil, false
}

// Puzzle returns the puzzle definition and its position within the level
func (l *LevelConfig) Puzzle(id string) (*PuzzleDef, int, bool) {
	for i := range l.Puzzles {
		if l.Puzzles[i].ID == id {
			return &l.Puzzles[i], i, true
		}
	}
	return nil, -1, false
}

// FragmentSlots counts puzzles that award a fragment
func (l *LevelConfig) FragmentSlots() int {
	n := 0
	for _, p := range l.Puzzles {
		if p.Fragment != "" {
			n++
		}
	}
	return n
}
