package puzzle

import (
	"math"

	"adventcalendar/internal/models"
)

const (
	defaultAreaWidth  = 300
	defaultBlockWidth = 100
	defaultMinWidth   = 20
	defaultSpeed      = 3
	speedStep         = 0.5
	maxSpeed          = 8
	perfectOffset     = 5
)

// Overlap returns the width shared by [x, x+w) and [x0, x0+w0), never negative
func Overlap(x, w, x0, w0 float64) float64 {
	return math.Max(0, math.Min(x+w, x0+w0)-math.Max(x, x0))
}

// BlockPosition is the left edge of a block that spawned at 0 and has moved
// for ticks frames at speed, bouncing between 0 and area-width.
func BlockPosition(ticks int, speed, area, width float64) float64 {
	span := area - width
	if span <= 0 || ticks <= 0 {
		return 0
	}
	d := math.Mod(float64(ticks)*speed, 2*span)
	if d <= span {
		return d
	}
	return 2*span - d
}

// BlockStackConfig parameterises the stacking game
type BlockStackConfig struct {
	Word       string
	AreaWidth  float64
	BlockWidth float64
	MinWidth   float64
	Speed      float64
}

func blockStackConfig(def models.PuzzleDef) BlockStackConfig {
	cfg := BlockStackConfig{
		Word:       def.Word,
		AreaWidth:  def.AreaWidth,
		BlockWidth: def.BlockWidth,
		MinWidth:   def.MinWidth,
		Speed:      def.Speed,
	}
	if cfg.AreaWidth <= 0 {
		cfg.AreaWidth = defaultAreaWidth
	}
	if cfg.BlockWidth <= 0 {
		cfg.BlockWidth = defaultBlockWidth
	}
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = defaultMinWidth
	}
	if cfg.Speed <= 0 {
		cfg.Speed = defaultSpeed
	}
	return cfg
}

// Block is a placed block
type Block struct {
	Letter string  `json:"letter"`
	X      float64 `json:"x"`
	Width  float64 `json:"width"`
}

// BlockStack is one run of the stacking game. A failed run stays failed
// until it is restarted.
type BlockStack struct {
	cfg      BlockStackConfig
	letters  []rune
	blocks   []Block
	speed    float64
	failed   bool
	attempts int
}

type BlockStackState struct {
	AreaWidth  float64 `json:"area_width"`
	Blocks     []Block `json:"blocks"`
	NextLetter string  `json:"next_letter,omitempty"`
	NextWidth  float64 `json:"next_width"`
	Speed      float64 `json:"speed"`
	Failed     bool    `json:"failed"`
	Solved     bool    `json:"solved"`
	Attempts   int     `json:"attempts"`
}

func NewBlockStack(cfg BlockStackConfig) *BlockStack {
	b := &BlockStack{cfg: cfg, letters: []rune(cfg.Word)}
	b.restart()
	return b
}

func (b *BlockStack) restart() {
	b.failed = false
	b.speed = b.cfg.Speed
	b.blocks = []Block{{
		Letter: string(b.letters[0]),
		X:      (b.cfg.AreaWidth - b.cfg.BlockWidth) / 2,
		Width:  b.cfg.BlockWidth,
	}}
}

func (b *BlockStack) Kind() models.PuzzleKind { return models.KindBlockStack }
func (b *BlockStack) Solved() bool            { return len(b.blocks) == len(b.letters) }
func (b *BlockStack) Attempts() int           { return b.attempts }

// Submit places the moving block after in.Ticks frames, or restarts the run
// when in.Action is "restart".
func (b *BlockStack) Submit(in Input) Outcome {
	if in.Action == "restart" {
		if b.Solved() {
			return Outcome{Accepted: true}
		}
		b.restart()
		return Outcome{Moved: true}
	}
	if b.Solved() {
		return Outcome{Accepted: true}
	}
	if b.failed {
		return Outcome{Failed: true}
	}

	prev := b.blocks[len(b.blocks)-1]
	x := BlockPosition(in.Ticks, b.speed, b.cfg.AreaWidth, prev.Width)
	return b.place(x)
}

func (b *BlockStack) place(x float64) Outcome {
	prev := b.blocks[len(b.blocks)-1]
	overlap := Overlap(x, prev.Width, prev.X, prev.Width)
	if overlap <= 0 || overlap < b.cfg.MinWidth {
		b.failed = true
		b.attempts++
		return Outcome{Moved: true, Failed: true}
	}

	placed := Block{
		Letter: string(b.letters[len(b.blocks)]),
		X:      math.Max(x, prev.X),
		Width:  overlap,
	}
	perfect := math.Abs(placed.X-prev.X) < perfectOffset && placed.Width == prev.Width
	b.blocks = append(b.blocks, placed)

	if len(b.blocks)%2 == 0 {
		b.speed = math.Min(b.speed+speedStep, maxSpeed)
	}
	return Outcome{Accepted: b.Solved(), Moved: true, Perfect: perfect}
}

func (b *BlockStack) State() any {
	st := BlockStackState{
		AreaWidth: b.cfg.AreaWidth,
		Blocks:    append([]Block(nil), b.blocks...),
		Speed:     b.speed,
		Failed:    b.failed,
		Solved:    b.Solved(),
		Attempts:  b.attempts,
	}
	if !st.Solved && !b.failed {
		st.NextLetter = string(b.letters[len(b.blocks)])
		st.NextWidth = b.blocks[len(b.blocks)-1].Width
	}
	return st
}
