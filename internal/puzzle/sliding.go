package puzzle

import (
	"math/rand/v2"

	"adventcalendar/internal/models"
)

// Tiles are labelled 0..n*n-1 and the highest label is the blank.
// The solved board is ascending order with the blank last.

// IsCanonical reports whether tiles are in ascending order
func IsCanonical(tiles []int) bool {
	for i, t := range tiles {
		if t != i {
			return false
		}
	}
	return true
}

// CanMove reports whether the tile at pos is orthogonally adjacent to the blank
func CanMove(tiles []int, size, pos int) bool {
	if pos < 0 || pos >= len(tiles) {
		return false
	}
	blank := indexOf(tiles, len(tiles)-1)
	if blank < 0 || pos == blank {
		return false
	}
	row, col := pos/size, pos%size
	brow, bcol := blank/size, blank%size
	return (abs(row-brow) == 1 && col == bcol) || (abs(col-bcol) == 1 && row == brow)
}

// IsSolvable reports whether tiles can reach the canonical order through legal moves
func IsSolvable(tiles []int, size int) bool {
	blankLabel := len(tiles) - 1
	inversions := 0
	for i := 0; i < len(tiles); i++ {
		if tiles[i] == blankLabel {
			continue
		}
		for j := i + 1; j < len(tiles); j++ {
			if tiles[j] != blankLabel && tiles[i] > tiles[j] {
				inversions++
			}
		}
	}
	if size%2 == 1 {
		return inversions%2 == 0
	}
	rowFromBottom := size - indexOf(tiles, blankLabel)/size
	return (inversions+rowFromBottom)%2 == 1
}

// Sliding is an n×n sliding tile board
type Sliding struct {
	size     int
	tiles    []int
	moves    int
	attempts int
}

type SlidingState struct {
	Size   int   `json:"size"`
	Tiles  []int `json:"tiles"`
	Moves  int   `json:"moves"`
	Solved bool  `json:"solved"`
}

// NewSliding returns a board shuffled by random legal moves, so it is
// always solvable and never starts solved.
func NewSliding(size int, rng *rand.Rand) *Sliding {
	s := &Sliding{size: size, tiles: make([]int, size*size)}
	for i := range s.tiles {
		s.tiles[i] = i
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	steps := 40 * size * size
	for i := 0; i < steps || IsCanonical(s.tiles); i++ {
		neighbours := s.movable()
		s.swap(neighbours[rng.IntN(len(neighbours))])
	}
	return s
}

// NewSlidingFrom starts from an explicit layout
func NewSlidingFrom(size int, tiles []int) *Sliding {
	return &Sliding{size: size, tiles: append([]int(nil), tiles...)}
}

func (s *Sliding) Kind() models.PuzzleKind { return models.KindSliding }
func (s *Sliding) Solved() bool            { return IsCanonical(s.tiles) }
func (s *Sliding) Attempts() int           { return s.attempts }

// Submit moves the tile at in.Position into the blank. Illegal moves are ignored.
func (s *Sliding) Submit(in Input) Outcome {
	if s.Solved() {
		return Outcome{Accepted: true}
	}
	if !CanMove(s.tiles, s.size, in.Position) {
		return Outcome{}
	}
	s.swap(in.Position)
	s.moves++
	return Outcome{Accepted: s.Solved(), Moved: true}
}

func (s *Sliding) State() any {
	return SlidingState{
		Size:   s.size,
		Tiles:  append([]int(nil), s.tiles...),
		Moves:  s.moves,
		Solved: s.Solved(),
	}
}

func (s *Sliding) movable() []int {
	var out []int
	for pos := range s.tiles {
		if CanMove(s.tiles, s.size, pos) {
			out = append(out, pos)
		}
	}
	return out
}

func (s *Sliding) swap(pos int) {
	blank := indexOf(s.tiles, len(s.tiles)-1)
	s.tiles[pos], s.tiles[blank] = s.tiles[blank], s.tiles[pos]
}

func indexOf(values []int, v int) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
