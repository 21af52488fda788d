package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Board is the environment side of the game: it knows where the mines
// really are. The agent never reads Grid directly; it only sees
// NearbyMines counts for the cells it opens.
type Board struct {
	Height, Width int
	MineCount     int
	Grid          []bool /* real mine points */
	Found         map[Cell]bool
}

// NewBoard places mineCount mines uniformly at random on an empty
// height x width field, drawing from r only.
func NewBoard(height, width, mineCount int, r *rand.Rand) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid board dimensions %dx%d", height, width)
	}
	if mineCount < 0 || mineCount > height*width {
		return nil, fmt.Errorf(
			"mine count %d out of range for %dx%d board",
			mineCount, height, width,
		)
	}

	b := &Board{
		Height:    height,
		Width:     width,
		MineCount: mineCount,
		Grid:      make([]bool, height*width),
		Found:     make(map[Cell]bool),
	}

	placed := 0
	for placed != mineCount {
		i := r.IntN(height)
		j := r.IntN(width)
		if !b.Grid[i*width+j] {
			b.Grid[i*width+j] = true
			placed++
		}
	}

	return b, nil
}

func DecodeBoard(buf []byte) (*Board, error) {
	var b Board
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b Board) InBounds(c Cell) bool {
	return 0 <= c.Row && c.Row < b.Height && 0 <= c.Col && c.Col < b.Width
}

func (b Board) IsMine(c Cell) bool {
	return b.Grid[c.Row*b.Width+c.Col]
}

// NearbyMines returns the number of mines within one row and column of
// c, not including c itself.
func (b Board) NearbyMines(c Cell) int {
	count := 0
	for _, n := range c.Neighbors(b.Height, b.Width) {
		if b.IsMine(n) {
			count++
		}
	}
	return count
}

// Flag records a cell the agent believes to be a mine. Flagging a safe
// cell is allowed but can never contribute to winning.
func (b *Board) Flag(c Cell) {
	if b.InBounds(c) {
		b.Found[c] = true
	}
}

// Won reports whether every mine, and nothing else, has been flagged.
func (b Board) Won() bool {
	if len(b.Found) != b.MineCount {
		return false
	}
	for c := range b.Found {
		if !b.IsMine(c) {
			return false
		}
	}
	return true
}

func (b Board) String() string {
	var sb strings.Builder
	for y := range b.Height {
		for x := range b.Width {
			var ch string
			if b.Grid[y*b.Width+x] {
				ch = "* "
			} else {
				ch = "- "
			}
			fmt.Fprint(&sb, ch)
		}
		fmt.Fprint(&sb, "\n")
	}
	return sb.String()
}
