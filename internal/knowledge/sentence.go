package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

// ErrInvalidCount is returned when a sentence is constructed with a
// mine count outside [0, len(cells)]. Such input describes an
// impossible board and must be rejected before it enters the base.
var ErrInvalidCount = fmt.Errorf("sentence count must be within [0, number of cells]")

/*
Sentence is a logical statement about the game: exactly Count() of its
remaining cells are mines. Sentences shrink in place as cells become
known; a sentence whose cell set has emptied carries no information
and is retired by the base.
*/
type Sentence struct {
	cells map[mines.Cell]struct{}
	count int
}

func NewSentence(cells []mines.Cell, count int) (*Sentence, error) {
	s := &Sentence{
		cells: make(map[mines.Cell]struct{}, len(cells)),
		count: count,
	}
	for _, c := range cells {
		s.cells[c] = struct{}{}
	}
	if count < 0 || count > len(s.cells) {
		return nil, ErrInvalidCount
	}
	return s, nil
}

func (s Sentence) Count() int {
	return s.count
}

func (s Sentence) Size() int {
	return len(s.cells)
}

// Empty reports whether the sentence has no cells left and can be
// retired. This is deliberately distinct from Equal.
func (s Sentence) Empty() bool {
	return len(s.cells) == 0
}

func (s Sentence) Contains(c mines.Cell) bool {
	_, ok := s.cells[c]
	return ok
}

// Cells returns a copy of the remaining cell set.
func (s Sentence) Cells() []mines.Cell {
	cells := make([]mines.Cell, 0, len(s.cells))
	for c := range s.cells {
		cells = append(cells, c)
	}
	return cells
}

// KnownMines returns every cell of the sentence if all of them must be
// mines, otherwise nothing. It does not mutate the sentence.
func (s Sentence) KnownMines() []mines.Cell {
	if len(s.cells) > 0 && s.count == len(s.cells) {
		return s.Cells()
	}
	return nil
}

// KnownSafes returns every cell of the sentence if none of them can be
// a mine, otherwise nothing. It does not mutate the sentence.
func (s Sentence) KnownSafes() []mines.Cell {
	if s.count == 0 {
		return s.Cells()
	}
	return nil
}

// MarkMine resolves c as a mine: the cell leaves the sentence and the
// count drops by one, since the remainder describes the rest of the
// cells only. No-op if c is not a member.
func (s *Sentence) MarkMine(c mines.Cell) {
	if _, ok := s.cells[c]; ok {
		delete(s.cells, c)
		s.count--
	}
}

// MarkSafe resolves c as safe: the cell leaves the sentence, count
// unchanged. No-op if c is not a member.
func (s *Sentence) MarkSafe(c mines.Cell) {
	if _, ok := s.cells[c]; ok {
		delete(s.cells, c)
	}
}

// Equal is structural equality: same cell set, same count. Used to
// deduplicate derived sentences.
func (s Sentence) Equal(other *Sentence) bool {
	if s.count != other.count || len(s.cells) != len(other.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every cell of s is also in other. Combined
// with a size check this gives the strict-subset test used by subset
// resolution.
func (s Sentence) SubsetOf(other *Sentence) bool {
	if len(s.cells) > len(other.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

func (s Sentence) String() string {
	cells := s.Cells()
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(parts, " "), s.count)
}
