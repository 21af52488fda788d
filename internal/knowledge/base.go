package knowledge

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var Log *slog.Logger = slog.Default()

/*
Base is the agent's reasoning state: the facts it has proven (known
mines, known safes, visited cells) plus the live sentences those facts
have not yet resolved. All deduction happens in Propagate, which runs
to fixpoint before Observe returns, so callers never see a
half-propagated base.
*/
type Base struct {
	height, width int

	movesMade map[mines.Cell]struct{}
	mines     map[mines.Cell]struct{}
	safes     map[mines.Cell]struct{}

	sentences []*Sentence
}

func NewBase(height, width int) *Base {
	return &Base{
		height:    height,
		width:     width,
		movesMade: make(map[mines.Cell]struct{}),
		mines:     make(map[mines.Cell]struct{}),
		safes:     make(map[mines.Cell]struct{}),
	}
}

func (kb *Base) Height() int { return kb.height }
func (kb *Base) Width() int  { return kb.width }

// MarkMine records c as a proven mine and resolves it out of every
// live sentence.
func (kb *Base) MarkMine(c mines.Cell) {
	kb.mines[c] = struct{}{}
	for _, s := range kb.sentences {
		s.MarkMine(c)
	}
}

// MarkSafe records c as proven safe and resolves it out of every live
// sentence.
func (kb *Base) MarkSafe(c mines.Cell) {
	kb.safes[c] = struct{}{}
	for _, s := range kb.sentences {
		s.MarkSafe(c)
	}
}

/*
Observe feeds the base one revealed cell and its neighbor-mine count.
It records the move, marks the cell safe, builds a sentence over the
unresolved in-bounds neighbors and propagates to fixpoint.

Observing a cell twice is a benign no-op. A count that cannot hold for
the cell's neighborhood is a contract violation by the environment and
is rejected with [ErrInvalidCount] before it can corrupt the base.
*/
func (kb *Base) Observe(c mines.Cell, count int) error {
	if _, ok := kb.movesMade[c]; ok {
		return nil
	}

	cells := make([]mines.Cell, 0, 8)
	adjusted := count
	for _, n := range c.Neighbors(kb.height, kb.width) {
		if _, ok := kb.mines[n]; ok {
			/* already accounted for */
			adjusted--
			continue
		}
		if _, ok := kb.safes[n]; ok {
			continue
		}
		if _, ok := kb.movesMade[n]; ok {
			continue
		}
		cells = append(cells, n)
	}

	/* validate before touching any state */
	s, err := NewSentence(cells, adjusted)
	if err != nil {
		return fmt.Errorf("observation %s=%d: %w", c, count, err)
	}

	kb.movesMade[c] = struct{}{}
	kb.MarkSafe(c)

	/* appended even when empty; the first pass retires it */
	kb.sentences = append(kb.sentences, s)

	kb.Propagate()
	return nil
}

/*
Propagate runs the deductive loop until a whole pass changes nothing.
Each pass extracts every directly known cell, retires emptied
sentences, and derives the subset-resolution consequences of every
strict-subset sentence pair. Termination: each pass either grows the
known sets (bounded by the board) or adds a previously absent sentence
from a finite candidate space.
*/
func (kb *Base) Propagate() {
	for {
		doneSomething := false

		safeCells := make(map[mines.Cell]struct{})
		mineCells := make(map[mines.Cell]struct{})
		for _, s := range kb.sentences {
			for _, c := range s.KnownSafes() {
				safeCells[c] = struct{}{}
			}
			for _, c := range s.KnownMines() {
				mineCells[c] = struct{}{}
			}
		}

		/*
		 * Safe and mine discoveries are applied under independent
		 * guards: a pass that finds only mines must still mark them.
		 */
		if len(safeCells) > 0 {
			doneSomething = true
			for c := range safeCells {
				kb.MarkSafe(c)
			}
		}
		if len(mineCells) > 0 {
			doneSomething = true
			for c := range mineCells {
				kb.MarkMine(c)
			}
		}

		live := make([]*Sentence, 0, len(kb.sentences))
		for _, s := range kb.sentences {
			if s.Empty() {
				doneSomething = true
				continue
			}
			live = append(live, s)
		}

		var derived []*Sentence
		for _, a := range live {
			for _, b := range live {
				if a == b {
					continue
				}
				if a.Size() >= b.Size() || !a.SubsetOf(b) {
					continue
				}
				/*
				 * a's cells account for a.count of b's mines, so the
				 * cells unique to b account for the rest.
				 */
				rest := make([]mines.Cell, 0, b.Size()-a.Size())
				for _, c := range b.Cells() {
					if !a.Contains(c) {
						rest = append(rest, c)
					}
				}
				candidate, err := NewSentence(rest, b.Count()-a.Count())
				if err != nil {
					/* cannot happen while both inputs hold their invariant */
					panic(AssertionError{"subset resolution produced an invalid sentence"})
				}
				if !containsEqual(live, candidate) && !containsEqual(derived, candidate) {
					derived = append(derived, candidate)
					doneSomething = true
				}
			}
		}

		kb.sentences = append(live, derived...)

		if !doneSomething {
			break
		}
	}
	kb.assertConsistent()
}

func containsEqual(sentences []*Sentence, s *Sentence) bool {
	for _, other := range sentences {
		if s.Equal(other) {
			return true
		}
	}
	return false
}

// assertConsistent panics when a propagation pass has produced a state
// no sound deduction can reach. Reaching it is a bug, not bad input.
func (kb *Base) assertConsistent() {
	for c := range kb.mines {
		if _, ok := kb.safes[c]; ok {
			Log.Error("cell proven both mine and safe", slog.String("cell", c.String()))
			panic(AssertionError{"cell proven both mine and safe"})
		}
	}
	for _, s := range kb.sentences {
		if s.Count() < 0 || s.Count() > s.Size() {
			Log.Error("sentence count out of range", slog.String("sentence", s.String()))
			panic(AssertionError{"sentence count out of range"})
		}
	}
}

// IsMine reports whether c has been proven to be a mine.
func (kb *Base) IsMine(c mines.Cell) bool {
	_, ok := kb.mines[c]
	return ok
}

// IsSafe reports whether c has been proven safe.
func (kb *Base) IsSafe(c mines.Cell) bool {
	_, ok := kb.safes[c]
	return ok
}

// Visited reports whether c has already been observed.
func (kb *Base) Visited(c mines.Cell) bool {
	_, ok := kb.movesMade[c]
	return ok
}

// Mines returns a sorted copy of the proven-mine set.
func (kb *Base) Mines() []mines.Cell {
	return sortedCells(kb.mines)
}

// Safes returns a sorted copy of the proven-safe set.
func (kb *Base) Safes() []mines.Cell {
	return sortedCells(kb.safes)
}

// MovesMade returns a sorted copy of the visited set.
func (kb *Base) MovesMade() []mines.Cell {
	return sortedCells(kb.movesMade)
}

// Sentences returns copies of the live sentences; mutating them does
// not touch the base.
func (kb *Base) Sentences() []*Sentence {
	sentences := make([]*Sentence, len(kb.sentences))
	for i, s := range kb.sentences {
		copied, err := NewSentence(s.Cells(), s.Count())
		if err != nil {
			panic(AssertionError{"live sentence failed its own invariant"})
		}
		sentences[i] = copied
	}
	return sentences
}

func sortedCells(set map[mines.Cell]struct{}) []mines.Cell {
	cells := make([]mines.Cell, 0, len(set))
	for c := range set {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
