package agent

import (
	"math/rand/v2"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type MoveKind int

const (
	SafeMove MoveKind = iota
	RandomMove
)

func (k MoveKind) String() string {
	switch k {
	case SafeMove:
		return "safe"
	case RandomMove:
		return "random"
	default:
		return "unknown"
	}
}

/*
Agent plays one board: it accumulates observations in a knowledge base
and picks the next cell to open, preferring cells it has proven safe
and falling back to a uniform draw over the cells that are neither
visited nor proven mines. The fallback draws from the injected rand
only, so a seeded agent replays identically.
*/
type Agent struct {
	kb  *knowledge.Base
	rnd *rand.Rand

	SafeMoves   int
	RandomMoves int
}

func New(height, width int, rnd *rand.Rand) *Agent {
	return &Agent{
		kb:  knowledge.NewBase(height, width),
		rnd: rnd,
	}
}

// Base exposes the underlying knowledge base for read access.
func (a *Agent) Base() *knowledge.Base {
	return a.kb
}

func (a *Agent) Observe(c mines.Cell, count int) error {
	return a.kb.Observe(c, count)
}

// PickSafe returns a proven-safe unvisited cell, scanning in row-major
// order so the choice is deterministic. The miss return means no safe
// move exists right now; that is a normal state, not an error.
func (a *Agent) PickSafe() (mines.Cell, bool) {
	for row := range a.kb.Height() {
		for col := range a.kb.Width() {
			c := mines.Cell{Row: row, Col: col}
			if a.kb.IsSafe(c) && !a.kb.Visited(c) {
				return c, true
			}
		}
	}
	return mines.Cell{}, false
}

// PickRandom draws uniformly from the cells that are neither visited
// nor proven mines. The miss return means the board is exhausted.
func (a *Agent) PickRandom() (mines.Cell, bool) {
	candidates := make([]mines.Cell, 0, a.kb.Height()*a.kb.Width())
	for row := range a.kb.Height() {
		for col := range a.kb.Width() {
			c := mines.Cell{Row: row, Col: col}
			if !a.kb.Visited(c) && !a.kb.IsMine(c) {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return mines.Cell{}, false
	}
	return candidates[a.rnd.IntN(len(candidates))], true
}

// Pick returns the agent's next move: a safe one when available, a
// random one otherwise. It updates the per-kind counters.
func (a *Agent) Pick() (mines.Cell, MoveKind, bool) {
	if c, ok := a.PickSafe(); ok {
		a.SafeMoves++
		return c, SafeMove, true
	}
	if c, ok := a.PickRandom(); ok {
		a.RandomMoves++
		return c, RandomMove, true
	}
	return mines.Cell{}, SafeMove, false
}
