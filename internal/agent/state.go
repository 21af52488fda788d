package agent

import (
	"bytes"
	"encoding/gob"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

// State is the gob-serializable snapshot of a play session: the board
// with its real mine points plus the agent's accumulated knowledge.
type State struct {
	Board       *mines.Board
	Base        knowledge.BaseData
	SafeMoves   int
	RandomMoves int
	Outcome     Outcome
}

func DecodeState(buf []byte) (*State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s State) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Agent) Snapshot(b *mines.Board, outcome Outcome) State {
	return State{
		Board:       b,
		Base:        a.kb.Data(),
		SafeMoves:   a.SafeMoves,
		RandomMoves: a.RandomMoves,
		Outcome:     outcome,
	}
}

// Restore rebuilds the agent from a snapshot, attaching a fresh rand
// for any further fallback draws.
func Restore(s *State, rnd *rand.Rand) (*Agent, error) {
	kb, err := knowledge.FromData(s.Base)
	if err != nil {
		return nil, err
	}
	return &Agent{
		kb:          kb,
		rnd:         rnd,
		SafeMoves:   s.SafeMoves,
		RandomMoves: s.RandomMoves,
	}, nil
}
