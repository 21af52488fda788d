package agent

import (
	"log/slog"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var Log *slog.Logger = slog.Default()

type Outcome int

const (
	Playing Outcome = iota
	Won
	Exploded
	Stalled
)

func (o Outcome) String() string {
	switch o {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Exploded:
		return "exploded"
	case Stalled:
		return "stalled"
	default:
		return "unknown"
	}
}

type Step struct {
	Cell mines.Cell `json:"cell"`
	Kind MoveKind   `json:"-"`
	Mine bool       `json:"mine"`
	// Count is the neighbor-mine count revealed by the move; zero when
	// the move exploded.
	Count int `json:"count"`
}

type Transcript struct {
	Steps   []Step  `json:"steps"`
	Outcome Outcome `json:"-"`
}

/*
Step opens one cell on the board. A mine ends the game; otherwise the
revealed neighbor count is fed back into the knowledge base and every
newly proven mine is flagged, which is how the game is eventually won.
*/
func (a *Agent) Step(b *mines.Board) (Step, Outcome, error) {
	c, kind, ok := a.Pick()
	if !ok {
		return Step{}, Stalled, nil
	}

	if b.IsMine(c) {
		return Step{Cell: c, Kind: kind, Mine: true}, Exploded, nil
	}

	count := b.NearbyMines(c)
	if err := a.Observe(c, count); err != nil {
		return Step{}, Playing, err
	}

	for _, m := range a.kb.Mines() {
		b.Flag(m)
	}

	outcome := Playing
	if b.Won() {
		outcome = Won
	}
	return Step{Cell: c, Kind: kind, Count: count}, outcome, nil
}

// Play runs the agent against a board until it wins, explodes, stalls,
// or exceeds maxMoves (which reports as a stall).
func (a *Agent) Play(b *mines.Board, maxMoves int) (Transcript, error) {
	var t Transcript
	for range maxMoves {
		step, outcome, err := a.Step(b)
		if err != nil {
			return t, err
		}
		if outcome == Stalled {
			t.Outcome = Stalled
			return t, nil
		}
		t.Steps = append(t.Steps, step)
		Log.Debug(
			"move",
			slog.String("cell", step.Cell.String()),
			slog.String("kind", step.Kind.String()),
			slog.Bool("mine", step.Mine),
		)
		if outcome != Playing {
			t.Outcome = outcome
			return t, nil
		}
	}
	t.Outcome = Stalled
	return t, nil
}
