package agent

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestPickSafeNoMoveOnFreshAgent(t *testing.T) {
	t.Parallel()

	a := New(3, 3, testRand())
	_, ok := a.PickSafe()
	assert.False(t, ok)
}

func TestPickSafePrefersProvenSafeCells(t *testing.T) {
	t.Parallel()

	a := New(3, 3, testRand())
	require.NoError(t, a.Observe(mines.Cell{Row: 1, Col: 1}, 0))

	// every neighbor is now proven safe; row-major scan picks (0,0)
	c, ok := a.PickSafe()
	require.True(t, ok)
	assert.Equal(t, mines.Cell{Row: 0, Col: 0}, c)

	// picking does not visit
	c2, ok := a.PickSafe()
	require.True(t, ok)
	assert.Equal(t, c, c2)
}

func TestPickRandomExhaustedBoard(t *testing.T) {
	t.Parallel()

	a := New(1, 1, testRand())
	require.NoError(t, a.Observe(mines.Cell{Row: 0, Col: 0}, 0))

	_, ok := a.PickRandom()
	assert.False(t, ok)

	_, _, ok = a.Pick()
	assert.False(t, ok)
}

func TestPickRandomExcludesVisitedAndMines(t *testing.T) {
	t.Parallel()

	state := &State{
		Base: knowledge.BaseData{
			Height: 2, Width: 2,
			MovesMade: []mines.Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
			Safes:     []mines.Cell{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
			Mines:     []mines.Cell{{Row: 0, Col: 0}},
		},
	}
	a, err := Restore(state, testRand())
	require.NoError(t, err)

	// only (1,1) is neither visited nor a proven mine
	for range 10 {
		c, ok := a.PickRandom()
		require.True(t, ok)
		assert.Equal(t, mines.Cell{Row: 1, Col: 1}, c)
	}
}

func TestPickRandomIsReplayable(t *testing.T) {
	t.Parallel()

	a1 := New(8, 8, rand.New(rand.NewPCG(7, 9)))
	a2 := New(8, 8, rand.New(rand.NewPCG(7, 9)))

	for range 20 {
		c1, ok1 := a1.PickRandom()
		c2, ok2 := a2.PickRandom()
		require.True(t, ok1)
		require.True(t, ok2)
		assert.Equal(t, c1, c2)
	}
}

func TestPlayZeroMineBoard(t *testing.T) {
	t.Parallel()

	r := testRand()
	b, err := mines.NewBoard(2, 2, 0, r)
	require.NoError(t, err)

	a := New(2, 2, r)
	transcript, err := a.Play(b, 100)
	require.NoError(t, err)

	assert.Equal(t, Won, transcript.Outcome)
	require.NotEmpty(t, transcript.Steps)
	for _, step := range transcript.Steps {
		assert.False(t, step.Mine)
	}
}

func TestPlayOneMineBoardNeverStalls(t *testing.T) {
	t.Parallel()

	// 2x2 with one mine: once the three safe cells are open the mine
	// is proven by a singleton sentence, so the game ends in a win
	// unless a fallback draw explodes first
	b := &mines.Board{
		Height: 2, Width: 2, MineCount: 1,
		Grid:  []bool{true, false, false, false},
		Found: make(map[mines.Cell]bool),
	}

	a := New(2, 2, testRand())
	transcript, err := a.Play(b, 100)
	require.NoError(t, err)

	switch transcript.Outcome {
	case Won:
		assert.True(t, b.Won())
		assert.Contains(t, a.Base().Mines(), mines.Cell{Row: 0, Col: 0})
	case Exploded:
		last := transcript.Steps[len(transcript.Steps)-1]
		assert.True(t, last.Mine)
		assert.Equal(t, mines.Cell{Row: 0, Col: 0}, last.Cell)
	default:
		t.Errorf("unexpected outcome %s", transcript.Outcome)
	}
}

func TestPlayLargerBoardTerminates(t *testing.T) {
	t.Parallel()

	r := testRand()
	b, err := mines.NewBoard(4, 4, 3, r)
	require.NoError(t, err)

	a := New(4, 4, r)
	transcript, err := a.Play(b, 1000)
	require.NoError(t, err)

	assert.NotEqual(t, Playing, transcript.Outcome)
	assert.Equal(t, len(transcript.Steps), a.SafeMoves+a.RandomMoves)
}

func TestStateGobRoundTrip(t *testing.T) {
	t.Parallel()

	r := testRand()
	b, err := mines.NewBoard(3, 3, 1, r)
	require.NoError(t, err)

	a := New(3, 3, r)
	_, _, err = a.Step(b)
	require.NoError(t, err)

	buf, err := a.Snapshot(b, Playing).Bytes()
	require.NoError(t, err)

	state, err := DecodeState(buf)
	require.NoError(t, err)

	restored, err := Restore(state, testRand())
	require.NoError(t, err)

	assert.Equal(t, a.Base().Safes(), restored.Base().Safes())
	assert.Equal(t, a.Base().MovesMade(), restored.Base().MovesMade())
	assert.Equal(t, a.SafeMoves, restored.SafeMoves)
	assert.Equal(t, a.RandomMoves, restored.RandomMoves)
	assert.Equal(t, b.Grid, state.Board.Grid)
}
