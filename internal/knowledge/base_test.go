package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

func baseFrom(t *testing.T, d BaseData) *Base {
	t.Helper()
	kb, err := FromData(d)
	if err != nil {
		t.Fatal(err)
	}
	return kb
}

func hasSentence(sentences []*Sentence, s *Sentence) bool {
	return containsEqual(sentences, s)
}

func TestObserveSingleCellBoard(t *testing.T) {
	t.Parallel()

	kb := NewBase(1, 1)
	err := kb.Observe(mines.Cell{Row: 0, Col: 0}, 0)
	require.NoError(t, err)

	assert.Equal(t, cells([2]int{0, 0}), kb.Safes())
	assert.Equal(t, cells([2]int{0, 0}), kb.MovesMade())
	assert.Empty(t, kb.Mines())
	assert.Empty(t, kb.Sentences())
}

func TestObserveBuildsNeighborhoodSentence(t *testing.T) {
	t.Parallel()

	kb := NewBase(3, 3)
	err := kb.Observe(mines.Cell{Row: 1, Col: 1}, 1)
	require.NoError(t, err)

	sentences := kb.Sentences()
	require.Len(t, sentences, 1)
	assert.Equal(t, 8, sentences[0].Size())
	assert.Equal(t, 1, sentences[0].Count())
	assert.False(t, sentences[0].Contains(mines.Cell{Row: 1, Col: 1}))
}

func TestObserveAdjustsForKnownFacts(t *testing.T) {
	t.Parallel()

	kb := baseFrom(t, BaseData{
		Height: 3, Width: 3,
		Mines: cells([2]int{0, 0}),
		Safes: cells([2]int{0, 1}),
	})

	// the known mine leaves the sentence and takes one count with it;
	// the known safe just leaves
	err := kb.Observe(mines.Cell{Row: 1, Col: 1}, 1)
	require.NoError(t, err)

	// remaining neighbors all proven safe by the zero-count remainder
	for _, c := range cells(
		[2]int{0, 2}, [2]int{1, 0}, [2]int{1, 2},
		[2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2},
	) {
		assert.True(t, kb.IsSafe(c), "cell %s", c)
	}
	assert.Equal(t, cells([2]int{0, 0}), kb.Mines())
	assert.Empty(t, kb.Sentences())
}

func TestChainedDeductionFindsTheMine(t *testing.T) {
	t.Parallel()

	// 3x3 board, the only mine at (0,0)
	kb := NewBase(3, 3)

	require.NoError(t, kb.Observe(mines.Cell{Row: 1, Col: 1}, 1))
	require.NoError(t, kb.Observe(mines.Cell{Row: 2, Col: 2}, 0))

	// not enough information yet: no neighbor of (1,1) may be called a
	// mine, and the fact sets must stay disjoint
	assert.Empty(t, kb.Mines())
	for _, c := range kb.Safes() {
		assert.False(t, kb.IsMine(c))
	}

	require.NoError(t, kb.Observe(mines.Cell{Row: 0, Col: 2}, 0))
	require.NoError(t, kb.Observe(mines.Cell{Row: 2, Col: 0}, 0))

	assert.Equal(t, cells([2]int{0, 0}), kb.Mines())
	assert.False(t, kb.IsSafe(mines.Cell{Row: 0, Col: 0}))
}

func TestSubsetResolution(t *testing.T) {
	t.Parallel()

	var (
		a = [2]int{0, 0}
		b = [2]int{0, 1}
		c = [2]int{0, 2}
		d = [2]int{0, 3}
	)

	kb := baseFrom(t, BaseData{
		Height: 4, Width: 4,
		Sentences: []SentenceData{
			{Cells: cells(a, b, c, d), Count: 2},
			{Cells: cells(a, c), Count: 1},
		},
	})
	kb.Propagate()

	sentences := kb.Sentences()
	assert.True(t, hasSentence(sentences, mustSentence(t, cells(b, d), 1)),
		"expected {B D} = 1 to be derived")

	// no single cell is provable from this knowledge
	assert.Empty(t, kb.Mines())
	assert.False(t, hasSentence(sentences, mustSentence(t, cells(a), 1)))
	assert.False(t, hasSentence(sentences, mustSentence(t, cells(c), 1)))
}

func TestMinesMarkedWithoutSafes(t *testing.T) {
	t.Parallel()

	// a pass that discovers only mines must still apply them; mine
	// marking is not gated on safes having been found the same pass
	kb := baseFrom(t, BaseData{
		Height: 2, Width: 2,
		Sentences: []SentenceData{
			{Cells: cells([2]int{0, 0}, [2]int{0, 1}), Count: 2},
		},
	})
	kb.Propagate()

	assert.ElementsMatch(t, cells([2]int{0, 0}, [2]int{0, 1}), kb.Mines())
	assert.Empty(t, kb.Safes())
	assert.Empty(t, kb.Sentences())
}

func TestPropagateIdempotentAtFixpoint(t *testing.T) {
	t.Parallel()

	kb := NewBase(3, 3)
	require.NoError(t, kb.Observe(mines.Cell{Row: 1, Col: 1}, 1))
	require.NoError(t, kb.Observe(mines.Cell{Row: 2, Col: 2}, 0))

	ms, ss, ms2 := kb.Mines(), kb.Safes(), kb.MovesMade()
	before := kb.Sentences()

	kb.Propagate()

	assert.Equal(t, ms, kb.Mines())
	assert.Equal(t, ss, kb.Safes())
	assert.Equal(t, ms2, kb.MovesMade())

	after := kb.Sentences()
	require.Len(t, after, len(before))
	for _, s := range before {
		assert.True(t, hasSentence(after, s))
	}
}

func TestReobserveIsNoop(t *testing.T) {
	t.Parallel()

	kb := NewBase(3, 3)
	require.NoError(t, kb.Observe(mines.Cell{Row: 1, Col: 1}, 1))

	ms, ss := kb.Mines(), kb.Safes()
	sentences := kb.Sentences()

	require.NoError(t, kb.Observe(mines.Cell{Row: 1, Col: 1}, 1))

	assert.Equal(t, ms, kb.Mines())
	assert.Equal(t, ss, kb.Safes())
	assert.Len(t, kb.Sentences(), len(sentences))
}

func TestObserveRejectsImpossibleCount(t *testing.T) {
	t.Parallel()

	kb := NewBase(1, 1)
	err := kb.Observe(mines.Cell{Row: 0, Col: 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidCount)

	// a rejected observation must leave no trace
	assert.Empty(t, kb.MovesMade())
	assert.Empty(t, kb.Safes())
	assert.Empty(t, kb.Sentences())
}

func TestFactSetsOnlyGrow(t *testing.T) {
	t.Parallel()

	kb := NewBase(3, 3)

	observations := []struct {
		cell  mines.Cell
		count int
	}{
		{mines.Cell{Row: 1, Col: 1}, 1},
		{mines.Cell{Row: 2, Col: 2}, 0},
		{mines.Cell{Row: 0, Col: 2}, 0},
		{mines.Cell{Row: 2, Col: 0}, 0},
	}

	var prevMines, prevSafes, prevMoves []mines.Cell
	for _, o := range observations {
		require.NoError(t, kb.Observe(o.cell, o.count))

		assert.Subset(t, kb.Mines(), prevMines)
		assert.Subset(t, kb.Safes(), prevSafes)
		assert.Subset(t, kb.MovesMade(), prevMoves)

		for _, c := range kb.Mines() {
			assert.False(t, kb.IsSafe(c))
		}

		prevMines, prevSafes, prevMoves = kb.Mines(), kb.Safes(), kb.MovesMade()
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	kb := NewBase(3, 3)
	require.NoError(t, kb.Observe(mines.Cell{Row: 1, Col: 1}, 1))

	sentences := kb.Sentences()
	require.NotEmpty(t, sentences)
	sentences[0].MarkMine(mines.Cell{Row: 0, Col: 0})

	fresh := kb.Sentences()
	assert.Equal(t, 8, fresh[0].Size())

	safes := kb.Safes()
	require.NotEmpty(t, safes)
	safes[0] = mines.Cell{Row: 9, Col: 9}
	assert.NotContains(t, kb.Safes(), mines.Cell{Row: 9, Col: 9})
}

func TestDataRoundTrip(t *testing.T) {
	t.Parallel()

	kb := NewBase(3, 3)
	require.NoError(t, kb.Observe(mines.Cell{Row: 1, Col: 1}, 1))
	require.NoError(t, kb.Observe(mines.Cell{Row: 2, Col: 2}, 0))

	restored := baseFrom(t, kb.Data())

	assert.Equal(t, kb.Mines(), restored.Mines())
	assert.Equal(t, kb.Safes(), restored.Safes())
	assert.Equal(t, kb.MovesMade(), restored.MovesMade())
	assert.Len(t, restored.Sentences(), len(kb.Sentences()))
}

func TestFromDataRejectsCorruptState(t *testing.T) {
	t.Parallel()

	_, err := FromData(BaseData{
		Height: 2, Width: 2,
		Mines: cells([2]int{0, 0}),
		Safes: cells([2]int{0, 0}),
	})
	assert.Error(t, err)

	_, err = FromData(BaseData{
		Height: 2, Width: 2,
		Sentences: []SentenceData{{Cells: cells([2]int{0, 0}), Count: 2}},
	})
	assert.ErrorIs(t, err, ErrInvalidCount)
}
