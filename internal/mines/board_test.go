package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighborsClipping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell Cell
		want int
	}{
		{"center", Cell{1, 1}, 8},
		{"corner", Cell{0, 0}, 3},
		{"edge", Cell{0, 1}, 5},
		{"opposite corner", Cell{2, 2}, 3},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := test.cell.Neighbors(3, 3)
			assert.Len(t, got, test.want)
			for _, n := range got {
				assert.NotEqual(t, test.cell, n)
				assert.GreaterOrEqual(t, n.Row, 0)
				assert.GreaterOrEqual(t, n.Col, 0)
				assert.Less(t, n.Row, 3)
				assert.Less(t, n.Col, 3)
			}
		})
	}
}

func TestNeighborsSingleCellBoard(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Cell{0, 0}.Neighbors(1, 1))
}

func TestNewBoardPlacesExactCount(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	b, err := NewBoard(8, 8, 8, r)
	if err != nil {
		t.Fatal(err)
	}

	placed := 0
	for _, mine := range b.Grid {
		if mine {
			placed++
		}
	}
	assert.Equal(t, 8, placed)
}

func TestNewBoardRejectsBadParams(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))

	_, err := NewBoard(0, 8, 1, r)
	assert.Error(t, err)

	_, err = NewBoard(2, 2, 5, r)
	assert.Error(t, err)

	_, err = NewBoard(2, 2, -1, r)
	assert.Error(t, err)
}

func TestNearbyMines(t *testing.T) {
	t.Parallel()

	// mine at (0,0) only
	b := &Board{
		Height: 3, Width: 3, MineCount: 1,
		Grid:  []bool{true, false, false, false, false, false, false, false, false},
		Found: make(map[Cell]bool),
	}

	tests := []struct {
		cell Cell
		want int
	}{
		{Cell{0, 1}, 1},
		{Cell{1, 0}, 1},
		{Cell{1, 1}, 1},
		{Cell{0, 2}, 0},
		{Cell{2, 2}, 0},
		{Cell{0, 0}, 0}, // a cell does not count itself
	}

	for _, test := range tests {
		assert.Equal(t, test.want, b.NearbyMines(test.cell), "cell %s", test.cell)
	}
}

func TestWon(t *testing.T) {
	t.Parallel()

	b := &Board{
		Height: 2, Width: 2, MineCount: 1,
		Grid:  []bool{true, false, false, false},
		Found: make(map[Cell]bool),
	}

	assert.False(t, b.Won())

	b.Flag(Cell{1, 1}) // wrong flag never wins
	assert.False(t, b.Won())

	b = &Board{
		Height: 2, Width: 2, MineCount: 1,
		Grid:  []bool{true, false, false, false},
		Found: make(map[Cell]bool),
	}
	b.Flag(Cell{0, 0})
	assert.True(t, b.Won())
}

func TestBoardGobRoundTrip(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	b, err := NewBoard(4, 5, 6, r)
	if err != nil {
		t.Fatal(err)
	}
	b.Flag(Cell{1, 2})

	buf, err := b.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeBoard(buf)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, b.Grid, decoded.Grid)
	assert.Equal(t, b.Found, decoded.Found)
	assert.Equal(t, b.MineCount, decoded.MineCount)
}
