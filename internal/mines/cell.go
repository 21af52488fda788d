package mines

import "fmt"

// Cell addresses a single board square by row and column.
// It is comparable and used as a map key throughout the agent.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Neighbors returns the 8-neighborhood of c clipped to a height x width
// board, excluding c itself.
func (c Cell) Neighbors(height, width int) []Cell {
	neighbors := make([]Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			n := Cell{Row: c.Row + dy, Col: c.Col + dx}
			if n.Row < 0 || n.Row >= height || n.Col < 0 || n.Col >= width {
				continue
			}
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}
