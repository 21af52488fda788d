package knowledge

import (
	"fmt"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

// SentenceData is the serializable form of a [Sentence].
type SentenceData struct {
	Cells []mines.Cell
	Count int
}

// BaseData is the serializable form of a [Base], suitable for gob.
type BaseData struct {
	Height, Width int
	MovesMade     []mines.Cell
	Mines         []mines.Cell
	Safes         []mines.Cell
	Sentences     []SentenceData
}

func (kb *Base) Data() BaseData {
	sentences := make([]SentenceData, len(kb.sentences))
	for i, s := range kb.sentences {
		sentences[i] = SentenceData{Cells: s.Cells(), Count: s.Count()}
	}
	return BaseData{
		Height:    kb.height,
		Width:     kb.width,
		MovesMade: kb.MovesMade(),
		Mines:     kb.Mines(),
		Safes:     kb.Safes(),
		Sentences: sentences,
	}
}

func FromData(d BaseData) (*Base, error) {
	kb := NewBase(d.Height, d.Width)
	for _, c := range d.MovesMade {
		kb.movesMade[c] = struct{}{}
	}
	for _, c := range d.Mines {
		kb.mines[c] = struct{}{}
	}
	for _, c := range d.Safes {
		if _, ok := kb.mines[c]; ok {
			return nil, fmt.Errorf("cell %s recorded as both mine and safe", c)
		}
		kb.safes[c] = struct{}{}
	}
	for _, sd := range d.Sentences {
		s, err := NewSentence(sd.Cells, sd.Count)
		if err != nil {
			return nil, fmt.Errorf("sentence %v=%d: %w", sd.Cells, sd.Count, err)
		}
		kb.sentences = append(kb.sentences, s)
	}
	return kb, nil
}
