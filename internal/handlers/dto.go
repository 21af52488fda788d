package handlers

import (
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-agent/internal/agent"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type CreateSessionDTO struct {
	Height    int `schema:"height,required"`
	Width     int `schema:"width,required"`
	MineCount int `schema:"mine_count,required"`
}

func ParseCreateSessionDTO(src map[string][]string) (CreateSessionDTO, error) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	var dto CreateSessionDTO
	err := dec.Decode(&dto, src)
	return dto, err
}

type StepDTO struct {
	Cell  mines.Cell `json:"cell"`
	Kind  string     `json:"kind"`
	Mine  bool       `json:"mine"`
	Count int        `json:"count"`
}

func NewStepDTO(step agent.Step) StepDTO {
	return StepDTO{
		Cell:  step.Cell,
		Kind:  step.Kind.String(),
		Mine:  step.Mine,
		Count: step.Count,
	}
}

// SessionDTO is what clients see of a session: the dimensions, the
// progress counters and the agent's proven knowledge. The board's real
// mine grid is only exposed once the game has ended.
type SessionDTO struct {
	AgentSessionId int64        `json:"agent_session_id"`
	Height         int          `json:"height"`
	Width          int          `json:"width"`
	MineCount      int          `json:"mine_count"`
	Outcome        string       `json:"outcome"`
	SafeMoves      int          `json:"safe_moves"`
	RandomMoves    int          `json:"random_moves"`
	MovesMade      []mines.Cell `json:"moves_made"`
	KnownMines     []mines.Cell `json:"known_mines"`
	KnownSafes     []mines.Cell `json:"known_safes"`
	Grid           string       `json:"grid,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
	EndedAt        *time.Time   `json:"ended_at,omitempty"`
}

func NewSessionDTO(session *repository.AgentSession, state *agent.State) SessionDTO {
	dto := SessionDTO{
		AgentSessionId: session.AgentSessionId,
		Height:         session.Height,
		Width:          session.Width,
		MineCount:      session.MineCount,
		Outcome:        session.Outcome,
		SafeMoves:      session.SafeMoves,
		RandomMoves:    session.RandomMoves,
		MovesMade:      state.Base.MovesMade,
		KnownMines:     state.Base.Mines,
		KnownSafes:     state.Base.Safes,
		StartedAt:      session.StartedAt.Time,
		EndedAt:        session.EndedAt,
	}
	if state.Outcome != agent.Playing {
		dto.Grid = state.Board.String()
	}
	return dto
}
