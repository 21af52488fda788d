package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-agent/internal/agent"
)

// AgentSession is one stored play-through: the board, the agent's
// knowledge (gob-encoded in State) and its running statistics.
type AgentSession struct {
	AgentSessionId int64
	PlayerId       *int64
	Height         int
	Width          int
	MineCount      int
	Outcome        string
	SafeMoves      int
	RandomMoves    int
	State          []byte
	StartedAt      pgtype.Timestamptz
	EndedAt        *time.Time
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type CreateAgentSessionParams struct {
	PlayerId *int64
}

func (q *Queries) CreateAgentSession(
	ctx context.Context, state agent.State, params CreateAgentSessionParams,
) (*AgentSession, error) {
	buf, err := state.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"player_id":    params.PlayerId, // nil encodes as NULL
		"height":       state.Board.Height,
		"width":        state.Board.Width,
		"mine_count":   state.Board.MineCount,
		"outcome":      state.Outcome.String(),
		"safe_moves":   state.SafeMoves,
		"random_moves": state.RandomMoves,
		"state":        buf,
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO agent_session (
			player_id, height, width, mine_count,
			outcome, safe_moves, random_moves, state
		)
		VALUES (
			@player_id, @height, @width, @mine_count,
			@outcome, @safe_moves, @random_moves, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentSession])
}

func (q *Queries) FetchAgentSession(
	ctx context.Context, agentSessionId int64,
) (*AgentSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM agent_session WHERE agent_session_id = $1",
		agentSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentSession])
}

type UpdateAgentSessionParams struct {
	Outcome     *string
	SafeMoves   *int
	RandomMoves *int
	EndedAt     *time.Time
	State       *[]byte
}

func (p UpdateAgentSessionParams) SetClause() (string, map[string]any) {
	parts := []string{"updated_at = now()"}
	args := make(map[string]any)

	if p.Outcome != nil {
		parts = append(parts, "outcome = @outcome")
		args["outcome"] = *p.Outcome
	}
	if p.SafeMoves != nil {
		parts = append(parts, "safe_moves = @safe_moves")
		args["safe_moves"] = *p.SafeMoves
	}
	if p.RandomMoves != nil {
		parts = append(parts, "random_moves = @random_moves")
		args["random_moves"] = *p.RandomMoves
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdateAgentSession(
	ctx context.Context, agentSessionId int64, params UpdateAgentSessionParams,
) (*AgentSession, error) {
	setClause, args := params.SetClause()
	args["agent_session_id"] = agentSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE agent_session SET "+setClause+
			" WHERE agent_session_id = @agent_session_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[AgentSession])
}

// SessionStats aggregates finished sessions per outcome for a player.
type SessionStats struct {
	Outcome     string
	Games       int64
	SafeMoves   int64
	RandomMoves int64
}

func (q *Queries) FetchPlayerStats(
	ctx context.Context, playerId int64,
) ([]SessionStats, error) {
	rows, _ := q.db.Query(
		ctx,
		`SELECT
			outcome,
			count(*) AS games,
			coalesce(sum(safe_moves), 0) AS safe_moves,
			coalesce(sum(random_moves), 0) AS random_moves
		FROM agent_session
		WHERE player_id = $1
		GROUP BY outcome`,
		playerId,
	)
	return pgx.CollectRows(rows, pgx.RowToStructByName[SessionStats])
}
