package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-agent/internal/agent"
	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

// SessionHandler runs agent play sessions: it generates boards, lets
// the deduction agent advance one move or autoplay to the end, and
// persists the gob-encoded state between requests.
type SessionHandler struct {
	logger *slog.Logger
	repo   *repository.Queries
	ws     *config.WebSocket
	rnd    *rand.Rand
}

func NewSessionHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *SessionHandler {
	return &SessionHandler{
		logger: logger,
		repo:   repository.New(db),
		ws:     ws,
		rnd:    rnd,
	}
}

func playerIdFromContext(ctx context.Context) *int64 {
	claims, ok := ctx.Value(middleware.CtxPlayerClaims).(*config.PlayerClaims)
	if !ok {
		return nil
	}
	return &claims.PlayerId
}

func (h SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateSessionDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	board, err := mines.NewBoard(dto.Height, dto.Width, dto.MineCount, h.rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	a := agent.New(dto.Height, dto.Width, h.rnd)
	state := a.Snapshot(board, agent.Playing)

	session, err := h.repo.CreateAgentSession(
		r.Context(), state,
		repository.CreateAgentSessionParams{
			PlayerId: playerIdFromContext(r.Context()),
		},
	)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to create agent session", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, NewSessionDTO(session, &state))
}

func (h SessionHandler) fetchSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.AgentSession, *agent.State, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := h.repo.FetchAgentSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch session from db", "error", err)
		return nil, nil, false
	}

	state, err := agent.DecodeState(session.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("db returned invalid agent_session.state", "error", err)
		return nil, nil, false
	}

	return session, state, true
}

func (h SessionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, NewSessionDTO(session, state))
}

var ErrSessionOver = errors.New("session has already ended")

// advance performs one agent move against the stored board and writes
// the updated state back, closing the session on a terminal outcome.
func (h SessionHandler) advance(
	ctx context.Context, session *repository.AgentSession, state *agent.State,
) (*repository.AgentSession, *agent.State, *agent.Step, error) {
	if state.Outcome != agent.Playing {
		return nil, nil, nil, ErrSessionOver
	}

	a, err := agent.Restore(state, h.rnd)
	if err != nil {
		return nil, nil, nil, err
	}

	step, outcome, err := a.Step(state.Board)
	if err != nil {
		return nil, nil, nil, err
	}

	next := a.Snapshot(state.Board, outcome)
	buf, err := next.Bytes()
	if err != nil {
		return nil, nil, nil, err
	}

	outcomeStr := outcome.String()
	params := repository.UpdateAgentSessionParams{
		Outcome:     &outcomeStr,
		SafeMoves:   &next.SafeMoves,
		RandomMoves: &next.RandomMoves,
		State:       &buf,
	}
	if outcome != agent.Playing {
		now := time.Now().UTC()
		params.EndedAt = &now
	}

	updated, err := h.repo.UpdateAgentSession(ctx, session.AgentSessionId, params)
	if err != nil {
		return nil, nil, nil, err
	}
	return updated, &next, &step, nil
}

type StepResponse struct {
	Step    *StepDTO   `json:"step,omitempty"`
	Session SessionDTO `json:"session"`
}

func (h SessionHandler) Step(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	updated, next, step, err := h.advance(r.Context(), session, state)
	if errors.Is(err, ErrSessionOver) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to advance session", "error", err)
		return
	}

	resp := StepResponse{Session: NewSessionDTO(updated, next)}
	if next.Outcome != agent.Stalled {
		dto := NewStepDTO(*step)
		resp.Step = &dto
	}
	sendJSONOrLog(w, h.logger, resp)
}

type AutoplayResponse struct {
	Steps   []StepDTO  `json:"steps"`
	Session SessionDTO `json:"session"`
}

func (h SessionHandler) Autoplay(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	if state.Outcome != agent.Playing {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(ErrSessionOver))
		return
	}

	a, err := agent.Restore(state, h.rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to restore agent", "error", err)
		return
	}

	maxMoves := state.Board.Height * state.Board.Width * 2
	transcript, err := a.Play(state.Board, maxMoves)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("autoplay failed", "error", err)
		return
	}

	next := a.Snapshot(state.Board, transcript.Outcome)
	buf, err := next.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to serialize agent state", "error", err)
		return
	}

	outcomeStr := transcript.Outcome.String()
	now := time.Now().UTC()
	updated, err := h.repo.UpdateAgentSession(
		r.Context(), session.AgentSessionId,
		repository.UpdateAgentSessionParams{
			Outcome:     &outcomeStr,
			SafeMoves:   &next.SafeMoves,
			RandomMoves: &next.RandomMoves,
			EndedAt:     &now,
			State:       &buf,
		},
	)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to update session in db", "error", err)
		return
	}

	steps := make([]StepDTO, len(transcript.Steps))
	for i, step := range transcript.Steps {
		steps[i] = NewStepDTO(step)
	}
	sendJSONOrLog(w, h.logger, AutoplayResponse{
		Steps:   steps,
		Session: NewSessionDTO(updated, &next),
	})
}

func (h SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	playerId := playerIdFromContext(r.Context())
	if playerId == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	stats, err := h.repo.FetchPlayerStats(r.Context(), *playerId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch player stats", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, stats)
}
