package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-agent/internal/agent"
)

type wsCommand string

const (
	wsNoop wsCommand = "g"
	wsStep wsCommand = "s"
	wsQuit wsCommand = "q"
)

/*
Watch streams a session over a websocket. Each "s" message advances
the agent by one move and sends back the step and the updated session;
"g" just re-sends the current session. The connection closes once the
game reaches a terminal outcome or the client sends "q".
*/
func (h SessionHandler) Watch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := h.fetchSession(w, r)
	if !ok {
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(NewSessionDTO(session, state)); err != nil {
		h.logger.Error("unable to write to websocket", "error", err)
		return
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseGoingAway, websocket.CloseNormalClosure,
			) {
				h.logger.Error("websocket closed unexpectedly", "error", err)
			}
			return
		}

		switch wsCommand(message) {
		case wsNoop:
			if err := conn.WriteJSON(NewSessionDTO(session, state)); err != nil {
				h.logger.Error("unable to write to websocket", "error", err)
				return
			}

		case wsStep:
			updated, next, step, err := h.advance(r.Context(), session, state)
			if errors.Is(err, ErrSessionOver) {
				return
			}
			if err != nil {
				h.logger.Error("unable to advance session", "error", err)
				return
			}
			session, state = updated, next

			resp := StepResponse{Session: NewSessionDTO(session, state)}
			if step != nil && next.Outcome != agent.Stalled {
				dto := NewStepDTO(*step)
				resp.Step = &dto
			}
			if err := conn.WriteJSON(resp); err != nil {
				h.logger.Error("unable to write to websocket", "error", err)
				return
			}
			if state.Outcome != agent.Playing {
				return
			}

		case wsQuit:
			return

		default:
			// ignore unknown commands, the client may be newer than us
		}
	}
}
