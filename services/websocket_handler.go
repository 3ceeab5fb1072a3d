package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/Narain-karthick/Prep2Hire/websocket"
)

// WebSocketHandler drives a live interview over a single connection. Inbound
// "start" and "answer" frames map onto the same session engine operations as
// the HTTP endpoints, so a session may mix both transports.
type WebSocketHandler struct {
	store  *SessionStore
	engine *InterviewEngine
}

func NewWebSocketHandler(store *SessionStore, engine *InterviewEngine) *WebSocketHandler {
	return &WebSocketHandler{
		store:  store,
		engine: engine,
	}
}

// HandleWebSocketMessage routes an inbound frame onto the interview engine.
func (h *WebSocketHandler) HandleWebSocketMessage(client *ws.Client, messageBytes []byte) {
	var msg ws.Message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		slog.Error("Failed to unmarshal WebSocket message", "error", err, "session_id", client.SessionID)
		client.SendError("Malformed frame")
		return
	}

	session, err := h.store.Get(client.SessionID)
	if err != nil {
		client.SendError("Session not found")
		return
	}
	if session.UserID != client.UserID {
		client.SendError("Session not found")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Type {
	case "start":
		question, err := h.engine.Start(ctx, session)
		if err != nil {
			slog.Warn("WebSocket start rejected", "error", err, "session_id", client.SessionID)
			client.SendError(err.Error())
			return
		}
		client.SendJSON("question", question)

	case "answer":
		step, err := h.engine.SubmitAnswer(ctx, session, msg.Answer, msg.TimeTaken)
		if err != nil {
			slog.Warn("WebSocket answer rejected", "error", err, "session_id", client.SessionID)
			client.SendError(err.Error())
			return
		}

		client.SendJSON("score", step.Score)
		if step.Complete {
			client.SendJSON("complete", step.FinalReport)
			// Give the write pump a moment to flush before closing.
			go func() {
				<-time.After(200 * time.Millisecond)
				client.Conn.Close()
			}()
		} else {
			client.SendJSON("question", step.NextQuestion)
		}

	default:
		slog.Warn("Unknown message type", "type", msg.Type, "session_id", client.SessionID)
		client.SendError("Unknown frame type")
	}
}
