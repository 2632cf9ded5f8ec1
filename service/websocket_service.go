package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/docchat/docchat-be/types"
	"github.com/gorilla/websocket"
)

type WebSocketService struct {
	chat     ChatService
	upgrader websocket.Upgrader
}

func NewWebSocketService(chat ChatService) *WebSocketService {
	return &WebSocketService{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleChat upgrades the connection and answers chat frames through the
// grounded conversation pipeline. Each chat frame is one Converse call;
// exchanges are persisted exactly as on the HTTP path.
func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("websocket read error", "err", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeError(conn, "malformed message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			if err := conn.WriteJSON(types.WebsocketResponse{Type: types.TypeWebsocketPong}); err != nil {
				slog.Warn("websocket write error", "err", err)
			}
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "malformed payload")
				continue
			}
			var payload types.WebsocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil || payload.Message == "" {
				s.writeError(conn, "malformed payload")
				continue
			}

			resp, err := s.chat.Converse(r.Context(), userID, payload.Message)
			if err != nil {
				slog.Error("websocket chat failed", "user_id", userID, "err", err)
				s.writeError(conn, types.MessageOf(err))
				continue
			}
			if err := conn.WriteJSON(types.WebsocketResponse{
				Type:    types.TypeWebsocketChat,
				Payload: resp,
			}); err != nil {
				slog.Warn("websocket write error", "err", err)
			}
		default:
			s.writeError(conn, "unknown message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	err := conn.WriteJSON(types.WebsocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebsocketErrorPayload{Message: message},
	})
	if err != nil {
		slog.Warn("websocket write error", "err", err)
	}
}
