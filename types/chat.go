package types

// ChatExchange is one side of a conversation turn. Records are append-only;
// a successful Converse call writes two of them, one with IsUser set and one
// without. The _id is a generated ObjectID hex, so it sorts by creation order
// and breaks ties between same-second pairs.
type ChatExchange struct {
	ID        string `json:"id" bson:"_id"`
	UserID    string `json:"user_id" bson:"user_id"`
	Message   string `json:"message" bson:"message"`
	IsUser    bool   `json:"is_user" bson:"is_user"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type WebsocketResponse struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type WebsocketChatPayload struct {
	Message string `json:"message"`
}

type WebsocketErrorPayload struct {
	Message string `json:"message"`
}
