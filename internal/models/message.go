package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ChatID    primitive.ObjectID `json:"chat_id" bson:"chat_id"`
	Role      string             `json:"role" bson:"role"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// ChatTurn is a single prior exchange entry supplied by the client as
// conversation history for a completion request.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
