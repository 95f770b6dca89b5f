package model

import "time"

type InboundMessageID string

type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindVoice    MessageKind = "voice"
	MessageKindCallback MessageKind = "callback_query"
)

// InboundMessage is one delivery from the messaging channel. The provider
// message id is only unique within a chat, so (ChatID, MessageID) is the
// idempotency key.
type InboundMessage struct {
	ID        InboundMessageID `db:"ID" json:"id"`
	MessageID string           `db:"MessageID" json:"messageId"`
	ChatID    string           `db:"ChatID" json:"chatId"`
	Content   string           `db:"Content" json:"content"`
	Kind      MessageKind      `db:"Kind" json:"kind"`
	Processed bool             `db:"Processed" json:"processed"`
	CreatedAt time.Time        `db:"CreatedAt" json:"createdAt"`
}
