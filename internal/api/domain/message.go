package domain

import (
	"time"

	"github.com/quietwire/courier/pkg/idx"
)

// Message is a single direct message between two users.
type Message struct {
	ID         idx.ID    `json:"id"`
	SenderID   idx.ID    `json:"senderId"`
	ReceiverID idx.ID    `json:"receiverId"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Thread summarises a conversation for the inbox view: the other party plus
// the most recent message exchanged with them.
type Thread struct {
	Peer        User    `json:"peer"`
	LastMessage Message `json:"lastMessage"`
}
