package model

import "time"

// Message is a direct message between two users. When no receiver is given
// the message is addressed to the admin inbox.
type Message struct {
    ID         uint64    // messages.id
    SenderID   uint64    // messages.sender_id
    ReceiverID *uint64   // messages.receiver_id (nullable = admin inbox)
    Content    string    // messages.content
    CreatedAt  time.Time // messages.created_at
}
