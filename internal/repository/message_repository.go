package repository

import (
	"context"
	"database/sql"

	"github.com/ecocollect/platform/internal/model"
)

// MessageRepo persists direct messages between users and the admin inbox.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create stores a message. A nil receiver addresses the admin inbox.
func (r *MessageRepo) Create(ctx context.Context, senderID uint64, receiverID *uint64, content string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, content) VALUES (?,?,?)",
		senderID, receiverID, content)
	return err
}

// MessageDetail is a message joined with the sender's display name.
type MessageDetail struct {
	model.Message
	SenderName string
}

// ListFor returns the conversation history involving a user (sent or
// received), oldest first so clients can render chronologically.
func (r *MessageRepo) ListFor(ctx context.Context, userID uint64) ([]MessageDetail, error) {
	const q = `SELECT m.id, m.sender_id, m.receiver_id, m.content, m.created_at, u.name
               FROM messages m
               JOIN users u ON u.id = m.sender_id
               WHERE m.sender_id = ? OR m.receiver_id = ?
               ORDER BY m.created_at ASC`
	rows, err := r.DB.QueryContext(ctx, q, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]MessageDetail, 0)
	for rows.Next() {
		var d MessageDetail
		var recv sql.NullInt64
		if err := rows.Scan(&d.ID, &d.SenderID, &recv, &d.Content, &d.CreatedAt, &d.SenderName); err != nil {
			return nil, err
		}
		if recv.Valid {
			rid := uint64(recv.Int64)
			d.ReceiverID = &rid
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
