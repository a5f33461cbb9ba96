package sqlite

import (
	"context"
	"database/sql"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/pkg/idx"
)

type messagesRepo struct {
	db *sql.DB
}

func (r *messagesRepo) CreateMessage(ctx context.Context, m domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID.String(), m.SenderID.String(), m.ReceiverID.String(), m.Body, m.CreatedAt,
	)
	return err
}

// ListThreads picks the newest message per conversation partner. Message IDs
// are ULIDs, so MAX(id) per peer is the latest message.
func (r *messagesRepo) ListThreads(ctx context.Context, userID idx.ID) ([]domain.Thread, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.sender_id, m.receiver_id, m.body, m.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.created_at, u.updated_at
		FROM messages m
		JOIN (
			SELECT MAX(id) AS last_id
			FROM messages
			WHERE sender_id = ?1 OR receiver_id = ?1
			GROUP BY CASE WHEN sender_id = ?1 THEN receiver_id ELSE sender_id END
		) t ON t.last_id = m.id
		JOIN users u ON u.id = CASE WHEN m.sender_id = ?1 THEN m.receiver_id ELSE m.sender_id END
		ORDER BY m.created_at DESC`,
		userID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []domain.Thread
	for rows.Next() {
		var th domain.Thread
		var msgID, senderID, receiverID, peerID string
		if err := rows.Scan(
			&msgID, &senderID, &receiverID, &th.LastMessage.Body, &th.LastMessage.CreatedAt,
			&peerID, &th.Peer.FirstName, &th.Peer.LastName, &th.Peer.Email,
			&th.Peer.CreatedAt, &th.Peer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		th.LastMessage.ID = idx.ID(msgID)
		th.LastMessage.SenderID = idx.ID(senderID)
		th.LastMessage.ReceiverID = idx.ID(receiverID)
		th.Peer.ID = idx.ID(peerID)
		threads = append(threads, th)
	}
	return threads, rows.Err()
}

func (r *messagesRepo) ListConversation(ctx context.Context, userID, peerID idx.ID, limit int) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, body, created_at
		FROM messages
		WHERE (sender_id = ?1 AND receiver_id = ?2)
		   OR (sender_id = ?2 AND receiver_id = ?1)
		ORDER BY created_at ASC, id ASC
		LIMIT ?3`,
		userID.String(), peerID.String(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var id, senderID, receiverID string
		if err := rows.Scan(&id, &senderID, &receiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ID = idx.ID(id)
		m.SenderID = idx.ID(senderID)
		m.ReceiverID = idx.ID(receiverID)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
