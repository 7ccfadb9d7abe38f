package adapter

import (
	"context"
	"errors"

	chat "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/application/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/chat/persistence/repository/port"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ port.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) CreateMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (sender_id, receiver_id, content, read, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		RETURNING id::text
	`, m.SenderID, m.ReceiverID, m.Content, m.Read, m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) FindMessagesBetween(ctx context.Context, a, b string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	// The (sender_id, receiver_id, created_at) index serves both directions
	// of this OR; display data is joined in rather than resolved per row.
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.sender_id::text, m.receiver_id::text, m.content, m.read, m.created_at,
		       s.name, s.email, t.name, t.email
		FROM chat.message m
		JOIN chat.app_user s ON s.id = m.sender_id
		JOIN chat.app_user t ON t.id = m.receiver_id
		WHERE (m.sender_id = $1::uuid AND m.receiver_id = $2::uuid)
		   OR (m.sender_id = $2::uuid AND m.receiver_id = $1::uuid)
		ORDER BY m.created_at ASC
	`, a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			msg                         chat.Message
			senderName, senderEmail     string
			receiverName, receiverEmail string
		)
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Read, &msg.CreatedAt,
			&senderName, &senderEmail, &receiverName, &receiverEmail); err != nil {
			return nil, err
		}
		msg.Sender = &user.Ref{ID: msg.SenderID, Name: senderName, Email: senderEmail}
		msg.Receiver = &user.Ref{ID: msg.ReceiverID, Name: receiverName, Email: receiverEmail}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) MarkConversationRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read = TRUE
		WHERE sender_id = $1::uuid AND receiver_id = $2::uuid AND read = FALSE
	`, senderID, receiverID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgMessageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgMessageRepository: nil pool")
	}
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM chat.message
		WHERE receiver_id = $1::uuid AND read = FALSE
	`, receiverID).Scan(&count)
	return count, err
}
