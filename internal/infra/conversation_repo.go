package infra

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/whisper_relay/internal/ports"
)

type conversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) ports.ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Get(ctx context.Context, id uuid.UUID) (*ports.Conversation, error) {
	var c ports.Conversation
	err := r.db.QueryRowContext(ctx, `
		SELECT id, external_ref, title, created_at
		FROM conversations
		WHERE id = $1
	`, id).Scan(&c.ID, &c.ExternalRef, &c.Title, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepo) FindOrCreate(ctx context.Context, id uuid.UUID, title string) (ports.Conversation, error) {
	// insert-then-select so two concurrent turns land on the same row
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id, title, time.Now().UTC()); err != nil {
		return ports.Conversation{}, err
	}

	c, err := r.Get(ctx, id)
	if err != nil {
		return ports.Conversation{}, err
	}
	return *c, nil
}

func (r *conversationRepo) FindOrCreateByRef(ctx context.Context, ref string, title string) (ports.Conversation, error) {
	// the unique constraint on external_ref is what prevents duplicates,
	// not any in-process locking
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, external_ref, title, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_ref) DO NOTHING
	`, uuid.New(), ref, title, time.Now().UTC()); err != nil {
		return ports.Conversation{}, err
	}

	var c ports.Conversation
	err := r.db.QueryRowContext(ctx, `
		SELECT id, external_ref, title, created_at
		FROM conversations
		WHERE external_ref = $1
	`, ref).Scan(&c.ID, &c.ExternalRef, &c.Title, &c.CreatedAt)
	return c, err
}

func (r *conversationRepo) AppendMessage(ctx context.Context, msg ports.Message) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (conversation_id, role, source_lang, target_lang, text, translation, audio_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, msg.ConversationID, msg.Role, msg.SourceLang, msg.TargetLang,
		msg.Text, msg.Translation, msg.AudioURL, msg.CreatedAt).Scan(&id)
	return id, err
}

func (r *conversationRepo) GetHistory(ctx context.Context, conversationID uuid.UUID) ([]ports.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, source_lang, target_lang, text, translation, audio_url, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []ports.Message
	for rows.Next() {
		var m ports.Message
		if err := rows.Scan(
			&m.ID,
			&m.ConversationID,
			&m.Role,
			&m.SourceLang,
			&m.TargetLang,
			&m.Text,
			&m.Translation,
			&m.AudioURL,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
