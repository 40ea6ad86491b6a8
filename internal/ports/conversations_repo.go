package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LangAuto is what speech detection reports for ambiguous or silent input.
// It is a sentinel, not a language — replies are never routed into it.
const LangAuto = "auto"

type Conversation struct {
	ID          uuid.UUID
	ExternalRef *string
	Title       string
	CreatedAt   time.Time
}

type Message struct {
	ID             int64
	ConversationID uuid.UUID
	Role           string
	SourceLang     string
	TargetLang     string
	Text           string
	Translation    *string
	AudioURL       *string
	CreatedAt      time.Time
}

type ConversationRepo interface {
	// Get returns nil (no error) when the conversation does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Conversation, error)

	// FindOrCreate is race-safe: two concurrent calls with the same id
	// resolve to the same row.
	FindOrCreate(ctx context.Context, id uuid.UUID, title string) (Conversation, error)

	// FindOrCreateByRef resolves by the external unique reference. The
	// uniqueness guarantee lives in the DB constraint, not in-process.
	FindOrCreateByRef(ctx context.Context, ref string, title string) (Conversation, error)

	AppendMessage(ctx context.Context, msg Message) (int64, error)

	// GetHistory returns messages in insertion order.
	GetHistory(ctx context.Context, conversationID uuid.UUID) ([]Message, error)
}
