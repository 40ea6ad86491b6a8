package conversations

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Vovarama1992/whisper_relay/internal/ports"
)

var (
	ErrNoAudio              = errors.New("no audio provided")
	ErrNoText               = errors.New("no text provided")
	ErrConversationNotFound = errors.New("conversation not found")
)

type TranscribeResult struct {
	ConversationID   uuid.UUID
	Text             string
	DetectedLanguage string
	Translated       string
}

type ReplyResult struct {
	// NoSpeech marks a voice reply whose transcription came back empty.
	// Nothing was persisted; it is a no-op signal, not an error.
	NoSpeech bool

	Text             string
	Translated       string
	Target           string
	Audio            []byte
	AudioContentType string
	TTSSource        string
	TTSErr           string
}

type Service interface {
	// ResolveRef maps an external client reference to its conversation,
	// creating it on first use. Safe to call concurrently for one ref.
	ResolveRef(ctx context.Context, ref string) (uuid.UUID, error)

	History(ctx context.Context, conversationID uuid.UUID) ([]ports.Message, error)
	Transcribe(ctx context.Context, conversationID uuid.UUID, audio []byte) (TranscribeResult, error)
	Reply(ctx context.Context, conversationID uuid.UUID, text string) (ReplyResult, error)
	ReplyVoice(ctx context.Context, conversationID uuid.UUID, audio []byte) (ReplyResult, error)
}
