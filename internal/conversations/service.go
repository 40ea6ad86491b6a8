package conversations

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vovarama1992/whisper_relay/internal/error_notificator"
	"github.com/Vovarama1992/whisper_relay/internal/ports"
	"github.com/Vovarama1992/whisper_relay/internal/speech"
)

const defaultTitle = "Conversation"

type service struct {
	repo       ports.ConversationRepo
	stt        speech.Transcriber
	translator speech.Translator
	tts        speech.Synthesizer
	s3         ports.S3Service
	Notifier   error_notificator.Notificator
}

func NewService(
	repo ports.ConversationRepo,
	stt speech.Transcriber,
	translator speech.Translator,
	tts speech.Synthesizer,
	s3 ports.S3Service,
	notifier error_notificator.Notificator,
) Service {
	return &service{
		repo:       repo,
		stt:        stt,
		translator: translator,
		tts:        tts,
		s3:         s3,
		Notifier:   notifier,
	}
}

func (s *service) ResolveRef(ctx context.Context, ref string) (uuid.UUID, error) {
	if strings.TrimSpace(ref) == "" {
		return uuid.Nil, ErrConversationNotFound
	}
	convo, err := s.repo.FindOrCreateByRef(ctx, ref, defaultTitle)
	if err != nil {
		return uuid.Nil, err
	}
	return convo.ID, nil
}

func (s *service) History(ctx context.Context, conversationID uuid.UUID) ([]ports.Message, error) {
	return s.repo.GetHistory(ctx, conversationID)
}

// Transcribe is the user-speaks turn: STT, detect+translate to English,
// then a user message lands in the conversation (created on first use).
func (s *service) Transcribe(ctx context.Context, conversationID uuid.UUID, audio []byte) (TranscribeResult, error) {
	if len(audio) == 0 {
		return TranscribeResult{}, ErrNoAudio
	}

	start := time.Now()
	log.Printf("[turn] >>> transcribe convo=%s audio=%d bytes", conversationID, len(audio))

	tr, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		s.notify(ctx, "stt", err, conversationID)
		return TranscribeResult{}, err
	}

	det, err := s.translator.DetectAndTranslate(ctx, tr.Text, "en")
	if err != nil {
		s.notify(ctx, "translator", err, conversationID)
		return TranscribeResult{}, err
	}

	convo, err := s.repo.FindOrCreate(ctx, conversationID, defaultTitle)
	if err != nil {
		return TranscribeResult{}, err
	}

	// a cancelled caller must not leave a half-written turn behind
	if err := ctx.Err(); err != nil {
		return TranscribeResult{}, err
	}

	translation := det.Translated
	if _, err := s.repo.AppendMessage(ctx, ports.Message{
		ConversationID: convo.ID,
		Role:           ports.RoleUser,
		SourceLang:     det.Language,
		TargetLang:     "en",
		Text:           tr.Text,
		Translation:    &translation,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		return TranscribeResult{}, err
	}

	log.Printf("[turn] <<< transcribe convo=%s lang=%s took=%s", convo.ID, det.Language, time.Since(start))
	return TranscribeResult{
		ConversationID:   convo.ID,
		Text:             tr.Text,
		DetectedLanguage: det.Language,
		Translated:       det.Translated,
	}, nil
}

// Reply is the operator-types turn. The conversation is created if absent,
// so an operator can open a dialogue before the visitor has spoken.
func (s *service) Reply(ctx context.Context, conversationID uuid.UUID, text string) (ReplyResult, error) {
	if strings.TrimSpace(text) == "" {
		return ReplyResult{}, ErrNoText
	}

	convo, err := s.repo.FindOrCreate(ctx, conversationID, defaultTitle)
	if err != nil {
		return ReplyResult{}, err
	}

	return s.voiceReply(ctx, convo, text)
}

// ReplyVoice is the operator-speaks turn: the reply audio is transcribed
// to English first. It refuses unknown conversations — a spoken reply
// needs someone to reply to.
func (s *service) ReplyVoice(ctx context.Context, conversationID uuid.UUID, audio []byte) (ReplyResult, error) {
	if len(audio) == 0 {
		return ReplyResult{}, ErrNoAudio
	}

	convo, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return ReplyResult{}, err
	}
	if convo == nil {
		return ReplyResult{}, ErrConversationNotFound
	}

	tr, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		s.notify(ctx, "stt", err, conversationID)
		return ReplyResult{}, err
	}
	if strings.TrimSpace(tr.Text) == "" {
		log.Printf("[turn] reply-voice convo=%s: no speech, nothing persisted", conversationID)
		return ReplyResult{NoSpeech: true, AudioContentType: "audio/mpeg"}, nil
	}

	res, err := s.voiceReply(ctx, *convo, tr.Text)
	if err != nil {
		return ReplyResult{}, err
	}
	res.Text = tr.Text
	return res, nil
}

// voiceReply is the shared tail of both reply turns: route the target
// language, translate the English text, synthesize, persist. The stages
// run strictly in this order — each consumes the previous one's output.
func (s *service) voiceReply(ctx context.Context, convo ports.Conversation, englishText string) (ReplyResult, error) {
	history, err := s.repo.GetHistory(ctx, convo.ID)
	if err != nil {
		return ReplyResult{}, err
	}
	target := ResolveReplyTarget(history)

	translated, err := s.translator.Translate(ctx, englishText, target)
	if err != nil {
		s.notify(ctx, "translator", err, convo.ID)
		return ReplyResult{}, err
	}

	spoken := s.tts.Speak(ctx, translated, target)

	// archive copy is best effort: a broken bucket must not break the turn
	var audioURL *string
	if s.s3 != nil {
		key := fmt.Sprintf("tts/%s/%s%s", convo.ID, uuid.New(), audioExt(spoken.ContentType))
		if url, upErr := s.s3.UploadAudio(ctx, key, spoken.Data, spoken.ContentType); upErr != nil {
			log.Printf("[turn] audio upload failed convo=%s: %v", convo.ID, upErr)
		} else {
			audioURL = &url
		}
	}

	if err := ctx.Err(); err != nil {
		return ReplyResult{}, err
	}

	if _, err := s.repo.AppendMessage(ctx, ports.Message{
		ConversationID: convo.ID,
		Role:           ports.RoleAssistant,
		SourceLang:     "en",
		TargetLang:     target,
		Text:           englishText,
		Translation:    &translated,
		AudioURL:       audioURL,
		CreatedAt:      time.Now().UTC(),
	}); err != nil {
		return ReplyResult{}, err
	}

	return ReplyResult{
		Translated:       translated,
		Target:           target,
		Audio:            spoken.Data,
		AudioContentType: spoken.ContentType,
		TTSSource:        spoken.Source,
		TTSErr:           spoken.Warning,
	}, nil
}

func (s *service) notify(ctx context.Context, source string, err error, convoID uuid.UUID) {
	if s.Notifier == nil {
		return
	}
	_ = s.Notifier.Notify(ctx, source, err, fmt.Sprintf("conversation %s", convoID))
}

func audioExt(contentType string) string {
	if contentType == "audio/wav" {
		return ".wav"
	}
	return ".mp3"
}
