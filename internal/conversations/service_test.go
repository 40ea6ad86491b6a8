package conversations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/whisper_relay/internal/ports"
	"github.com/Vovarama1992/whisper_relay/internal/speech"
)

// --- fakes ---

type fakeRepo struct {
	convos   map[uuid.UUID]ports.Conversation
	messages map[uuid.UUID][]ports.Message
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		convos:   make(map[uuid.UUID]ports.Conversation),
		messages: make(map[uuid.UUID][]ports.Message),
	}
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*ports.Conversation, error) {
	c, ok := r.convos[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeRepo) FindOrCreate(_ context.Context, id uuid.UUID, title string) (ports.Conversation, error) {
	if c, ok := r.convos[id]; ok {
		return c, nil
	}
	c := ports.Conversation{ID: id, Title: title, CreatedAt: time.Now().UTC()}
	r.convos[id] = c
	return c, nil
}

func (r *fakeRepo) FindOrCreateByRef(_ context.Context, ref string, title string) (ports.Conversation, error) {
	for _, c := range r.convos {
		if c.ExternalRef != nil && *c.ExternalRef == ref {
			return c, nil
		}
	}
	c := ports.Conversation{ID: uuid.New(), ExternalRef: &ref, Title: title, CreatedAt: time.Now().UTC()}
	r.convos[c.ID] = c
	return c, nil
}

func (r *fakeRepo) AppendMessage(_ context.Context, msg ports.Message) (int64, error) {
	r.nextID++
	msg.ID = r.nextID
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], msg)
	return msg.ID, nil
}

func (r *fakeRepo) GetHistory(_ context.Context, conversationID uuid.UUID) ([]ports.Message, error) {
	return r.messages[conversationID], nil
}

type stubSTT struct {
	text string
	lang string
	err  error
}

func (s *stubSTT) Transcribe(context.Context, []byte) (speech.Transcript, error) {
	if s.err != nil {
		return speech.Transcript{}, s.err
	}
	return speech.Transcript{Text: s.text, Language: s.lang}, nil
}

type stubTranslator struct {
	detLang    string
	detText    string
	translated string
	err        error
	lastTarget string
}

func (s *stubTranslator) DetectAndTranslate(_ context.Context, text, to string) (speech.Detection, error) {
	if s.err != nil {
		return speech.Detection{}, s.err
	}
	s.lastTarget = to
	return speech.Detection{Language: s.detLang, Translated: s.detText}, nil
}

func (s *stubTranslator) Translate(_ context.Context, text, to string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastTarget = to
	return s.translated, nil
}

type stubTTS struct{}

func (stubTTS) Speak(context.Context, string, string) speech.SpeakResult {
	return speech.SpeakResult{Data: []byte("mp3-bytes"), ContentType: "audio/mpeg", Source: "rest"}
}

func newTestService(repo *fakeRepo, stt *stubSTT, tr *stubTranslator) Service {
	return NewService(repo, stt, tr, stubTTS{}, nil, nil)
}

// --- scenarios ---

func TestTranscribeTurnCreatesConversationAndUserMessage(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo,
		&stubSTT{text: "Bonjour", lang: "fr"},
		&stubTranslator{detLang: "fr", detText: "Hello"},
	)

	cid := uuid.New()
	res, err := svc.Transcribe(context.Background(), cid, []byte("webm"))
	require.NoError(t, err)

	assert.Equal(t, cid, res.ConversationID)
	assert.Equal(t, "Bonjour", res.Text)
	assert.Equal(t, "fr", res.DetectedLanguage)
	assert.Equal(t, "Hello", res.Translated)

	require.Len(t, repo.messages[cid], 1)
	m := repo.messages[cid][0]
	assert.Equal(t, ports.RoleUser, m.Role)
	assert.Equal(t, "fr", m.SourceLang)
	assert.Equal(t, "en", m.TargetLang)
	assert.Equal(t, "Bonjour", m.Text)
	require.NotNil(t, m.Translation)
	assert.Equal(t, "Hello", *m.Translation)
}

func TestReplyTurnRoutesToLastUserLanguage(t *testing.T) {
	repo := newFakeRepo()
	cid := uuid.New()
	repo.convos[cid] = ports.Conversation{ID: cid}
	repo.messages[cid] = []ports.Message{
		{ConversationID: cid, Role: ports.RoleUser, SourceLang: "fr", TargetLang: "en", Text: "Bonjour"},
	}

	tr := &stubTranslator{translated: "Comment allez-vous ?"}
	svc := newTestService(repo, &stubSTT{}, tr)

	res, err := svc.Reply(context.Background(), cid, "How are you?")
	require.NoError(t, err)

	assert.Equal(t, "fr", tr.lastTarget)
	assert.Equal(t, "fr", res.Target)
	assert.Equal(t, "Comment allez-vous ?", res.Translated)
	assert.Equal(t, "rest", res.TTSSource)
	assert.NotEmpty(t, res.Audio)

	require.Len(t, repo.messages[cid], 2)
	m := repo.messages[cid][1]
	assert.Equal(t, ports.RoleAssistant, m.Role)
	assert.Equal(t, "en", m.SourceLang)
	assert.Equal(t, "fr", m.TargetLang)
	assert.Equal(t, "How are you?", m.Text)
}

func TestVoiceReplyNoSpeechPersistsNothing(t *testing.T) {
	repo := newFakeRepo()
	cid := uuid.New()
	repo.convos[cid] = ports.Conversation{ID: cid}

	svc := newTestService(repo, &stubSTT{text: "   "}, &stubTranslator{})

	res, err := svc.ReplyVoice(context.Background(), cid, []byte("webm"))
	require.NoError(t, err)
	assert.True(t, res.NoSpeech)
	assert.Empty(t, repo.messages[cid])
}

func TestVoiceReplyUnknownConversation(t *testing.T) {
	svc := newTestService(newFakeRepo(), &stubSTT{text: "hi"}, &stubTranslator{})

	_, err := svc.ReplyVoice(context.Background(), uuid.New(), []byte("webm"))
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestVoiceReplyCarriesTranscript(t *testing.T) {
	repo := newFakeRepo()
	cid := uuid.New()
	repo.convos[cid] = ports.Conversation{ID: cid}
	repo.messages[cid] = []ports.Message{
		{ConversationID: cid, Role: ports.RoleUser, SourceLang: "de"},
	}

	svc := newTestService(repo, &stubSTT{text: "Good morning", lang: "en"}, &stubTranslator{translated: "Guten Morgen"})

	res, err := svc.ReplyVoice(context.Background(), cid, []byte("webm"))
	require.NoError(t, err)
	assert.Equal(t, "Good morning", res.Text)
	assert.Equal(t, "de", res.Target)
	assert.Equal(t, "Guten Morgen", res.Translated)
	require.Len(t, repo.messages[cid], 2)
}

func TestResolveRefIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &stubSTT{}, &stubTranslator{})

	first, err := svc.ResolveRef(context.Background(), "widget-abc")
	require.NoError(t, err)
	second, err := svc.ResolveRef(context.Background(), "widget-abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, repo.convos, 1)

	_, err = svc.ResolveRef(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestValidationFailures(t *testing.T) {
	svc := newTestService(newFakeRepo(), &stubSTT{}, &stubTranslator{})

	_, err := svc.Transcribe(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNoAudio)

	_, err = svc.Reply(context.Background(), uuid.New(), "   ")
	assert.ErrorIs(t, err, ErrNoText)

	_, err = svc.ReplyVoice(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestProviderFailureAbortsTurnWithoutPersistence(t *testing.T) {
	repo := newFakeRepo()
	sttErr := &speech.TranscriptionError{Err: errors.New("quota exceeded")}
	svc := newTestService(repo, &stubSTT{err: sttErr}, &stubTranslator{})

	cid := uuid.New()
	_, err := svc.Transcribe(context.Background(), cid, []byte("webm"))

	var te *speech.TranscriptionError
	require.ErrorAs(t, err, &te)
	assert.Empty(t, repo.messages[cid])
	assert.Empty(t, repo.convos)
}

func TestCancelledTurnIsNotPersisted(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &stubSTT{text: "hello", lang: "en"}, &stubTranslator{detLang: "en", detText: "hello"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cid := uuid.New()
	_, err := svc.Transcribe(ctx, cid, []byte("webm"))
	require.Error(t, err)
	assert.Empty(t, repo.messages[cid])
}
