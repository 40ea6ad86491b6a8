package delivery

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"

	"github.com/Vovarama1992/whisper_relay/internal/conversations"
)

const maxUploadBytes = 20 << 20

type ApiHandler struct {
	svc conversations.Service
	log *logger.ZapLogger
}

func NewApiHandler(svc conversations.Service, log *logger.ZapLogger) *ApiHandler {
	return &ApiHandler{
		svc: svc,
		log: log,
	}
}

type historyItem struct {
	Role         string    `json:"role"`
	Text         string    `json:"text"`
	Translation  *string   `json:"translation"`
	SourceLang   string    `json:"sourceLang"`
	TargetLang   string    `json:"targetLang"`
	TimestampUtc time.Time `json:"timestampUtc"`
}

func (h *ApiHandler) History(w http.ResponseWriter, r *http.Request) {
	cid, err := uuid.Parse(r.URL.Query().Get("conversationId"))
	if err != nil {
		http.Error(w, "invalid conversationId", http.StatusBadRequest)
		return
	}

	messages, err := h.svc.History(r.Context(), cid)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "history db error", Error: err})
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	items := make([]historyItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, historyItem{
			Role:         m.Role,
			Text:         m.Text,
			Translation:  m.Translation,
			SourceLang:   m.SourceLang,
			TargetLang:   m.TargetLang,
			TimestampUtc: m.CreatedAt.UTC(),
		})
	}
	writeJSON(w, items)
}

func (h *ApiHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	// first turn may come with a client ref instead of a conversation id
	cid, err := uuid.Parse(r.FormValue("conversationId"))
	if err != nil {
		ref := r.FormValue("clientRef")
		if ref == "" {
			http.Error(w, "invalid conversationId", http.StatusBadRequest)
			return
		}
		cid, err = h.svc.ResolveRef(r.Context(), ref)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Transcribe failed", err.Error())
			return
		}
	}

	audio, ok := h.readAudioFile(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Transcribe(r.Context(), cid, audio)
	if err != nil {
		h.writeTurnError(w, "Transcribe failed", err)
		return
	}

	writeJSON(w, map[string]any{
		"conversationId":   res.ConversationID,
		"text":             res.Text,
		"detectedLanguage": res.DetectedLanguage,
		"translated":       res.Translated,
	})
}

type replyPayload struct {
	Translated       string `json:"translated"`
	Target           string `json:"target"`
	AudioBase64      string `json:"audioBase64"`
	AudioLength      int    `json:"audioLength"`
	AudioContentType string `json:"audioContentType"`
	TTSSource        string `json:"ttsSource"`
	TTSErr           string `json:"ttsErr"`
}

type voiceReplyPayload struct {
	Text string `json:"text"`
	replyPayload
	SttLen   int `json:"sttLen"`
	TransLen int `json:"transLen"`
}

type noSpeechPayload struct {
	Text             string  `json:"text"`
	Translated       string  `json:"translated"`
	Target           *string `json:"target"`
	AudioBase64      string  `json:"audioBase64"`
	AudioLength      int     `json:"audioLength"`
	AudioContentType string  `json:"audioContentType"`
	Note             string  `json:"note"`
	SttLen           int     `json:"sttLen"`
	TransLen         int     `json:"transLen"`
}

func (h *ApiHandler) Reply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	cid, err := uuid.Parse(r.FormValue("conversationId"))
	if err != nil {
		http.Error(w, "invalid conversationId", http.StatusBadRequest)
		return
	}
	text := r.FormValue("text")
	if text == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Reply(r.Context(), cid, text)
	if err != nil {
		h.writeTurnError(w, "Reply failed", err)
		return
	}

	writeJSON(w, toReplyPayload(res))
}

func (h *ApiHandler) ReplyVoice(w http.ResponseWriter, r *http.Request) {
	cid, audio, ok := h.readAudioForm(w, r)
	if !ok {
		return
	}

	res, err := h.svc.ReplyVoice(r.Context(), cid, audio)
	if err != nil {
		h.writeTurnError(w, "Voice reply failed", err)
		return
	}

	if res.NoSpeech {
		writeJSON(w, noSpeechPayload{
			AudioContentType: res.AudioContentType,
			Note:             "no_speech",
		})
		return
	}

	writeJSON(w, voiceReplyPayload{
		Text:         res.Text,
		replyPayload: toReplyPayload(res),
		SttLen:       len(res.Text),
		TransLen:     len(res.Translated),
	})
}

func toReplyPayload(res conversations.ReplyResult) replyPayload {
	return replyPayload{
		Translated:       res.Translated,
		Target:           res.Target,
		AudioBase64:      "data:" + res.AudioContentType + ";base64," + base64.StdEncoding.EncodeToString(res.Audio),
		AudioLength:      len(res.Audio),
		AudioContentType: res.AudioContentType,
		TTSSource:        res.TTSSource,
		TTSErr:           res.TTSErr,
	}
}

func (h *ApiHandler) readAudioForm(w http.ResponseWriter, r *http.Request) (uuid.UUID, []byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Error: err})
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return uuid.Nil, nil, false
	}

	cid, err := uuid.Parse(r.FormValue("conversationId"))
	if err != nil {
		http.Error(w, "invalid conversationId", http.StatusBadRequest)
		return uuid.Nil, nil, false
	}

	audio, ok := h.readAudioFile(w, r)
	if !ok {
		return uuid.Nil, nil, false
	}
	return cid, audio, true
}

func (h *ApiHandler) readAudioFile(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	file, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "no audio", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read audio: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if len(audio) == 0 {
		http.Error(w, "no audio", http.StatusBadRequest)
		return nil, false
	}
	return audio, true
}

func (h *ApiHandler) writeTurnError(w http.ResponseWriter, title string, err error) {
	switch {
	case errors.Is(err, conversations.ErrNoAudio), errors.Is(err, conversations.ErrNoText):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, conversations.ErrConversationNotFound):
		http.Error(w, "Conversation not found. Start by speaking first.", http.StatusBadRequest)
	default:
		h.log.Log(logger.LogEntry{Level: "error", Message: title, Error: err})
		writeProblem(w, http.StatusInternalServerError, title, err.Error())
	}
}
