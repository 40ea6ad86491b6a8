package speech

import (
	"bytes"
	"context"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClient() *WhisperClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &WhisperClient{
		client: openai.NewClient(apiKey),
		model:  openai.Whisper1,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (Transcript, error) {
	// Whisper needs a seekable source, so the whole clip goes through memory.
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: "speech.webm",
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Transcript{}, &TranscriptionError{Err: err}
	}

	lang := resp.Language
	if lang == "" {
		lang = "auto"
	}
	// Empty text is a valid answer (no speech in the clip), not an error.
	return Transcript{Text: resp.Text, Language: lang}, nil
}
