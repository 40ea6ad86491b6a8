package speech

import "context"

// Transcript is a normalized speech-to-text result. Language is "auto"
// when the provider gives no detection.
type Transcript struct {
	Text     string
	Language string
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (Transcript, error)
}

// Detection is the result of a detect-and-translate call.
type Detection struct {
	Language   string
	Translated string
}

type Translator interface {
	DetectAndTranslate(ctx context.Context, text, to string) (Detection, error)
	Translate(ctx context.Context, text, to string) (string, error)
}

// SpeakResult always carries playable audio. Source is "rest", "sdk" or
// "fallback"; Warning holds the upstream error when a tier was skipped.
type SpeakResult struct {
	Data        []byte
	ContentType string
	Source      string
	Warning     string
}

type Synthesizer interface {
	// Speak never fails: total provider failure degrades to silence.
	Speak(ctx context.Context, text, langHint string) SpeakResult
}

type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string { return "transcription failed: " + e.Err.Error() }
func (e *TranscriptionError) Unwrap() error { return e.Err }

type TranslationError struct {
	Err error
}

func (e *TranslationError) Error() string { return "translation failed: " + e.Err.Error() }
func (e *TranslationError) Unwrap() error { return e.Err }
