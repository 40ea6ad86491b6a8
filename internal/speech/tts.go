package speech

import (
	"context"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
)

// synthTier is one synthesis channel. Tiers share a uniform signature so
// the fallback chain stays an ordered list, not nested error handling.
type synthTier struct {
	name string
	run  func(ctx context.Context, text string, v voice) ([]byte, error)
}

// TTSPipeline walks its tiers in order and returns the first non-empty
// payload. When every real provider fails it frames one second of PCM
// silence, so the caller always gets playable audio.
type TTSPipeline struct {
	tiers []synthTier
}

func NewTTSPipeline(primary *AzureTTSClient, alternate *ElevenLabsClient) *TTSPipeline {
	return &TTSPipeline{
		tiers: []synthTier{
			{name: "rest", run: primary.Synthesize},
			// wire value kept as "sdk" for existing web clients
			{name: "sdk", run: alternate.Synthesize},
		},
	}
}

func (p *TTSPipeline) Speak(ctx context.Context, text, langHint string) SpeakResult {
	text = SanitizeForSSML(text)
	v := pickVoice(langHint)

	var lastErr string
	for _, tier := range p.tiers {
		data, err := tier.run(ctx, text, v)
		if err != nil {
			log.Printf("[tts] tier %s failed: %v", tier.name, err)
			lastErr = err.Error()
			continue
		}
		if len(data) == 0 {
			lastErr = fmt.Sprintf("tier %s returned an empty payload", tier.name)
			log.Printf("[tts] %s", lastErr)
			continue
		}

		log.Printf("[tts] tier %s ok, %s, voice %s", tier.name, humanize.Bytes(uint64(len(data))), v.Name)
		return SpeakResult{
			Data:        data,
			ContentType: "audio/mpeg",
			Source:      tier.name,
			Warning:     lastErr,
		}
	}

	log.Printf("[tts] all tiers failed, returning silence (last error: %s)", lastErr)
	return SpeakResult{
		Data:        silenceWAV(1, 16000),
		ContentType: "audio/wav",
		Source:      "fallback",
		Warning:     lastErr,
	}
}
