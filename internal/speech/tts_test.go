package speech

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTier(name string, data []byte, err error) synthTier {
	return synthTier{
		name: name,
		run: func(context.Context, string, voice) ([]byte, error) {
			return data, err
		},
	}
}

func TestSpeakPrimaryTier(t *testing.T) {
	p := &TTSPipeline{tiers: []synthTier{
		fixedTier("rest", []byte("mp3"), nil),
		fixedTier("sdk", nil, errors.New("should not be reached")),
	}}

	res := p.Speak(context.Background(), "hello", "fr")
	assert.Equal(t, "rest", res.Source)
	assert.Equal(t, "audio/mpeg", res.ContentType)
	assert.Equal(t, []byte("mp3"), res.Data)
	assert.Empty(t, res.Warning)
}

func TestSpeakFallsBackToAlternateTier(t *testing.T) {
	p := &TTSPipeline{tiers: []synthTier{
		fixedTier("rest", nil, errors.New("tts http 401: denied")),
		fixedTier("sdk", []byte("alt-mp3"), nil),
	}}

	res := p.Speak(context.Background(), "hello", "de")
	assert.Equal(t, "sdk", res.Source)
	assert.Equal(t, "audio/mpeg", res.ContentType)
	assert.Equal(t, []byte("alt-mp3"), res.Data)
	assert.Contains(t, res.Warning, "tts http 401")
}

func TestSpeakEmptyPayloadCountsAsFailure(t *testing.T) {
	p := &TTSPipeline{tiers: []synthTier{
		fixedTier("rest", []byte{}, nil),
		fixedTier("sdk", []byte("alt"), nil),
	}}

	res := p.Speak(context.Background(), "hello", "es")
	assert.Equal(t, "sdk", res.Source)
	assert.Contains(t, res.Warning, "empty payload")
}

func TestSpeakDegradesToSilence(t *testing.T) {
	p := &TTSPipeline{tiers: []synthTier{
		fixedTier("rest", nil, errors.New("rest down")),
		fixedTier("sdk", nil, errors.New("sdk down")),
	}}

	res := p.Speak(context.Background(), "hello", "ja")
	assert.Equal(t, "fallback", res.Source)
	assert.Equal(t, "audio/wav", res.ContentType)
	assert.Equal(t, "sdk down", res.Warning) // most specific error

	// one second of 16kHz mono 16-bit PCM, correctly framed
	data := res.Data
	require.Len(t, data, 44+32000)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "fmt ", string(data[12:16]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))  // PCM
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))  // mono
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))
	assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(data[40:44]))

	for _, b := range data[44:] {
		if b != 0 {
			t.Fatal("silence payload must be all zero samples")
		}
	}
}

func TestSpeakNeverReturnsEmptyAudio(t *testing.T) {
	p := &TTSPipeline{tiers: nil} // no providers configured at all

	res := p.Speak(context.Background(), "", "")
	assert.Equal(t, "fallback", res.Source)
	assert.NotEmpty(t, res.Data)
}
