package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// AzureTTSClient is the primary synthesis channel: the plain HTTPS speech
// endpoint fed with an SSML document, MP3 out.
type AzureTTSClient struct {
	apiKey   string
	region   string
	endpoint string
	httpCli  *http.Client
}

func NewAzureTTSClient() *AzureTTSClient {
	key := os.Getenv("SPEECH_KEY")
	if key == "" {
		panic("SPEECH_KEY not set")
	}
	region := os.Getenv("SPEECH_REGION")
	if region == "" {
		panic("SPEECH_REGION not set")
	}

	return &AzureTTSClient{
		apiKey:   key,
		region:   region,
		endpoint: fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		httpCli:  http.DefaultClient,
	}
}

func (c *AzureTTSClient) Synthesize(ctx context.Context, text string, v voice) ([]byte, error) {
	ssml := fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang=%q><voice name=%q xml:lang=%q>%s</voice></speak>`,
		v.Locale, v.Name, v.Locale, ssmlEscaper.Replace(text),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(ssml))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	req.Header.Set("Ocp-Apim-Subscription-Region", c.region)
	req.Header.Set("X-Microsoft-OutputFormat", "audio-24khz-48kbitrate-mono-mp3")
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("User-Agent", "whisper-relay/1.0")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts http %d: %s", resp.StatusCode, b)
	}

	return io.ReadAll(resp.Body)
}
