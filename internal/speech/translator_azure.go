package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

type AzureTranslator struct {
	apiKey   string
	region   string
	endpoint string
	client   *http.Client
}

func NewAzureTranslator() *AzureTranslator {
	key := os.Getenv("TRANSLATOR_KEY")
	if key == "" {
		panic("TRANSLATOR_KEY not set")
	}

	endpoint := os.Getenv("TRANSLATOR_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://api.cognitive.microsofttranslator.com"
	}

	return &AzureTranslator{
		apiKey:   key,
		region:   os.Getenv("TRANSLATOR_REGION"),
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

type translationItem struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// DetectAndTranslate is used when the source language is unknown (first
// turn). Falls back to the original text and "auto" when the provider
// returns no candidate or no detection.
func (t *AzureTranslator) DetectAndTranslate(ctx context.Context, text, to string) (Detection, error) {
	item, err := t.call(ctx, text, to)
	if err != nil {
		return Detection{}, &TranslationError{Err: err}
	}

	det := Detection{Language: "auto", Translated: text}
	if item.DetectedLanguage != nil && item.DetectedLanguage.Language != "" {
		det.Language = item.DetectedLanguage.Language
	}
	if len(item.Translations) > 0 {
		det.Translated = item.Translations[0].Text
	}
	return det, nil
}

// Translate deliberately never forwards a source language: detection stays
// on the provider side and keeps working across API versions.
func (t *AzureTranslator) Translate(ctx context.Context, text, to string) (string, error) {
	item, err := t.call(ctx, text, to)
	if err != nil {
		return "", &TranslationError{Err: err}
	}
	if len(item.Translations) == 0 {
		return "", &TranslationError{Err: fmt.Errorf("no translation returned for target %q", to)}
	}
	return item.Translations[0].Text, nil
}

func (t *AzureTranslator) call(ctx context.Context, text, to string) (translationItem, error) {
	payload, err := json.Marshal([]map[string]string{{"Text": text}})
	if err != nil {
		return translationItem{}, err
	}

	u := fmt.Sprintf("%s/translate?api-version=3.0&to=%s", t.endpoint, url.QueryEscape(to))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return translationItem{}, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.apiKey)
	req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return translationItem{}, fmt.Errorf("translator request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return translationItem{}, fmt.Errorf("translator error %d: %s", resp.StatusCode, body)
	}

	var parsed []translationItem
	if err := json.Unmarshal(body, &parsed); err != nil {
		return translationItem{}, fmt.Errorf("decode translator response: %w", err)
	}
	if len(parsed) == 0 {
		return translationItem{}, fmt.Errorf("empty translator response")
	}
	return parsed[0], nil
}
