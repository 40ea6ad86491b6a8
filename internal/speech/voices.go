package speech

import (
	"strings"
	"unicode/utf8"
)

type voice struct {
	Locale string
	Name   string
}

var defaultVoice = voice{"en-GB", "en-GB-SoniaNeural"}

var voiceTable = map[string]voice{
	"en":      {"en-GB", "en-GB-SoniaNeural"},
	"en-gb":   {"en-GB", "en-GB-SoniaNeural"},
	"en-us":   {"en-US", "en-US-JennyNeural"},
	"fr":      {"fr-FR", "fr-FR-DeniseNeural"},
	"fr-fr":   {"fr-FR", "fr-FR-DeniseNeural"},
	"es":      {"es-ES", "es-ES-ElviraNeural"},
	"es-es":   {"es-ES", "es-ES-ElviraNeural"},
	"de":      {"de-DE", "de-DE-KatjaNeural"},
	"de-de":   {"de-DE", "de-DE-KatjaNeural"},
	"it":      {"it-IT", "it-IT-ElsaNeural"},
	"it-it":   {"it-IT", "it-IT-ElsaNeural"},
	"pt":      {"pt-PT", "pt-PT-FernandaNeural"},
	"pt-pt":   {"pt-PT", "pt-PT-FernandaNeural"},
	"pt-br":   {"pt-BR", "pt-BR-FranciscaNeural"},
	"pl":      {"pl-PL", "pl-PL-ZofiaNeural"},
	"pl-pl":   {"pl-PL", "pl-PL-ZofiaNeural"},
	"ru":      {"ru-RU", "ru-RU-DmitryNeural"},
	"ru-ru":   {"ru-RU", "ru-RU-DmitryNeural"},
	"tr":      {"tr-TR", "tr-TR-EmelNeural"},
	"tr-tr":   {"tr-TR", "tr-TR-EmelNeural"},
	"ar":      {"ar-EG", "ar-EG-SalmaNeural"},
	"ar-eg":   {"ar-EG", "ar-EG-SalmaNeural"},
	"zh":      {"zh-CN", "zh-CN-XiaoxiaoNeural"},
	"zh-hans": {"zh-CN", "zh-CN-XiaoxiaoNeural"},
	"zh-cn":   {"zh-CN", "zh-CN-XiaoxiaoNeural"},
	"zh-hant": {"zh-TW", "zh-TW-HsiaoChenNeural"},
	"zh-tw":   {"zh-TW", "zh-TW-HsiaoChenNeural"},
	"ja":      {"ja-JP", "ja-JP-NanamiNeural"},
	"ja-jp":   {"ja-JP", "ja-JP-NanamiNeural"},
	"ko":      {"ko-KR", "ko-KR-SunHiNeural"},
	"ko-kr":   {"ko-KR", "ko-KR-SunHiNeural"},
	"nl":      {"nl-NL", "nl-NL-ColetteNeural"},
	"nl-nl":   {"nl-NL", "nl-NL-ColetteNeural"},
	"sv":      {"sv-SE", "sv-SE-HilleviNeural"},
	"sv-se":   {"sv-SE", "sv-SE-HilleviNeural"},
}

// pickVoice maps a language hint to a locale/voice pair. Unknown or empty
// hints fall back to the British English voice.
func pickVoice(code string) voice {
	if v, ok := voiceTable[strings.ToLower(strings.TrimSpace(code))]; ok {
		return v
	}
	return defaultVoice
}

const maxUtteranceChars = 4000

// SanitizeForSSML strips characters SSML cannot carry (controls outside
// tab/LF/CR and anything outside 0x20–0xD7FF / 0xE000–0xFFFD), caps the
// utterance length and never returns a blank string: every provider rejects
// an empty utterance, so blank collapses to a single space. Idempotent.
func SanitizeForSSML(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == '\t' || r == '\n' || r == '\r' ||
			(r >= 0x20 && r <= 0xD7FF) || (r >= 0xE000 && r <= 0xFFFD) {
			b.WriteRune(r)
		}
	}

	s := b.String()
	if utf8.RuneCountInString(s) > maxUtteranceChars {
		runes := []rune(s)
		s = string(runes[:maxUtteranceChars])
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return " "
	}
	return s
}
