package conversations

import (
	"strings"

	"github.com/Vovarama1992/whisper_relay/internal/ports"
)

// ResolveReplyTarget picks the language the next assistant reply should be
// translated into. It walks the history backwards and takes the newest
// user message with a definite source language; "auto" and blanks are
// skipped because detection reports them for ambiguous or silent clips.
// With no definite user language anywhere the reply goes out in English.
// Pure function: same history in, same language out.
func ResolveReplyTarget(history []ports.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role != ports.RoleUser {
			continue
		}
		lang := strings.TrimSpace(m.SourceLang)
		if lang != "" && !strings.EqualFold(lang, ports.LangAuto) {
			return lang
		}
	}
	return "en"
}
