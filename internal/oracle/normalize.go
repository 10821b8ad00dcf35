package oracle

import (
	"strings"

	"github.com/nmarceau/devine/internal/model"
)

// normalizeCap bounds the reply prefix inspected by Normalize, independent of
// whatever cap the producing oracle applied.
const normalizeCap = 50

// Normalize maps raw oracle text into the bounded answer alphabet. It is a
// total function: lower-case, cap the prefix, then substring containment with
// "oui" checked before "non". Containment is deliberately coarse — a reply
// holding both tokens classifies by the first rule, trading precision for
// simplicity.
func Normalize(raw string) model.AnswerLabel {
	text := strings.ToLower(strings.TrimSpace(raw))
	if runes := []rune(text); len(runes) > normalizeCap {
		text = string(runes[:normalizeCap])
	}

	switch {
	case strings.Contains(text, "oui"):
		return model.AnswerAffirm
	case strings.Contains(text, "non"):
		return model.AnswerDeny
	default:
		return model.AnswerUnknown
	}
}
