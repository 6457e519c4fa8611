package processor

import (
	"regexp"
	"strings"

	"signalflow/internal/symbols"
	"signalflow/models"
)

// Cancellation shapes. The symbol token is matched case-sensitively so prose
// following the phrase ("was using ...") cannot be mistaken for a ticker,
// while the phrase itself stays case-insensitive.
var (
	cancelSymbolFirst = regexp.MustCompile(`(#?\$?[A-Z][A-Z0-9/]*)[\s,:]+(?i:manually\s+cancelled)`)
	cancelPhraseFirst = regexp.MustCompile(`(?i:manually\s+cancelled)[\s,:]+(#?\$?[A-Z][A-Z0-9/]*)`)
)

// Classify maps raw message text to exactly one Classification. The decision
// runs as an ordered list and the order is a precedence rule: a cancellation
// shape wins over the leverage keyword, so a message that mentions both
// becomes a close command rather than an open signal.
func Classify(text string) models.Classification {
	if text == "" {
		return models.Classification{Kind: models.ClassIrrelevant}
	}

	if sym, ok := matchCancellation(text); ok {
		return models.Classification{Kind: models.ClassCancellation, Symbol: sym}
	}

	if strings.Contains(strings.ToLower(text), "leverage") {
		if sig, ok := ExtractSignal(text); ok {
			return models.Classification{Kind: models.ClassOpenSignal, Signal: sig}
		}
		// Keyword present but fields missing: malformed signals are dropped,
		// never forwarded verbatim.
	}

	return models.Classification{Kind: models.ClassIrrelevant}
}

// matchCancellation recognizes "manually cancelled" adjacent to a symbol
// token in either order and returns the normalized symbol. Without a symbol
// token there is nothing to close, so the text falls through to the next
// classification step.
func matchCancellation(text string) (string, bool) {
	t := normalizeWhitespace(text)
	if m := cancelSymbolFirst.FindStringSubmatch(t); m != nil {
		return symbols.Clean(m[1]), true
	}
	if m := cancelPhraseFirst.FindStringSubmatch(t); m != nil {
		return symbols.Clean(m[1]), true
	}
	return "", false
}
