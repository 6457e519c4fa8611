package processor

import (
	"regexp"
	"strings"

	"signalflow/internal/symbols"
	"signalflow/models"
)

// Field extractors are independent and tolerant: each one scans a
// whitespace-normalized copy of the message and either finds its field or
// reports absence. A ParsedSignal is produced only when every mandatory field
// matched, which keeps the loose pair pattern from accepting prose.
var (
	pairPattern      = regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,9})(?:\s*/\s*([A-Z][A-Z0-9]{1,9}))?\b`)
	directionPattern = regexp.MustCompile(`(?i)\b(buy|long|sell|short)\b`)
	leveragePattern  = regexp.MustCompile(`(?i)\b(\d{1,4})\s*x\b`)
	entryPattern     = regexp.MustCompile(`(?i)\bentr(?:y|ies)\s*[:\-@]?\s*\$?(\d+(?:\.\d+)?)`)
	targetPattern    = regexp.MustCompile(`(?i)\btarget(?:\s+1\b)?\s*[:\-@]?\s*\$?(\d+(?:\.\d+)?)`)
	stopLossPattern  = regexp.MustCompile(`(?i)\bsl\s*[:\-@]?\s*\$?(\d+(?:\.\d+)?)`)
)

// reservedTokens are uppercase words the pair pattern would otherwise mistake
// for a base symbol.
var reservedTokens = map[string]struct{}{
	"LONG":  {},
	"SHORT": {},
	"BUY":   {},
	"SELL":  {},
	"SL":    {},
	"TP":    {},
	"VIP":   {},
	"USDT":  {},
}

// ExtractSignal attempts to pull a structured open signal out of free-form
// text. It reports false when any of pair, direction, entry, target or
// stop-loss is missing; this is an ordinary outcome, not an error. Leverage
// is optional and defaults to models.LeverageUnknown.
func ExtractSignal(text string) (*models.ParsedSignal, bool) {
	t := normalizeWhitespace(text)

	base, quote, ok := extractPair(t)
	if !ok {
		return nil, false
	}
	direction, ok := extractDirection(t)
	if !ok {
		return nil, false
	}
	entry, ok := extractDecimal(entryPattern, t)
	if !ok {
		return nil, false
	}
	target, ok := extractDecimal(targetPattern, t)
	if !ok {
		return nil, false
	}
	stopLoss, ok := extractDecimal(stopLossPattern, t)
	if !ok {
		return nil, false
	}

	return &models.ParsedSignal{
		Symbol:     symbols.Normalize(base, quote),
		Direction:  direction,
		Leverage:   extractLeverage(t),
		EntryPrice: entry,
		TakeProfit: target,
		StopLoss:   stopLoss,
	}, true
}

// normalizeWhitespace collapses all runs of whitespace, including newlines,
// into single spaces so the field patterns can stay line-agnostic.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func extractPair(text string) (base, quote string, ok bool) {
	for _, m := range pairPattern.FindAllStringSubmatch(text, -1) {
		if m[2] == "" {
			if _, reserved := reservedTokens[m[1]]; reserved {
				continue
			}
		}
		return m[1], m[2], true
	}
	return "", "", false
}

func extractDirection(text string) (models.Direction, bool) {
	m := directionPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	switch strings.ToUpper(m[1]) {
	case "BUY", "LONG":
		return models.DirectionLong, true
	default:
		return models.DirectionShort, true
	}
}

// extractLeverage returns the leverage token in canonical form ("30X") or the
// sentinel when the message does not state one.
func extractLeverage(text string) string {
	m := leveragePattern.FindStringSubmatch(text)
	if m == nil {
		return models.LeverageUnknown
	}
	return m[1] + "X"
}

func extractDecimal(pattern *regexp.Regexp, text string) (string, bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
