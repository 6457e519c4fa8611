package processor

import (
	"fmt"
	"strings"

	"signalflow/models"
)

// exchangeLabel is the fixed venue line carried by every rendered signal.
const exchangeLabel = "Binance Futures"

const (
	markerLong  = "📈"
	markerShort = "📉"
)

// Render returns the outbound text for a classification. It reports false
// when the classification produces no output. Rendering is a pure function
// of its input so the downstream fingerprinting stays deterministic.
func Render(c models.Classification) (string, bool) {
	switch c.Kind {
	case models.ClassCancellation:
		if c.Symbol == "" {
			return "", false
		}
		return RenderClose(c.Symbol), true
	case models.ClassOpenSignal:
		if c.Signal == nil {
			return "", false
		}
		return RenderSignal(c.Signal), true
	default:
		return "", false
	}
}

// RenderClose formats the close command for a cancelled symbol.
func RenderClose(symbol string) string {
	return "/close #" + strings.ToUpper(symbol)
}

// RenderSignal formats an open signal into the canonical multi-line block.
// Entry, target and stop-loss values pass through byte-for-byte as matched;
// "110200.50" must never become "110200.5".
func RenderSignal(sig *models.ParsedSignal) string {
	marker := markerLong
	if sig.Direction == models.DirectionShort {
		marker = markerShort
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s %s\n", sig.Direction, marker)
	fmt.Fprintf(&b, "Symbol: #%s\n", sig.Symbol)
	fmt.Fprintf(&b, "Exchange: %s\n", exchangeLabel)
	fmt.Fprintf(&b, "Leverage: Cross (%s)\n", sig.Leverage)
	fmt.Fprintf(&b, "Entry: %s\n", sig.EntryPrice)
	fmt.Fprintf(&b, "Target: %s\n", sig.TakeProfit)
	fmt.Fprintf(&b, "Stop Loss: %s", sig.StopLoss)
	return b.String()
}
