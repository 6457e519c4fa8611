package symbols

import "strings"

// DefaultQuote is appended when a pair omits its quote currency.
const DefaultQuote = "USDT"

// knownQuotes are quote currencies a bare token may already end with. A token
// ending in one of these is treated as a complete pair.
var knownQuotes = []string{"USDT", "USDC", "BUSD", "USD", "BTC", "ETH"}

// Normalize converts an extracted base/quote pair to the canonical uppercase
// concatenated form, e.g. ("eth", "usdt") -> "ETHUSDT". An empty quote falls
// back to DefaultQuote unless the base already carries a known quote suffix.
func Normalize(base, quote string) string {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" {
		return ""
	}
	if quote != "" {
		return base + quote
	}
	for _, q := range knownQuotes {
		if len(base) > len(q) && strings.HasSuffix(base, q) {
			return base
		}
	}
	return base + DefaultQuote
}

// Clean strips marker and separator characters from a raw symbol token and
// normalizes it, e.g. "#BTC/USDT" -> "BTCUSDT", "$sol" -> "SOLUSDT".
func Clean(token string) string {
	token = strings.TrimSpace(token)
	token = strings.Trim(token, "#$*")
	if token == "" {
		return ""
	}
	if i := strings.IndexAny(token, "/-"); i >= 0 {
		return Normalize(token[:i], token[i+1:])
	}
	return Normalize(token, "")
}
