package processor

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRetention is how long an exact-content fingerprint suppresses
	// re-delivery of the same message.
	DefaultRetention = 24 * time.Hour
	// DefaultCooldown is the short window during which any second signal for
	// the same symbol is suppressed, regardless of text differences.
	DefaultCooldown = 5 * time.Second
)

// Fingerprint returns a stable hash of the trimmed, lower-cased message
// text. Hashing the raw input rather than the rendered output means repeats
// that differ only in capitalization or surrounding whitespace still collide.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(text))))
	return hex.EncodeToString(sum[:])
}

// DedupCache is the time-windowed memory of previously accepted content. It
// keeps two independent maps: fingerprints of accepted raw text (long
// window, exact repeats) and per-symbol last-accepted timestamps (short
// window, burst repeats). Entries are purged by age on every admission, so
// sweep cost is amortized against traffic and no background timer exists.
type DedupCache struct {
	mu         sync.Mutex
	retention  time.Duration
	cooldown   time.Duration
	seen       map[string]time.Time
	lastSymbol map[string]time.Time
}

func NewDedupCache(retention, cooldown time.Duration) *DedupCache {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &DedupCache{
		retention:  retention,
		cooldown:   cooldown,
		seen:       make(map[string]time.Time),
		lastSymbol: make(map[string]time.Time),
	}
}

// Admit reports whether a candidate derived from rawText may be delivered at
// the given arrival time, and records it when accepted. The sweep, both
// checks and the bookkeeping run under one lock so concurrent pipeline
// workers cannot interleave the gate sequence.
func (c *DedupCache) Admit(rawText, symbol string, at time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep(at)

	fp := Fingerprint(rawText)
	if _, dup := c.seen[fp]; dup {
		return false
	}
	if symbol != "" {
		if last, ok := c.lastSymbol[symbol]; ok && at.Sub(last) < c.cooldown {
			return false
		}
	}

	c.seen[fp] = at
	if symbol != "" {
		c.lastSymbol[symbol] = at
	}
	return true
}

func (c *DedupCache) sweep(at time.Time) {
	for fp, t := range c.seen {
		if at.Sub(t) >= c.retention {
			delete(c.seen, fp)
		}
	}
	for sym, t := range c.lastSymbol {
		if at.Sub(t) >= c.cooldown {
			delete(c.lastSymbol, sym)
		}
	}
}

// Size reports the live entry counts of both maps.
func (c *DedupCache) Size() (fingerprints, symbols int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen), len(c.lastSymbol)
}
