package processor

import (
	"testing"

	"signalflow/models"
)

func TestClassifyOpenSignal(t *testing.T) {
	c := Classify(vipSignalText)
	if c.Kind != models.ClassOpenSignal {
		t.Fatalf("kind = %v, want open signal", c.Kind)
	}
	if c.Signal == nil || c.Signal.Symbol != "ETHUSDT" {
		t.Errorf("unexpected signal payload: %+v", c.Signal)
	}
}

func TestClassifyCancellationSymbolFirst(t *testing.T) {
	c := Classify("#BTCUSDT Manually Cancelled, was using Leverage 20x")
	if c.Kind != models.ClassCancellation {
		t.Fatalf("kind = %v, want cancellation", c.Kind)
	}
	if c.Symbol != "BTCUSDT" {
		t.Errorf("unexpected symbol: %s", c.Symbol)
	}
}

func TestClassifyCancellationPhraseFirst(t *testing.T) {
	c := Classify("Manually cancelled: $ETHUSDT entry never filled")
	if c.Kind != models.ClassCancellation {
		t.Fatalf("kind = %v, want cancellation", c.Kind)
	}
	if c.Symbol != "ETHUSDT" {
		t.Errorf("unexpected symbol: %s", c.Symbol)
	}
}

// A message carrying both a cancellation shape and the leverage keyword must
// resolve as a cancellation.
func TestClassifyCancellationBeatsLeverage(t *testing.T) {
	c := Classify("SOLUSDT manually cancelled. Leverage 10x Entry 150 Target 160 SL 145 LONG")
	if c.Kind != models.ClassCancellation {
		t.Fatalf("kind = %v, want cancellation", c.Kind)
	}
	if c.Symbol != "SOLUSDT" {
		t.Errorf("unexpected symbol: %s", c.Symbol)
	}
}

func TestClassifyMalformedSignalIsIrrelevant(t *testing.T) {
	// Leverage keyword present but no prices anywhere.
	c := Classify("Leverage discussion: most traders overuse leverage")
	if c.Kind != models.ClassIrrelevant {
		t.Fatalf("kind = %v, want irrelevant", c.Kind)
	}
}

func TestClassifyPlainChatterIsIrrelevant(t *testing.T) {
	cases := []string{
		"",
		"gm everyone, market looks choppy today",
		"BTC to the moon 🚀",
		"cancelled my gym membership manually",
	}
	for _, text := range cases {
		if c := Classify(text); c.Kind != models.ClassIrrelevant {
			t.Errorf("%q: kind = %v, want irrelevant", text, c.Kind)
		}
	}
}

func TestClassifyCancellationWithoutSymbolFallsThrough(t *testing.T) {
	c := Classify("the trade was manually cancelled by the admin")
	if c.Kind != models.ClassIrrelevant {
		t.Fatalf("kind = %v, want irrelevant", c.Kind)
	}
}
