package processor

import (
	"testing"

	"signalflow/models"
)

const vipSignalText = `🚀 VIP Signal 🚀
Pair: ETH/USDT
Direction: LONG 📈
Leverage: 30x
Entry: 4089
Target 1: 4150
Target 2: 4220
SL: 4020`

func TestExtractSignalFullMessage(t *testing.T) {
	sig, ok := ExtractSignal(vipSignalText)
	if !ok {
		t.Fatalf("expected a signal from a complete message")
	}
	if sig.Symbol != "ETHUSDT" {
		t.Errorf("unexpected symbol: %s", sig.Symbol)
	}
	if sig.Direction != models.DirectionLong {
		t.Errorf("unexpected direction: %s", sig.Direction)
	}
	if sig.Leverage != "30X" {
		t.Errorf("unexpected leverage: %s", sig.Leverage)
	}
	if sig.EntryPrice != "4089" {
		t.Errorf("unexpected entry: %s", sig.EntryPrice)
	}
	if sig.TakeProfit != "4150" {
		t.Errorf("unexpected target: %s", sig.TakeProfit)
	}
	if sig.StopLoss != "4020" {
		t.Errorf("unexpected stop loss: %s", sig.StopLoss)
	}
}

func TestExtractSignalMissingMandatoryField(t *testing.T) {
	cases := map[string]string{
		"no pair":      "Direction: LONG Leverage 10x Entry 100 Target 110 SL 95",
		"no direction": "BTC Leverage 10x Entry 100 Target 110 SL 95",
		"no entry":     "BTC LONG Leverage 10x Target 110 SL 95",
		"no target":    "BTC LONG Leverage 10x Entry 100 SL 95",
		"no stop loss": "BTC LONG Leverage 10x Entry 100 Target 110",
	}
	for name, text := range cases {
		if sig, ok := ExtractSignal(text); ok {
			t.Errorf("%s: expected no signal, got %+v", name, sig)
		}
	}
}

func TestExtractSignalLeverageOptional(t *testing.T) {
	sig, ok := ExtractSignal("BTC LONG Entry 100 Target 110 SL 95")
	if !ok {
		t.Fatalf("expected a signal without a leverage field")
	}
	if sig.Leverage != models.LeverageUnknown {
		t.Errorf("unexpected leverage placeholder: %s", sig.Leverage)
	}
}

func TestExtractSignalDecimalPassthrough(t *testing.T) {
	sig, ok := ExtractSignal("BTC SHORT Leverage 5x Entry 110200.50 Target 108000.00 SL 111500.25")
	if !ok {
		t.Fatalf("expected a signal")
	}
	if sig.EntryPrice != "110200.50" {
		t.Errorf("entry price was reformatted: %s", sig.EntryPrice)
	}
	if sig.TakeProfit != "108000.00" {
		t.Errorf("target was reformatted: %s", sig.TakeProfit)
	}
	if sig.StopLoss != "111500.25" {
		t.Errorf("stop loss was reformatted: %s", sig.StopLoss)
	}
}

func TestExtractSignalDirectionSynonyms(t *testing.T) {
	cases := []struct {
		text string
		want models.Direction
	}{
		{"BTC buy Entry 100 Target 110 SL 95", models.DirectionLong},
		{"BTC long Entry 100 Target 110 SL 95", models.DirectionLong},
		{"BTC sell Entry 100 Target 110 SL 95", models.DirectionShort},
		{"BTC short Entry 100 Target 110 SL 95", models.DirectionShort},
	}
	for _, tc := range cases {
		sig, ok := ExtractSignal(tc.text)
		if !ok {
			t.Fatalf("expected a signal from %q", tc.text)
		}
		if sig.Direction != tc.want {
			t.Errorf("%q: direction = %s, want %s", tc.text, sig.Direction, tc.want)
		}
	}
}

func TestExtractSignalDefaultQuote(t *testing.T) {
	sig, ok := ExtractSignal("Entry 100 Target 110 SL 95 LONG $DOGE 20x")
	if !ok {
		t.Fatalf("expected a signal")
	}
	if sig.Symbol != "DOGEUSDT" {
		t.Errorf("bare base should gain the default quote, got %s", sig.Symbol)
	}
}

func TestExtractSignalSkipsReservedTokens(t *testing.T) {
	// VIP and LONG appear before the real pair and must not be taken as the
	// base symbol.
	sig, ok := ExtractSignal("VIP LONG setup on SOL/USDT Entry 150 Target 160 SL 145")
	if !ok {
		t.Fatalf("expected a signal")
	}
	if sig.Symbol != "SOLUSDT" {
		t.Errorf("unexpected symbol: %s", sig.Symbol)
	}
}

func TestExtractSignalEntriesSpelling(t *testing.T) {
	sig, ok := ExtractSignal("ETH LONG Leverage 25x Entries 4089 Target 4150 SL 4020")
	if !ok {
		t.Fatalf("expected a signal")
	}
	if sig.EntryPrice != "4089" {
		t.Errorf("unexpected entry: %s", sig.EntryPrice)
	}
}
