package symbols

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		base  string
		quote string
		want  string
	}{
		{"ETH", "USDT", "ETHUSDT"},
		{"eth", "usdt", "ETHUSDT"},
		{"BTC", "", "BTCUSDT"},
		{"BTCUSDT", "", "BTCUSDT"},
		{"SOLUSDC", "", "SOLUSDC"},
		{"AVAX", "", "AVAXUSDT"},
		{"ETH", "BTC", "ETHBTC"},
		{"ETHBTC", "", "ETHBTC"},
		{" doge ", "", "DOGEUSDT"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.base, tc.quote); got != tc.want {
			t.Errorf("Normalize(%q, %q) = %q, want %q", tc.base, tc.quote, got, tc.want)
		}
	}
}

func TestClean(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"#BTCUSDT", "BTCUSDT"},
		{"$ETH", "ETHUSDT"},
		{"#BTC/USDT", "BTCUSDT"},
		{"SOL-USDT", "SOLUSDT"},
		{"*APT*", "APTUSDT"},
		{"", ""},
		{"#", ""},
	}
	for _, tc := range cases {
		if got := Clean(tc.token); got != tc.want {
			t.Errorf("Clean(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}
