package config

import (
	"os"
	"testing"
	"time"
)

// writeTempConfig creates a minimal configuration file required for LoadConfig
// and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

const validConfig = `signalflow:
  name: "TestRelay"
  version: "1.0"
telegram:
  token: "test-token"
  source_chat_id: -100
  target_chat_id: -200
channels:
  raw_buffer: 8
  outbound_buffer: 8
`

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, validConfig)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Signalflow.Name != "TestRelay" {
		t.Errorf("unexpected name: %s", cfg.Signalflow.Name)
	}
	if cfg.Telegram.UpdateTimeout != 30 {
		t.Errorf("unexpected default update timeout: %d", cfg.Telegram.UpdateTimeout)
	}
	if cfg.Pipeline.RetentionWindow != 24*time.Hour {
		t.Errorf("unexpected default retention window: %v", cfg.Pipeline.RetentionWindow)
	}
	if cfg.Pipeline.SymbolCooldown != 5*time.Second {
		t.Errorf("unexpected default symbol cooldown: %v", cfg.Pipeline.SymbolCooldown)
	}
	if cfg.Writer.RateLimit.MessagesPerSecond != 1 {
		t.Errorf("unexpected default rate limit: %v", cfg.Writer.RateLimit.MessagesPerSecond)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yml"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"missing token": `signalflow:
  name: "TestRelay"
  version: "1.0"
telegram:
  source_chat_id: -100
  target_chat_id: -200
channels:
  raw_buffer: 8
  outbound_buffer: 8
`,
		"same chats": `signalflow:
  name: "TestRelay"
  version: "1.0"
telegram:
  token: "test-token"
  source_chat_id: -100
  target_chat_id: -100
channels:
  raw_buffer: 8
  outbound_buffer: 8
`,
		"cooldown above retention": `signalflow:
  name: "TestRelay"
  version: "1.0"
telegram:
  token: "test-token"
  source_chat_id: -100
  target_chat_id: -200
channels:
  raw_buffer: 8
  outbound_buffer: 8
pipeline:
  retention_window: 1s
  symbol_cooldown: 5s
`,
		"zero buffer": `signalflow:
  name: "TestRelay"
  version: "1.0"
telegram:
  token: "test-token"
  source_chat_id: -100
  target_chat_id: -200
channels:
  raw_buffer: 0
  outbound_buffer: 8
`,
	}
	for name, content := range cases {
		path := writeTempConfig(t, content)
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SOURCE_CHAT_ID", "-300")
	t.Setenv("TARGET_CHAT_ID", "-400")

	path := writeTempConfig(t, validConfig)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("token override not applied: %s", cfg.Telegram.Token)
	}
	if cfg.Telegram.SourceChatID != -300 {
		t.Errorf("source chat override not applied: %d", cfg.Telegram.SourceChatID)
	}
	if cfg.Telegram.TargetChatID != -400 {
		t.Errorf("target chat override not applied: %d", cfg.Telegram.TargetChatID)
	}
}
