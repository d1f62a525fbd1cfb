package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"eolo-server/internal/config"
)

func TestNewWithWriter_prodIsJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}
	logger := NewWithWriter(&buf, cfg, "1.2.3", "eolo")

	logger.Debug("hidden")
	logger.Info("lookup done", "city", "Campeche")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not a single JSON record: %v\n%s", err, buf.String())
	}
	for k, want := range map[string]string{"msg": "lookup done", "app": "eolo", "version": "1.2.3", "env": "prod", "city": "Campeche"} {
		if rec[k] != want {
			t.Errorf("%s = %v; want %q", k, rec[k], want)
		}
	}
}

func TestNewWithWriter_devIsText(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}
	logger := NewWithWriter(&buf, cfg, "dev", "eolo")

	logger.Debug("cache miss", "key", "abc")

	out := buf.String()
	if !strings.Contains(out, "cache miss") || !strings.Contains(out, "key=abc") || !strings.Contains(out, "app=eolo") {
		t.Errorf("unexpected dev output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("dev output to a buffer should not be colored: %q", out)
	}
}
