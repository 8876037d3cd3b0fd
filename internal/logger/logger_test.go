package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldforge.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// capture routes the package logger into a buffer for the test.
func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf, level)
	t.Cleanup(func() { logger = nil })
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config != DefaultConfig() {
		t.Errorf("LoadConfig(missing) = %+v, want defaults %+v", config, DefaultConfig())
	}
}

func TestLoadConfig_SharedFile(t *testing.T) {
	// The logging section lives next to the world and server sections.
	path := writeConfig(t, `world:
  width: 64
  seed: 99
server:
  listen_addr: ":9000"
logging:
  level: DEBUG
  console_format: json
  file_enabled: true
  file_path: logs/forge.log
  file_max_size_mb: 20
`)
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := DefaultConfig()
	want.Level = "DEBUG"
	want.ConsoleFormat = "json"
	want.FileEnabled = true
	want.FilePath = "logs/forge.log"
	want.FileMaxSizeMB = 20
	if config != want {
		t.Errorf("LoadConfig = %+v, want %+v", config, want)
	}
}

func TestLoadConfig_AbsentBoolKeepsDefault(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "logging:\n  level: WARN\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !config.ConsoleEnabled {
		t.Error("ConsoleEnabled = false, want the default when the key is absent")
	}

	config, _ = LoadConfig(writeConfig(t, "logging:\n  console_enabled: false\n"))
	if config.ConsoleEnabled {
		t.Error("ConsoleEnabled = true, want false when set explicitly")
	}
}

func TestLoadConfig_Unparsable(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "logging: [unterminated\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config != DefaultConfig() {
		t.Errorf("LoadConfig(garbage) = %+v, want defaults", config)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WORLDFORGE_LOG_LEVEL", "ERROR")
	t.Setenv("WORLDFORGE_LOG_FORMAT", "json")
	t.Setenv("WORLDFORGE_LOG_FILE_ENABLED", "true")
	t.Setenv("WORLDFORGE_LOG_FILE_PATH", "/var/log/worldd.log")

	path := writeConfig(t, "logging:\n  level: DEBUG\n  file_enabled: false\n")
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Level != "ERROR" || config.ConsoleFormat != "json" {
		t.Errorf("level/format = %q/%q, want ERROR/json from env", config.Level, config.ConsoleFormat)
	}
	if !config.FileEnabled || config.FilePath != "/var/log/worldd.log" {
		t.Errorf("file = %v %q, want enabled at /var/log/worldd.log", config.FileEnabled, config.FilePath)
	}
}

func TestLoadConfig_BadEnvBoolIgnored(t *testing.T) {
	t.Setenv("WORLDFORGE_LOG_FILE_ENABLED", "sometimes")
	config, _ := LoadConfig("")
	if config.FileEnabled {
		t.Error("FileEnabled = true from an unparsable env value")
	}
}

func TestLevels(t *testing.T) {
	buf := capture(t, "WARN")

	Debug("stage timing", "stage", "heightmap")
	Info("world ready", "seed", 7)
	Warning("sea level clamped", "value", 0.99)
	Error("archive failed")
	Always("tile mutated", "op", "apply_farming")

	out := buf.String()
	for _, hidden := range []string{"stage timing", "world ready"} {
		if strings.Contains(out, hidden) {
			t.Errorf("%q logged below the WARN level:\n%s", hidden, out)
		}
	}
	for _, shown := range []string{"sea level clamped", "archive failed", "tile mutated", "level=ALWAYS", "op=apply_farming"} {
		if !strings.Contains(out, shown) {
			t.Errorf("output missing %q:\n%s", shown, out)
		}
	}
}

func TestAlwaysPassesErrorLevel(t *testing.T) {
	buf := capture(t, "ERROR")
	Warning("hidden")
	Alwaysf("replayed %d mutations", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("warning logged at ERROR level:\n%s", out)
	}
	if !strings.Contains(out, "replayed 3 mutations") {
		t.Errorf("Alwaysf output missing:\n%s", out)
	}
}

func TestFormattedVariants(t *testing.T) {
	buf := capture(t, "DEBUG")

	Debugf("river %d traced in %d steps", 2, 41)
	Infof("lake %s", "fresh")
	Warningf("island density %.2f", 0.25)
	Errorf("journal: %v", "disk full")

	out := buf.String()
	for _, want := range []string{"river 2 traced in 41 steps", "lake fresh", "island density 0.25", "journal: disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var text, js bytes.Buffer
	logger = slog.New(newMultiHandler(
		slog.NewTextHandler(&text, handlerOptions(slog.LevelInfo)),
		slog.NewJSONHandler(&js, handlerOptions(slog.LevelError)),
	))
	t.Cleanup(func() { logger = nil })

	Info("to text only", "world", "a")
	Error("to both")

	if !strings.Contains(text.String(), "to text only") || !strings.Contains(text.String(), "to both") {
		t.Errorf("text handler output:\n%s", text.String())
	}
	if strings.Contains(js.String(), "to text only") {
		t.Errorf("json handler received a record below its level:\n%s", js.String())
	}
	if !strings.Contains(js.String(), `"msg":"to both"`) {
		t.Errorf("json handler output:\n%s", js.String())
	}
}

func TestNilLogger(t *testing.T) {
	logger = nil
	Debug("debug")
	Info("info")
	Warning("warning")
	Error("error")
	Always("always")
}

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Close(); logger = nil })

	config := DefaultConfig()
	config.ConsoleFormat = "xml"
	if err := Initialize(config); err == nil {
		t.Error("Initialize accepted an unknown console format")
	}

	config = DefaultConfig()
	config.ConsoleEnabled = false
	config.FileEnabled = true
	config.FilePath = filepath.Join(t.TempDir(), "logs", "worldd.log")
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Info("File sink test", "seed", 7)
	Close()

	data, err := os.ReadFile(config.FilePath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"File sink test"`) || !strings.Contains(string(data), `"seed":7`) {
		t.Errorf("log file missing JSON record: %s", data)
	}
}
