package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureConsole points console output at a buffer for the duration of a test.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := console
	console = &buf
	t.Cleanup(func() {
		console = prev
		logger = nil
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"invalid", slog.LevelInfo}, // Default to INFO
		{"", slog.LevelInfo},        // Default to INFO
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLogLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("nonexistent.yaml")
	if err != nil {
		t.Fatalf("LoadConfig returned error for missing file: %v", err)
	}

	if config.Level != "INFO" {
		t.Errorf("Default level = %q, want %q", config.Level, "INFO")
	}
	if !config.ConsoleEnabled {
		t.Error("Default ConsoleEnabled = false, want true")
	}
	if config.ConsoleFormat != "text" {
		t.Errorf("Default ConsoleFormat = %q, want %q", config.ConsoleFormat, "text")
	}
	if config.FileEnabled {
		t.Error("Default FileEnabled = true, want false")
	}
	if config.FilePath != "logs/dungeongen.log" {
		t.Errorf("Default FilePath = %q, want %q", config.FilePath, "logs/dungeongen.log")
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logging.yaml")

	yamlContent := `logging:
  level: DEBUG
  console_enabled: true
  console_format: json
  file_enabled: true
  file_path: test.log
  file_max_size_mb: 20
  file_compress: true
`
	if err := os.WriteFile(path, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "DEBUG" {
		t.Errorf("Level = %q, want %q", config.Level, "DEBUG")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true")
	}
	if config.FilePath != "test.log" {
		t.Errorf("FilePath = %q, want %q", config.FilePath, "test.log")
	}
	if config.FileMaxSizeMB != 20 {
		t.Errorf("FileMaxSizeMB = %d, want %d", config.FileMaxSizeMB, 20)
	}
	if !config.FileCompress {
		t.Error("FileCompress = false, want true")
	}
	// Absent keys keep their defaults
	if config.FileMaxBackups != 5 {
		t.Errorf("FileMaxBackups = %d, want default 5", config.FileMaxBackups)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("logging: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if config != DefaultConfig() {
		t.Errorf("expected defaults for unparsable file, got %+v", config)
	}
}

func TestEnvVarOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_CONSOLE_FORMAT", "json")
	t.Setenv("LOG_FILE_ENABLED", "true")
	t.Setenv("LOG_FILE_PATH", "/custom/path.log")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if config.Level != "ERROR" {
		t.Errorf("Level = %q, want %q (from env var)", config.Level, "ERROR")
	}
	if config.ConsoleFormat != "json" {
		t.Errorf("ConsoleFormat = %q, want %q (from env var)", config.ConsoleFormat, "json")
	}
	if !config.FileEnabled {
		t.Error("FileEnabled = false, want true (from env var)")
	}
	if config.FilePath != "/custom/path.log" {
		t.Errorf("FilePath = %q, want %q (from env var)", config.FilePath, "/custom/path.log")
	}
}

func TestInitializeWithTextFormat(t *testing.T) {
	buf := captureConsole(t)

	cfg := DefaultConfig()
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Info("Test message", "key", "value")
	Debug("This should not appear") // Below INFO level

	output := buf.String()

	if !strings.Contains(output, "Test message") {
		t.Errorf("Output missing INFO message: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("Output missing structured field: %s", output)
	}
	if strings.Contains(output, "This should not appear") {
		t.Errorf("Output contains DEBUG message when level is INFO: %s", output)
	}
}

func TestInitializeWithJSONFormat(t *testing.T) {
	buf := captureConsole(t)

	cfg := DefaultConfig()
	cfg.ConsoleFormat = "json"
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Info("JSON test", "field1", "value1", "field2", 42)

	output := buf.String()

	if !strings.Contains(output, `"msg":"JSON test"`) {
		t.Errorf("Output missing JSON message field: %s", output)
	}
	if !strings.Contains(output, `"field1":"value1"`) {
		t.Errorf("Output missing JSON field: %s", output)
	}
	if !strings.Contains(output, `"field2":42`) {
		t.Errorf("Output missing numeric JSON field: %s", output)
	}
}

func TestInitializeUnknownFormat(t *testing.T) {
	captureConsole(t)

	cfg := DefaultConfig()
	cfg.ConsoleFormat = "xml"
	if err := Initialize(cfg); err == nil {
		t.Error("expected error for unknown console format")
	}
}

func TestInitializeWithFile(t *testing.T) {
	buf := captureConsole(t)

	cfg := DefaultConfig()
	cfg.ConsoleEnabled = false
	cfg.FileEnabled = true
	cfg.FilePath = filepath.Join(t.TempDir(), "nested", "gen.log")
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Warning("written to file", "rooms", 12)

	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "written to file") || !strings.Contains(string(data), "rooms=12") {
		t.Errorf("log file content = %q", data)
	}
	if buf.Len() != 0 {
		t.Errorf("console disabled but got output: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureConsole(t)

	cfg := DefaultConfig()
	cfg.Level = "ERROR"
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Debug("Debug message")
	Info("Info message")
	Warning("Warning")
	Error("Error message")

	output := buf.String()

	if strings.Contains(output, "Debug message") {
		t.Error("DEBUG appeared when level is ERROR")
	}
	if strings.Contains(output, "Info message") {
		t.Error("INFO appeared when level is ERROR")
	}
	if strings.Contains(output, "Warning") {
		t.Error("WARNING appeared when level is ERROR")
	}
	if !strings.Contains(output, "Error message") {
		t.Error("ERROR message missing from output")
	}
}

func TestFormattedLogging(t *testing.T) {
	var buf bytes.Buffer

	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	logger = slog.New(handler)
	t.Cleanup(func() { logger = nil })

	Debugf("Debug: %d + %d = %d", 1, 2, 3)
	Infof("Info: %s", "test")
	Warningf("Warning: %.2f%%", 99.95)
	Errorf("Error: %v", "failed")

	output := buf.String()

	if !strings.Contains(output, "Debug: 1 + 2 = 3") {
		t.Error("Debugf output incorrect")
	}
	if !strings.Contains(output, "Info: test") {
		t.Error("Infof output incorrect")
	}
	if !strings.Contains(output, "Warning: 99.95%") {
		t.Error("Warningf output incorrect")
	}
	if !strings.Contains(output, "Error: failed") {
		t.Error("Errorf output incorrect")
	}
}

func TestWith(t *testing.T) {
	buf := captureConsole(t)

	if err := Initialize(DefaultConfig()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	With("conn", "10.0.0.1", "seed", 7).Info("viewer connected")

	output := buf.String()
	if !strings.Contains(output, "conn=10.0.0.1") || !strings.Contains(output, "seed=7") {
		t.Errorf("With attributes missing: %s", output)
	}
}

func TestMultiHandler(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	handler1 := slog.NewTextHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler2 := slog.NewTextHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger = slog.New(newMultiHandler(handler1, handler2))
	t.Cleanup(func() { logger = nil })

	Info("Multi-handler test", "field", "value")
	Warning("Both see this")

	output1 := buf1.String()
	output2 := buf2.String()

	if !strings.Contains(output1, "Multi-handler test") || !strings.Contains(output1, "field=value") {
		t.Errorf("First handler output = %q", output1)
	}
	if strings.Contains(output2, "Multi-handler test") {
		t.Error("Second handler received a record below its level")
	}
	if !strings.Contains(output1, "Both see this") || !strings.Contains(output2, "Both see this") {
		t.Error("Warning did not reach both handlers")
	}
}

func TestNilLogger(t *testing.T) {
	logger = nil

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logging with nil logger caused panic: %v", r)
		}
	}()

	Debug("debug")
	Info("info")
	Warning("warning")
	Error("error")
	With("k", "v").Info("discarded")
}
