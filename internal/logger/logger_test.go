package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	want := filepath.Join(configDir, "logs", "vitatrack.log")
	if Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}
	if Logger.GetLevel() != log.WarnLevel {
		t.Errorf("Logger level = %v, want %v", Logger.GetLevel(), log.WarnLevel)
	}

	Warn("disk nearly full", "free_mb", 12)
	Debug("hidden at warn level")

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "disk nearly full") {
		t.Errorf("log file missing warning: %q", data)
	}
	if strings.Contains(string(data), "hidden at warn level") {
		t.Errorf("log file contains debug entry: %q", data)
	}
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    log.Level
		wantErr bool
	}{
		{name: "debug", cfg: Config{Debug: true}, want: log.DebugLevel},
		{name: "stderr mirror", cfg: Config{Stderr: true}, want: log.InfoLevel},
		{name: "debug wins over stderr", cfg: Config{Debug: true, Stderr: true}, want: log.DebugLevel},
		{name: "explicit level", cfg: Config{Level: "ERROR", Stderr: true}, want: log.ErrorLevel},
		{name: "debug wins over level", cfg: Config{Level: "error", Debug: true}, want: log.DebugLevel},
		{name: "unknown level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConfigDir = t.TempDir()
			err := Init(tt.cfg)
			t.Cleanup(func() { Logger = nil })
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if Logger.GetLevel() != tt.want {
				t.Errorf("Logger level = %v, want %v", Logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("request_id", "abc").Info("discarded")

	if Path() != "" {
		t.Errorf("Path() = %q before Init, want empty", Path())
	}
}
