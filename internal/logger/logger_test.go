package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if _, err := os.Stat(filepath.Join(logDir, "pomohabit.log")); err != nil {
		t.Errorf("log file was not written: %v", err)
	}
}

func TestInitDebugMode(t *testing.T) {
	err := Init(Config{
		Debug:     true,
		ConfigDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if got := Logger.GetLevel().String(); got != "debug" {
		t.Errorf("level = %q, want debug", got)
	}
}

func TestInitLevel(t *testing.T) {
	if err := Init(Config{ConfigDir: t.TempDir(), Level: "info"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := Logger.GetLevel().String(); got != "info" {
		t.Errorf("level = %q, want info", got)
	}

	if err := Init(Config{ConfigDir: t.TempDir(), Level: "loud"}); err == nil {
		t.Error("Init() with an unknown level should fail")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("component", "test").Info("discarded")
}
