package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/cardprices"
)

// clearEnv unsets the configuration variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{EnvMatrixFile, EnvSnapshotFile, EnvSheet, "CPS_DUPLICATE_POLICY", "CPS_LOG_LEVEL", "CPS_LOG_FILE"} {
		t.Setenv(v, "") // restores the previous value
		os.Unsetenv(v)
	}
}

// setFlag sets a global flag value for the duration of the test.
func setFlag[T any](t *testing.T, flag *T, value T) {
	t.Helper()
	old := *flag
	*flag = value
	t.Cleanup(func() { *flag = old })
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	want := Config{
		MatrixFile:   "data/output/output.xlsx",
		SnapshotFile: "output/cards.json",
		Policy:       cardprices.Reject,
		LogLevel:     slog.LevelInfo,
	}
	if cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMatrixFile, "prices.xlsx")
	t.Setenv(EnvSnapshotFile, "cards.yaml")
	t.Setenv(EnvSheet, "Prices")
	t.Setenv("CPS_DUPLICATE_POLICY", "allow-duplicate")
	t.Setenv("CPS_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MatrixFile != "prices.xlsx" || cfg.SnapshotFile != "cards.yaml" || cfg.Sheet != "Prices" {
		t.Errorf("LoadConfig() files = %q %q %q", cfg.MatrixFile, cfg.SnapshotFile, cfg.Sheet)
	}
	if cfg.Policy != cardprices.AllowDuplicate {
		t.Errorf("LoadConfig() policy = %v, want %v", cfg.Policy, cardprices.AllowDuplicate)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("LoadConfig() log level = %v, want %v", cfg.LogLevel, slog.LevelWarn)
	}

	// global flags win over the environment.
	setFlag(t, matrixFile, "flag.xlsx")
	setFlag(t, verbose, true)
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MatrixFile != "flag.xlsx" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LoadConfig() with flags = %q %v, want flag.xlsx DEBUG", cfg.MatrixFile, cfg.LogLevel)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("CPS_DUPLICATE_POLICY", "overwrite")
	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() with an unknown policy succeeded, want an error")
	}
}

func TestNewLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "cps.log")
	var stderr bytes.Buffer
	logger, closer, err := NewLogger(&stderr, Config{LogLevel: slog.LevelInfo, LogFile: logFile})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Debug("hidden")
	logger.Info("matrix saved", "rows", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for name, got := range map[string]string{"stderr": stderr.String(), "log file": string(content)} {
		if !strings.Contains(got, "matrix saved") || !strings.Contains(got, "rows=3") {
			t.Errorf("%s = %q, want the info record", name, got)
		}
		if strings.Contains(got, "hidden") {
			t.Errorf("%s = %q, want no debug record", name, got)
		}
	}
}
