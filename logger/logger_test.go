package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLevels(t *testing.T) {
	dir := t.TempDir()
	defer Nop()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{level: "error", expected: []string{"ERROR"}, excluded: []string{"WARN", "INFO", "DEBUG"}},
		{level: "warn", expected: []string{"ERROR", "WARN"}, excluded: []string{"INFO", "DEBUG"}},
		{level: "info", expected: []string{"ERROR", "WARN", "INFO"}, excluded: []string{"DEBUG"}},
		{level: "debug", expected: []string{"ERROR", "WARN", "INFO", "DEBUG"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			path := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatal(err)
			}
			Debug("debug message")
			Info("info message", zap.Int("width", 640))
			Warn("warn message")
			Error("error message")
			Sync()

			buf, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			out := string(buf)
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output:\n%s", exp, out)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestInvalidLevel(t *testing.T) {
	Nop()
	err := InitWithFileConfig("bogus", FileConfig{}, false)
	if err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if !strings.Contains(err.Error(), `"bogus"`) {
		t.Errorf("error does not name the level: %v", err)
	}
	if Log.Core().Enabled(zap.ErrorLevel) {
		t.Errorf("logger was replaced despite the error")
	}
}

func TestReinitReplacesFile(t *testing.T) {
	dir := t.TempDir()
	first, second := filepath.Join(dir, "first.log"), filepath.Join(dir, "second.log")
	defer Nop()

	for i := 0; i < 3; i++ {
		if err := InitWithFileConfig("info", FileConfig{Path: first, MaxSizeMB: 1}, false); err != nil {
			t.Fatal(err)
		}
	}
	prev := fileWriter
	if err := InitWithFileConfig("info", FileConfig{Path: second, MaxSizeMB: 1}, false); err != nil {
		t.Fatal(err)
	}
	if fileWriter == nil || fileWriter == prev {
		t.Fatalf("file writer was not replaced")
	}
	Info("second only")
	Sync()

	buf, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(buf), "second only") {
		t.Errorf("message missing from the new file:\n%s", buf)
	}
	if buf, err := os.ReadFile(first); err == nil && strings.Contains(string(buf), "second only") {
		t.Errorf("message written to the replaced file")
	}

	if err := Init("info", ""); err != nil {
		t.Fatal(err)
	}
	if fileWriter != nil {
		t.Errorf("file writer kept without a log file")
	}
}

func TestCallerIsLogSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caller.log")
	defer Nop()
	if err := InitWithFileConfig("info", FileConfig{Path: path, MaxSizeMB: 1}, false); err != nil {
		t.Fatal(err)
	}
	Info("wrapped")
	Sugar.Infof("sugared %d", 1)
	Sync()

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	for _, line := range lines {
		if !strings.Contains(line, "logger/logger_test.go") {
			t.Errorf("caller does not point at the test: %q", line)
		}
	}
}

func TestNop(t *testing.T) {
	Nop()
	Info("dropped")
	if Log.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("nop logger has an enabled core")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/glsnap.log")
	if cfg.Path != "/tmp/glsnap.log" {
		t.Errorf("unexpected path %q", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 || !cfg.Compress {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
