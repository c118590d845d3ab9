package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, "tab_stop = 8\nshow_line_numbers = false\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TabStop != 8 {
		t.Errorf("TabStop = %d", cfg.TabStop)
	}
	if cfg.ShowLineNumbers {
		t.Error("ShowLineNumbers should be false")
	}
	// Untouched keys keep their defaults.
	if cfg.QuitTimes != 2 {
		t.Errorf("QuitTimes = %d", cfg.QuitTimes)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero tab stop", "tab_stop = 0", "tab_stop"},
		{"zero quit times", "quit_times = 0", "quit_times"},
		{"negative duration", "message_duration = -1", "message_duration"},
		{"bad syntax", "tab_stop = =", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMessageTimeout(t *testing.T) {
	cfg := &Config{MessageDuration: 5}
	if got := cfg.MessageTimeout(); got != 5*time.Second {
		t.Errorf("got %v", got)
	}
}

func TestDataDirOverride(t *testing.T) {
	t.Setenv("QUILL_CONFIG_DIR", "/tmp/quill-test")
	dir, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/quill-test" {
		t.Errorf("dir = %q", dir)
	}
}
