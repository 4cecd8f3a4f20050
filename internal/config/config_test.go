package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
general:
  data_root: /tmp/repackdex-test
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Browse.PageSize != 100 {
		t.Errorf("expected default page_size 100, got %d", c.Browse.PageSize)
	}
	if c.Browse.DebounceMS != 200 {
		t.Errorf("expected default debounce_ms 200, got %d", c.Browse.DebounceMS)
	}
	if c.Logging.Level != "info" {
		t.Errorf("expected default level info, got %q", c.Logging.Level)
	}
	if c.UI.Theme != "dark" {
		t.Errorf("expected default theme dark, got %q", c.UI.Theme)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing data_root",
			body:    "version: 1\n",
			wantErr: "data_root",
		},
		{
			name:    "bad version",
			body:    "version: 3\ngeneral:\n  data_root: /tmp/x\n",
			wantErr: "version",
		},
		{
			name:    "bad theme",
			body:    "version: 1\ngeneral:\n  data_root: /tmp/x\nui:\n  theme: solarized\n",
			wantErr: "theme",
		},
		{
			name:    "bad level",
			body:    "version: 1\ngeneral:\n  data_root: /tmp/x\nlogging:\n  level: verbose\n",
			wantErr: "level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("REPACKDEX_TEST_ROOT", "/tmp/from-env")
	path := writeConfig(t, "version: 1\ngeneral:\n  data_root: ${REPACKDEX_TEST_ROOT}\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.General.DataRoot != "/tmp/from-env" {
		t.Errorf("expected env expansion, got %q", c.General.DataRoot)
	}
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if !c.Features.Popular || !c.Features.Downloads {
		t.Error("Default config should enable all pages")
	}
}
