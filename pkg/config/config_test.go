package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/moyu-x/image-mirror/pkg/walker"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Convert.Target != "webp" {
		t.Errorf("Expected target webp, got %s", c.Convert.Target)
	}
	if c.Convert.Quality != 90 || c.Convert.Effort != 4 {
		t.Errorf("Unexpected quality/effort: %d/%d", c.Convert.Quality, c.Convert.Effort)
	}
	if c.Performance.Workers != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), c.Performance.Workers)
	}
	if len(c.Walker.Placeholders) != 1 || c.Walker.Placeholders[0] != walker.DefaultPlaceholder {
		t.Errorf("Unexpected placeholders: %v", c.Walker.Placeholders)
	}
	if c.Logging.Level != "info" {
		t.Errorf("Expected level info, got %s", c.Logging.Level)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Defaults should validate, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
convert:
  target: avif
  quality: 60
  max_width: 1920
walker:
  placeholders: [".keep", ".gitkeep"]
performance:
  workers: 2
logging:
  level: debug
  file: /tmp/image-mirror.log
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Convert.Target != "avif" || c.Convert.Quality != 60 || c.Convert.MaxWidth != 1920 {
		t.Errorf("Unexpected convert section: %+v", c.Convert)
	}
	if len(c.Walker.Placeholders) != 2 {
		t.Errorf("Expected 2 placeholders, got %v", c.Walker.Placeholders)
	}
	if c.Performance.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", c.Performance.Workers)
	}
	if c.Logging.File != "/tmp/image-mirror.log" {
		t.Errorf("Unexpected log file %s", c.Logging.File)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("IMAGE_MIRROR_CONVERT_QUALITY", "70")
	t.Setenv("IMAGE_MIRROR_CONVERT_TARGET", "png")

	c, err := Load(writeConfig(t, "convert:\n  quality: 50\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Convert.Quality != 70 {
		t.Errorf("Expected env quality 70, got %d", c.Convert.Quality)
	}
	if c.Convert.Target != "png" {
		t.Errorf("Expected env target png, got %s", c.Convert.Target)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"jpg alias", func(c *Config) { c.Convert.Target = "JPG" }, false},
		{"unknown target", func(c *Config) { c.Convert.Target = "bmp" }, true},
		{"quality zero", func(c *Config) { c.Convert.Quality = 0 }, true},
		{"quality too high", func(c *Config) { c.Convert.Quality = 101 }, true},
		{"quality max", func(c *Config) { c.Convert.Quality = 100 }, false},
		{"negative width", func(c *Config) { c.Convert.MaxWidth = -1 }, true},
		{"effort too high", func(c *Config) { c.Convert.Effort = 11 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.Convert.Target = "webp"
			c.Convert.Quality = 90
			c.Convert.Effort = 4
			tt.modify(c)

			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
