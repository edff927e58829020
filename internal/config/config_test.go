package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("NOTEPADMM_CONFIG_HOME", "/tmp/notepadmm-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/notepadmm-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/notepadmm-config")
	}

	t.Setenv("NOTEPADMM_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/notepadmm" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/notepadmm")
	}
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	t.Setenv("NOTEPADMM_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	def := Default()
	if cfg.Editor != def.Editor || cfg.Search != def.Search || cfg.Theme != def.Theme {
		t.Fatalf("Load without file = %+v, want defaults", cfg)
	}
	if cfg.Keymap["ctrl+z"] != "undo" {
		t.Fatalf("keymap ctrl+z = %q, want %q", cfg.Keymap["ctrl+z"], "undo")
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEPADMM_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
statusline-foreground = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
line-numbers = "none"
watch-files = false

[search]
case-sensitive = true

[theme]
theme = "test"
prompt-background = "#123456"
background = "#654321"

[keymap]
"ctrl+q" = "save"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.LineNumbers != "none" {
		t.Fatalf("LineNumbers = %q, want %q", cfg.Editor.LineNumbers, "none")
	}
	if cfg.Editor.WatchFiles {
		t.Fatalf("WatchFiles = true, want false")
	}
	if !cfg.Search.CaseSensitive {
		t.Fatalf("CaseSensitive = false, want true")
	}
	if !cfg.Search.Wrap {
		t.Fatalf("Wrap = false, want default true")
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.StatuslineForeground != "#333333" {
		t.Fatalf("StatuslineForeground = %q, want %q", cfg.Theme.StatuslineForeground, "#333333")
	}
	if cfg.Theme.Background != "#654321" {
		t.Fatalf("Background = %q, want user override %q", cfg.Theme.Background, "#654321")
	}
	if cfg.Theme.PromptBackground != "#123456" {
		t.Fatalf("PromptBackground = %q, want %q", cfg.Theme.PromptBackground, "#123456")
	}
	if cfg.Keymap["ctrl+q"] != "save" {
		t.Fatalf("keymap ctrl+q = %q, want %q", cfg.Keymap["ctrl+q"], "save")
	}
	if cfg.Keymap["left"] != "move_left" {
		t.Fatalf("keymap left = %q, want %q", cfg.Keymap["left"], "move_left")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEPADMM_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[editor\n")

	cfg, err := Load()
	if err == nil {
		t.Fatalf("Load error = nil for malformed file")
	}
	if cfg.Editor.TabWidth != Default().Editor.TabWidth {
		t.Fatalf("TabWidth = %d, want default on error", cfg.Editor.TabWidth)
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEPADMM_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#bbbbbb" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#bbbbbb")
	}
}
