package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", ".go"}},
			{Name: "bash", FileTypes: []string{".bashrc", "Makefile"}},
		},
	}

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"/src/pkg/MAIN.GO", "go"},
		{"go.mod", "go"},
		{".bashrc", "bash"},
		{"Makefile", "bash"},
		{"unknown.txt", ""},
	}
	for _, tt := range tests {
		got := cfg.Match(tt.path)
		name := ""
		if got != nil {
			name = got.Name
		}
		if name != tt.want {
			t.Fatalf("Match(%q) = %q, want %q", tt.path, name, tt.want)
		}
	}
}

func TestLoadLanguages(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEPADMM_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "go"
file-types = ["go", "tmpl"]
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != 1 {
		t.Fatalf("Languages len = %d, want 1", len(cfg.Languages))
	}
	if got := cfg.Match("page.tmpl"); got == nil || got.Name != "go" {
		t.Fatalf("Match page.tmpl = %#v, want go", got)
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NOTEPADMM_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if got := cfg.Match("ci.yml"); got == nil || got.Name != "yaml" {
		t.Fatalf("default Match ci.yml = %#v, want yaml", got)
	}
}
