package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/notepadmm/internal/logger"
)

// Keymap maps key strings such as "ctrl+s" or "shift+left" to action names.
type Keymap map[string]string

type EditorOptions struct {
	TabWidth    int    `toml:"tab-width"`
	LineNumbers string `toml:"line-numbers"`
	WatchFiles  bool   `toml:"watch-files"`
}

// SearchOptions are the initial find settings; both can be toggled at runtime.
type SearchOptions struct {
	Wrap          bool `toml:"wrap"`
	CaseSensitive bool `toml:"case-sensitive"`
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	PromptForeground           string `toml:"prompt-foreground"`
	PromptBackground           string `toml:"prompt-background"`
	TabForeground              string `toml:"tab-foreground"`
	TabBackground              string `toml:"tab-background"`
	TabActiveForeground        string `toml:"tab-active-foreground"`
	TabActiveBackground        string `toml:"tab-active-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxOperator             string `toml:"syntax-operator"`
	SyntaxPunctuation          string `toml:"syntax-punctuation"`
	SyntaxField                string `toml:"syntax-field"`
	SyntaxBuiltin              string `toml:"syntax-builtin"`
	SyntaxVariable             string `toml:"syntax-variable"`
}

// colors lists every colour field so merges do not have to name them one by one.
func (t *Theme) colors() []*string {
	return []*string{
		&t.Foreground, &t.Background,
		&t.StatuslineForeground, &t.StatuslineBackground,
		&t.PromptForeground, &t.PromptBackground,
		&t.TabForeground, &t.TabBackground,
		&t.TabActiveForeground, &t.TabActiveBackground,
		&t.LineNumberForeground, &t.LineNumberActiveForeground,
		&t.SelectionForeground, &t.SelectionBackground,
		&t.SyntaxKeyword, &t.SyntaxString, &t.SyntaxComment, &t.SyntaxType,
		&t.SyntaxFunction, &t.SyntaxNumber, &t.SyntaxConstant, &t.SyntaxOperator,
		&t.SyntaxPunctuation, &t.SyntaxField, &t.SyntaxBuiltin, &t.SyntaxVariable,
	}
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Search SearchOptions `toml:"search"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:    4,
			LineNumbers: "absolute",
			WatchFiles:  true,
		},
		Search: SearchOptions{
			Wrap:          true,
			CaseSensitive: false,
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			PromptForeground:           "#B3B1AD",
			PromptBackground:           "#0F1419",
			TabForeground:              "#5C6773",
			TabBackground:              "#0F1419",
			TabActiveForeground:        "#0A0E14",
			TabActiveBackground:        "#E6B450",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			SyntaxKeyword:              "#FFA759",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
			SyntaxConstant:             "#FFDD8E",
			SyntaxOperator:             "#F29668",
			SyntaxPunctuation:          "#C0C0C0",
			SyntaxField:                "#E6B673",
			SyntaxBuiltin:              "#73D0FF",
			SyntaxVariable:             "#B3B1AD",
		},
		Keymap: DefaultKeymap(),
	}
}

// DefaultKeymap returns notepad-style bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		"left":            "move_left",
		"right":           "move_right",
		"up":              "move_up",
		"down":            "move_down",
		"home":            "line_start",
		"end":             "line_end",
		"ctrl+home":       "file_start",
		"ctrl+end":        "file_end",
		"shift+left":      "select_left",
		"shift+right":     "select_right",
		"shift+up":        "select_up",
		"shift+down":      "select_down",
		"shift+home":      "select_line_start",
		"shift+end":       "select_line_end",
		"ctrl+shift+home": "select_file_start",
		"ctrl+shift+end":  "select_file_end",
		"pgup":            "page_up",
		"pgdn":            "page_down",
		"enter":           "newline",
		"tab":             "tab",
		"backspace":       "backspace",
		"del":             "delete_char",
		"esc":             "clear_selection",
		"ctrl+a":          "select_all",
		"ctrl+z":          "undo",
		"ctrl+y":          "redo",
		"ctrl+s":          "save",
		"ctrl+shift+s":    "save_all",
		"ctrl+f":          "find",
		"f3":              "find_next",
		"shift+f3":        "find_prev",
		"alt+c":           "toggle_case",
		"ctrl+o":          "open",
		"ctrl+w":          "close_tab",
		"ctrl+pgdn":       "next_tab",
		"ctrl+pgup":       "prev_tab",
		"ctrl+l":          "toggle_line_numbers",
		"f2":              "toggle_history",
		"f4":              "toggle_diff",
		"ctrl+q":          "quit",
	}
}

// Load reads config.toml from ConfigDir and merges it onto Default. A
// missing file is not an error.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	meta, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	// Booleans only override when present, since false is also the zero value.
	if meta.IsDefined("editor", "watch-files") {
		cfg.Editor.WatchFiles = userCfg.Editor.WatchFiles
	}
	if meta.IsDefined("search", "wrap") {
		cfg.Search.Wrap = userCfg.Search.Wrap
	}
	if meta.IsDefined("search", "case-sensitive") {
		cfg.Search.CaseSensitive = userCfg.Search.CaseSensitive
	}

	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	logger.Info("config loaded", "path", path, "theme", cfg.Theme.Theme, "keys", len(userCfg.Keymap))
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	from := src.colors()
	for i, to := range dst.colors() {
		if *from[i] != "" {
			*to = *from[i]
		}
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The file may hold the colour keys at
// the top level or inside a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("NOTEPADMM_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "notepadmm"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "notepadmm"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
