package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/notepadmm/internal/config"
	"github.com/kobzarvs/notepadmm/internal/tabs"
)

func newTestEditor(t *testing.T, files map[string]string) (*Editor, *tabs.Registry, string) {
	t.Helper()
	dir := t.TempDir()
	reg := tabs.New()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	cfg := config.Default()
	cfg.Editor.LineNumbers = "none"
	return New(cfg, reg, nil), reg, dir
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeText(e *Editor, text string) {
	for _, r := range text {
		e.HandleKey(runeKey(r))
	}
}

func press(e *Editor, k tcell.Key, mod tcell.ModMask) bool {
	return e.HandleKey(tcell.NewEventKey(k, 0, mod))
}

func ctrl(e *Editor, letter rune) bool {
	return press(e, tcell.KeyCtrlA+tcell.Key(letter-'a'), tcell.ModCtrl)
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), "A"},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space"},
		{tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModAlt), "alt+c"},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "left"},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), "shift+left"},
		{tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModCtrl|tcell.ModShift), "ctrl+shift+home"},
		{tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift), "shift+f3"},
		{tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "ctrl+s"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "tab"},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "backspace"},
		{tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), "del"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "esc"},
	}
	for _, tt := range tests {
		if got := keyString(tt.ev); got != tt.want {
			t.Fatalf("keyString(%v) = %q, want %q", tt.ev.Name(), got, tt.want)
		}
	}
}

func TestTypingUndoRedo(t *testing.T) {
	e, reg, dir := newTestEditor(t, map[string]string{"a.txt": "ab\n"})
	e.Open(filepath.Join(dir, "a.txt"))
	d, _ := reg.Active()

	typeText(e, "xy")
	if d.Text() != "xyab\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "xyab\n")
	}
	ctrl(e, 'z')
	if d.Text() != "xab\n" {
		t.Fatalf("after undo text = %q, want %q", d.Text(), "xab\n")
	}
	ctrl(e, 'y')
	if d.Text() != "xyab\n" {
		t.Fatalf("after redo text = %q, want %q", d.Text(), "xyab\n")
	}
	press(e, tcell.KeyEnter, tcell.ModNone)
	press(e, tcell.KeyBackspace2, tcell.ModNone)
	press(e, tcell.KeyDelete, tcell.ModNone)
	if d.Text() != "xyb\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "xyb\n")
	}
}

func TestShiftArrowSelectsAndTypingReplaces(t *testing.T) {
	e, reg, dir := newTestEditor(t, map[string]string{"a.txt": "hello\n"})
	e.Open(filepath.Join(dir, "a.txt"))
	d, _ := reg.Active()

	press(e, tcell.KeyRight, tcell.ModShift)
	press(e, tcell.KeyRight, tcell.ModShift)
	if got, ok := d.SelectedText(); !ok || got != "he" {
		t.Fatalf("selection = %q %v, want %q", got, ok, "he")
	}
	typeText(e, "J")
	if d.Text() != "Jllo\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "Jllo\n")
	}
}

func TestFindPrompt(t *testing.T) {
	e, reg, dir := newTestEditor(t, map[string]string{"a.txt": "ab\ncd\n"})
	e.Open(filepath.Join(dir, "a.txt"))
	d, _ := reg.Active()

	ctrl(e, 'f')
	typeText(e, "cd")
	press(e, tcell.KeyEnter, tcell.ModNone)
	if got, ok := d.SelectedText(); !ok || got != "cd" {
		t.Fatalf("selection = %q %v, want %q", got, ok, "cd")
	}
	if d.Cursor() != 5 {
		t.Fatalf("cursor = %d, want 5", d.Cursor())
	}

	e.wrap = false
	press(e, tcell.KeyF3, tcell.ModNone)
	if !strings.Contains(e.Status(), "not found") {
		t.Fatalf("status = %q, want not found", e.Status())
	}
	press(e, tcell.KeyF3, tcell.ModShift)
	if !strings.Contains(e.Status(), "not found") {
		t.Fatalf("status = %q, want not found before the match start", e.Status())
	}
	e.wrap = true
	press(e, tcell.KeyF3, tcell.ModShift)
	if got, ok := d.SelectedText(); !ok || got != "cd" || e.Status() != "" {
		t.Fatalf("wrapped find_prev: selection = %q %v, status = %q", got, ok, e.Status())
	}
}

func TestQuitNeedsConfirmationWhenModified(t *testing.T) {
	e, _, dir := newTestEditor(t, map[string]string{"a.txt": "x\n"})
	e.Open(filepath.Join(dir, "a.txt"))

	if !ctrl(e, 'q') {
		t.Fatalf("quit with no edits did not exit")
	}
	typeText(e, "z")
	if ctrl(e, 'q') {
		t.Fatalf("first quit with unsaved edits exited")
	}
	if !strings.Contains(e.Status(), "unsaved") {
		t.Fatalf("status = %q, want unsaved warning", e.Status())
	}
	if !ctrl(e, 'q') {
		t.Fatalf("second quit did not exit")
	}
}

func TestCloseTabConfirmation(t *testing.T) {
	e, reg, dir := newTestEditor(t, map[string]string{"a.txt": "x\n", "b.txt": "y\n"})
	var closed []string
	e.OnClose = func(path string) { closed = append(closed, path) }
	e.Open(filepath.Join(dir, "a.txt"))
	e.Open(filepath.Join(dir, "b.txt"))

	typeText(e, "!")
	ctrl(e, 'w')
	if reg.Len() != 2 {
		t.Fatalf("modified tab closed on first press")
	}
	ctrl(e, 'w')
	if reg.Len() != 1 {
		t.Fatalf("Len = %d after confirmed close, want 1", reg.Len())
	}
	if len(closed) != 1 || filepath.Base(closed[0]) != "b.txt" {
		t.Fatalf("OnClose calls = %q", closed)
	}
	d, ok := reg.Active()
	if !ok || filepath.Base(d.Path()) != "a.txt" {
		t.Fatalf("active after close = %v %v, want a.txt", d, ok)
	}
}

func TestOpenPromptAndSave(t *testing.T) {
	e, reg, dir := newTestEditor(t, nil)
	var opened []string
	e.OnOpen = func(path string) { opened = append(opened, path) }
	path := filepath.Join(dir, "new.txt")

	ctrl(e, 'o')
	typeText(e, path)
	press(e, tcell.KeyEnter, tcell.ModNone)
	if reg.Len() != 1 || len(opened) != 1 || opened[0] != path {
		t.Fatalf("open via prompt: Len=%d opened=%q", reg.Len(), opened)
	}
	if !strings.Contains(e.Status(), "new file") {
		t.Fatalf("status = %q, want new file notice", e.Status())
	}
	typeText(e, "hi")
	ctrl(e, 's')
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hi\n" {
		t.Fatalf("saved file = %q %v, want %q", data, err, "hi\n")
	}
	if !strings.HasPrefix(e.Status(), "saved") {
		t.Fatalf("status = %q, want saved", e.Status())
	}
}

func TestOpenLossyFileWarns(t *testing.T) {
	e, _, dir := newTestEditor(t, map[string]string{"bad.txt": "x\xff\n"})
	e.Open(filepath.Join(dir, "bad.txt"))
	if !strings.Contains(e.Status(), "invalid UTF-8") {
		t.Fatalf("status = %q, want invalid UTF-8 warning", e.Status())
	}

	s := newScreen(t, 40, 5)
	e.Render(s)
	if got := rowText(s, 3); !strings.HasPrefix(got, " bad.txt [lossy] ") {
		t.Fatalf("status line = %q", got)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	e, reg, dir := newTestEditor(t, nil)
	e.Open(filepath.Join(dir, "missing", "a.txt"))
	typeText(e, "x")
	ctrl(e, 's')
	if !strings.HasPrefix(e.Status(), "save failed") {
		t.Fatalf("status = %q, want save failure", e.Status())
	}
	d, _ := reg.Active()
	if !d.Modified() {
		t.Fatalf("document clean after failed save")
	}
}

func TestEscapeCancelsPrompt(t *testing.T) {
	e, reg, dir := newTestEditor(t, map[string]string{"a.txt": "abc\n"})
	e.Open(filepath.Join(dir, "a.txt"))
	ctrl(e, 'f')
	typeText(e, "b")
	press(e, tcell.KeyEscape, tcell.ModNone)
	typeText(e, "z")
	d, _ := reg.Active()
	if d.Text() != "zabc\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "zabc\n")
	}
}

func TestNoDocumentIsHarmless(t *testing.T) {
	e, _, _ := newTestEditor(t, nil)
	typeText(e, "a")
	ctrl(e, 'z')
	press(e, tcell.KeyLeft, tcell.ModNone)
	if !strings.Contains(e.Status(), "no file open") {
		t.Fatalf("status = %q, want no file notice", e.Status())
	}
}
