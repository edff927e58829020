package document

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileIsNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Origin() != OriginNew {
		t.Fatalf("Origin = %v, want %v", d.Origin(), OriginNew)
	}
	if d.Text() != "\n" || d.Path() != path {
		t.Fatalf("text=%q path=%q", d.Text(), d.Path())
	}
}

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.txt")
	if err := os.WriteFile(path, []byte("one\r\ntwo"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Origin() != OriginFile {
		t.Fatalf("Origin = %v, want %v", d.Origin(), OriginFile)
	}
	if got := d.Text(); got != "one\ntwo\n" {
		t.Fatalf("text = %q, want %q", got, "one\ntwo\n")
	}
	if d.Modified() {
		t.Fatalf("freshly loaded document is modified")
	}
}

func TestLoadInvalidUTF8IsLossy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	if err := os.WriteFile(path, []byte("caf\xe9\nok\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Origin() != OriginLossy {
		t.Fatalf("Origin = %v, want %v", d.Origin(), OriginLossy)
	}
	if got := d.Line(0); got != "caf\uFFFD" {
		t.Fatalf("line 0 = %q, want replacement character", got)
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.Origin() != OriginFile {
		t.Fatalf("Origin after save = %v, want %v", d.Origin(), OriginFile)
	}
	if got := countInvalid([]byte("a\xff\xfeb")); got != 2 {
		t.Fatalf("countInvalid = %d, want 2", got)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	d, err := Load(dir)
	if err == nil {
		t.Fatalf("Load(directory) error = nil")
	}
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("errors.Is(err, ErrUnreadable) = false for %v", err)
	}
	var le *LoadError
	if !errors.As(err, &le) || le.Path != dir {
		t.Fatalf("err = %#v, want *LoadError for %q", err, dir)
	}
	if d == nil || d.Origin() != OriginUnreadable || d.Text() != "\n" {
		t.Fatalf("document = %+v, want empty unreadable document", d)
	}
	d.InsertChar('x')
	if d.Text() != "x\n" {
		t.Fatalf("unreadable document is not editable, text = %q", d.Text())
	}
}

func TestSaveClearsDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	d, _ := Load(path)
	d.InsertString("hello")
	if !d.Modified() {
		t.Fatalf("Modified = false after edit")
	}
	if err := d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.Modified() {
		t.Fatalf("Modified = true after save")
	}
	if _, ok := d.DirtyCount(); ok {
		t.Fatalf("DirtyCount ok = true after save")
	}
	if d.Origin() != OriginFile {
		t.Fatalf("Origin = %v after save, want %v", d.Origin(), OriginFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("file = %q, want %q", data, "hello\n")
	}
	d.Undo()
	if n, ok := d.DirtyCount(); ok {
		t.Fatalf("DirtyCount = %d true after undo past save, want not dirty", n)
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")
	d := New(path, "")
	d.InsertChar('a')
	err := d.Save()
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Save error = %v, want *SaveError", err)
	}
	if se.Path != path {
		t.Fatalf("SaveError.Path = %q, want %q", se.Path, path)
	}
	if n, ok := d.DirtyCount(); !ok || n != 1 {
		t.Fatalf("DirtyCount = %d %v, want 1 true", n, ok)
	}
	if d.Text() != "a\n" {
		t.Fatalf("text = %q, want %q", d.Text(), "a\n")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	d := New("", "x")
	var se *SaveError
	if err := d.Save(); !errors.As(err, &se) {
		t.Fatalf("Save error = %v, want *SaveError", err)
	}
}

func TestDiffOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	diff, err := d.DiffOnDisk()
	if err != nil || diff != "" {
		t.Fatalf("DiffOnDisk = %q %v, want empty", diff, err)
	}
	d.SetCaret(1, 0, false)
	d.InsertString("TWO")
	diff, err = d.DiffOnDisk()
	if err != nil {
		t.Fatalf("DiffOnDisk: %v", err)
	}
	for _, want := range []string{"--- a/notes.txt", "+++ b/notes.txt", "-two", "+TWOtwo"} {
		if !strings.Contains(diff, want) {
			t.Fatalf("diff missing %q:\n%s", want, diff)
		}
	}
}

func TestDiffStat(t *testing.T) {
	diff := "--- a/x\n+++ b/x\n@@ -1,2 +1,3 @@\n-one\n+ONE\n+extra\n two\n"
	if added, removed := DiffStat(diff); added != 2 || removed != 1 {
		t.Fatalf("DiffStat = +%d -%d, want +2 -1", added, removed)
	}
	if added, removed := DiffStat(""); added != 0 || removed != 0 {
		t.Fatalf("DiffStat(\"\") = +%d -%d", added, removed)
	}
}
