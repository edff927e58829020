package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kobzarvs/notepadmm/internal/tabs"
	"github.com/kobzarvs/notepadmm/internal/watch"
)

func TestDescribeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("one\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg := tabs.New()
	d, err := reg.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if msg := describeChange(reg, watch.Event{Path: path, Op: watch.Changed}); msg != "" {
		t.Fatalf("unchanged file reported %q", msg)
	}

	if err := os.WriteFile(path, []byte("two\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := describeChange(reg, watch.Event{Path: path, Op: watch.Changed})
	if !strings.HasPrefix(msg, "a.txt changed on disk (buffer differs by +1 -1 lines") {
		t.Fatalf("external write message = %q", msg)
	}
	if strings.Contains(msg, "unsaved") {
		t.Fatalf("clean buffer message mentions unsaved edits: %q", msg)
	}

	if err := os.WriteFile(path, []byte("one\nthree\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d.InsertChar('x')
	msg = describeChange(reg, watch.Event{Path: path, Op: watch.Changed})
	if !strings.Contains(msg, "+1 -2 lines") || !strings.Contains(msg, "unsaved edits are kept") {
		t.Fatalf("modified buffer message = %q", msg)
	}

	if msg := describeChange(reg, watch.Event{Path: path, Op: watch.Removed}); msg != "a.txt was removed on disk" {
		t.Fatalf("remove message = %q", msg)
	}

	other := filepath.Join(dir, "b.txt")
	if msg := describeChange(reg, watch.Event{Path: other, Op: watch.Changed}); msg != "" {
		t.Fatalf("event for a closed tab reported %q", msg)
	}
}

func TestDescribeChangeIgnoresOwnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	reg := tabs.New()
	d, _ := reg.Open(path)
	d.InsertString("saved")
	if err := d.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if msg := describeChange(reg, watch.Event{Path: path, Op: watch.Changed}); msg != "" {
		t.Fatalf("own save reported %q", msg)
	}
}
