package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/kobzarvs/notepadmm/internal/logger"
)

// Origin describes where a document's initial content came from.
type Origin int

const (
	// OriginFile means the content was read from disk.
	OriginFile Origin = iota
	// OriginNew means the path did not exist; the document starts empty.
	OriginNew
	// OriginUnreadable means the path exists but could not be read; the
	// document starts empty and saving will overwrite whatever is there.
	OriginUnreadable
	// OriginLossy means the file was read but held invalid UTF-8, which was
	// replaced with U+FFFD. Saving writes the replacement characters back.
	OriginLossy
)

func (o Origin) String() string {
	switch o {
	case OriginFile:
		return "file"
	case OriginNew:
		return "new"
	case OriginUnreadable:
		return "unreadable"
	case OriginLossy:
		return "lossy"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// ErrUnreadable matches every *LoadError via errors.Is.
var ErrUnreadable = errors.New("document unreadable")

// LoadError reports that a path could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrUnreadable }

// SaveError reports that writing a document failed. The document is left
// unchanged, so the save can be retried.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// countInvalid reports how many invalid byte sequences data holds.
func countInvalid(data []byte) int {
	n := 0
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			n++
		}
		data = data[size:]
	}
	return n
}

// Load reads path into a new document. A missing file yields an empty
// document with OriginNew and no error. Any other read failure yields an
// empty, usable document with OriginUnreadable together with a *LoadError.
// Content that is not valid UTF-8 loads with OriginLossy.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		d := New(path, string(data))
		if !utf8.Valid(data) {
			d.origin = OriginLossy
			logger.Warn("invalid UTF-8 replaced", "path", path, "bad", countInvalid(data))
		}
		return d, nil
	}
	d := New(path, "")
	if errors.Is(err, fs.ErrNotExist) {
		d.origin = OriginNew
		return d, nil
	}
	d.origin = OriginUnreadable
	logger.Warn("load failed, using empty document", "path", path, "error", err)
	return d, &LoadError{Path: path, Err: err}
}

// Save writes the content to the document's path verbatim. On success the
// document is marked clean; on failure a *SaveError is returned and the
// dirty state is untouched.
func (d *Document) Save() error {
	if d.path == "" {
		return &SaveError{Path: d.path, Err: errors.New("no file name")}
	}
	if err := os.WriteFile(d.path, []byte(d.text.String()), 0o644); err != nil {
		logger.Error("save failed", "path", d.path, "error", err)
		return &SaveError{Path: d.path, Err: err}
	}
	d.origin = OriginFile
	d.dirty = 0
	d.hasDirty = false
	logger.Info("saved", "path", d.path, "bytes", d.text.ByteLen())
	return nil
}

// DiffOnDisk returns a unified diff from the file on disk to the buffer.
// An empty string means there is nothing to save.
func (d *Document) DiffOnDisk() (string, error) {
	disk := ""
	data, err := os.ReadFile(d.path)
	switch {
	case err == nil:
		disk = normalize(string(data))
	case !errors.Is(err, fs.ErrNotExist):
		return "", &LoadError{Path: d.path, Err: err}
	}
	name := filepath.Base(d.path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(disk),
		B:        difflib.SplitLines(d.text.String()),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

// DiffStat counts the added and removed lines of a unified diff, skipping
// the file headers.
func DiffStat(diff string) (added, removed int) {
	for _, line := range difflib.SplitLines(diff) {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}
