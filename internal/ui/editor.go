// Package ui is the terminal front-end. It renders the tab registry with
// tcell and turns key events into document and registry commands.
package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/notepadmm/internal/config"
	"github.com/kobzarvs/notepadmm/internal/document"
	"github.com/kobzarvs/notepadmm/internal/logger"
	"github.com/kobzarvs/notepadmm/internal/syntax"
	"github.com/kobzarvs/notepadmm/internal/tabs"
)

const (
	actionMoveLeft          = "move_left"
	actionMoveRight         = "move_right"
	actionMoveUp            = "move_up"
	actionMoveDown          = "move_down"
	actionLineStart         = "line_start"
	actionLineEnd           = "line_end"
	actionFileStart         = "file_start"
	actionFileEnd           = "file_end"
	actionSelectLeft        = "select_left"
	actionSelectRight       = "select_right"
	actionSelectUp          = "select_up"
	actionSelectDown        = "select_down"
	actionSelectLineStart   = "select_line_start"
	actionSelectLineEnd     = "select_line_end"
	actionSelectFileStart   = "select_file_start"
	actionSelectFileEnd     = "select_file_end"
	actionPageUp            = "page_up"
	actionPageDown          = "page_down"
	actionNewline           = "newline"
	actionTab               = "tab"
	actionBackspace         = "backspace"
	actionDeleteChar        = "delete_char"
	actionClearSelection    = "clear_selection"
	actionSelectAll         = "select_all"
	actionUndo              = "undo"
	actionRedo              = "redo"
	actionSave              = "save"
	actionSaveAll           = "save_all"
	actionFind              = "find"
	actionFindNext          = "find_next"
	actionFindPrev          = "find_prev"
	actionToggleCase        = "toggle_case"
	actionOpen              = "open"
	actionCloseTab          = "close_tab"
	actionNextTab           = "next_tab"
	actionPrevTab           = "prev_tab"
	actionToggleLineNumbers = "toggle_line_numbers"
	actionToggleHistory     = "toggle_history"
	actionToggleDiff        = "toggle_diff"
	actionQuit              = "quit"
)

type motion struct {
	dir    document.Direction
	extend bool
}

var motions = map[string]motion{
	actionMoveLeft:        {document.Left, false},
	actionMoveRight:       {document.Right, false},
	actionMoveUp:          {document.Up, false},
	actionMoveDown:        {document.Down, false},
	actionLineStart:       {document.LineStart, false},
	actionLineEnd:         {document.LineEnd, false},
	actionFileStart:       {document.DocumentStart, false},
	actionFileEnd:         {document.DocumentEnd, false},
	actionSelectLeft:      {document.Left, true},
	actionSelectRight:     {document.Right, true},
	actionSelectUp:        {document.Up, true},
	actionSelectDown:      {document.Down, true},
	actionSelectLineStart: {document.LineStart, true},
	actionSelectLineEnd:   {document.LineEnd, true},
	actionSelectFileStart: {document.DocumentStart, true},
	actionSelectFileEnd:   {document.DocumentEnd, true},
}

// diffCache holds the panel lines of one document's diff against disk.
type diffCache struct {
	path  string
	tick  uint64
	valid bool
	lines []string
	err   error

	added, removed int
}

type promptKind int

const (
	promptNone promptKind = iota
	promptFind
	promptOpen
)

const branchRefresh = 2 * time.Second

// view is the per-tab scroll position plus the cached branch label.
type view struct {
	top  int
	left int

	branch   string
	branchAt time.Time
}

type Editor struct {
	reg    *tabs.Registry
	hl     *syntax.Highlighter
	keymap map[string]string
	styles styles

	tabWidth    int
	lineNumbers bool
	views       map[string]*view

	prompt        promptKind
	input         []rune
	needle        string
	wrap          bool
	caseSensitive bool

	status      string
	armed       string // action waiting for a second press to confirm
	showHistory bool
	showDiff    bool
	diff        diffCache

	viewHeight int
	textWidth  int

	// OnOpen and OnClose, when set, are called after a tab is opened or
	// closed from the keyboard.
	OnOpen  func(path string)
	OnClose func(path string)

	// BranchOf, when set, labels the status line with the VCS branch of a
	// file. Results are cached per tab for branchRefresh.
	BranchOf func(path string) string
}

func New(cfg config.Config, reg *tabs.Registry, hl *syntax.Highlighter) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	return &Editor{
		reg:           reg,
		hl:            hl,
		keymap:        keymap,
		styles:        newStyles(cfg.Theme),
		tabWidth:      max(cfg.Editor.TabWidth, 1),
		lineNumbers:   cfg.Editor.LineNumbers != "none" && cfg.Editor.LineNumbers != "off",
		views:         make(map[string]*view),
		wrap:          cfg.Search.Wrap,
		caseSensitive: cfg.Search.CaseSensitive,
	}
}

// SetStatus shows msg on the message line until the next key press.
func (e *Editor) SetStatus(msg string) {
	e.status = msg
}

// Status returns the current message line text.
func (e *Editor) Status() string { return e.status }

func (e *Editor) viewFor(path string) *view {
	v, ok := e.views[path]
	if !ok {
		v = &view{}
		e.views[path] = v
	}
	return v
}

// RefreshDiff drops the cached diff so the next render rereads the file.
func (e *Editor) RefreshDiff() {
	e.diff.valid = false
}

func (e *Editor) branch(path string) string {
	if e.BranchOf == nil {
		return ""
	}
	v := e.viewFor(path)
	if v.branchAt.IsZero() || time.Since(v.branchAt) > branchRefresh {
		v.branch = e.BranchOf(path)
		v.branchAt = time.Now()
	}
	return v.branch
}

// HandleKey processes one key press. It returns true when the editor
// should exit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if e.prompt != promptNone {
		e.handlePrompt(ev, key)
		return false
	}
	e.status = ""

	action, ok := e.keymap[key]
	if !ok {
		if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			e.armed = ""
			e.withDoc(func(d *document.Document) { d.InsertChar(ev.Rune()) })
		}
		return false
	}
	if action != e.armed {
		e.armed = ""
	}
	return e.execAction(action)
}

func (e *Editor) withDoc(fn func(d *document.Document)) {
	d, ok := e.reg.Active()
	if !ok {
		e.status = "no file open (ctrl+o to open)"
		return
	}
	fn(d)
}

func (e *Editor) execAction(action string) bool {
	if m, ok := motions[action]; ok {
		e.withDoc(func(d *document.Document) { d.Move(m.dir, m.extend) })
		return false
	}

	switch action {
	case actionPageUp, actionPageDown:
		step := max(e.viewHeight-1, 1)
		if action == actionPageUp {
			step = -step
		}
		e.withDoc(func(d *document.Document) {
			c := d.Caret()
			d.SetCaret(c.Line+step, c.Column, false)
		})
	case actionNewline:
		e.withDoc(func(d *document.Document) { d.InsertChar('\n') })
	case actionTab:
		e.withDoc(func(d *document.Document) { d.InsertChar('\t') })
	case actionBackspace:
		e.withDoc(func(d *document.Document) { d.Backspace() })
	case actionDeleteChar:
		e.withDoc(func(d *document.Document) { d.Delete() })
	case actionClearSelection:
		e.withDoc(func(d *document.Document) { d.ClearSelection() })
	case actionSelectAll:
		e.withDoc(func(d *document.Document) { d.SelectAll() })
	case actionUndo:
		e.withDoc(func(d *document.Document) {
			if !d.Undo() {
				e.status = "nothing to undo"
			}
		})
	case actionRedo:
		e.withDoc(func(d *document.Document) {
			if !d.Redo() {
				e.status = "nothing to redo"
			}
		})
	case actionSave:
		e.save()
	case actionSaveAll:
		e.saveAll()
	case actionFind:
		e.startPrompt(promptFind, e.needle)
	case actionFindNext:
		e.findNext(true)
	case actionFindPrev:
		e.findNext(false)
	case actionToggleCase:
		e.caseSensitive = !e.caseSensitive
		e.status = "case sensitive: " + onOff(e.caseSensitive)
	case actionOpen:
		e.startPrompt(promptOpen, "")
	case actionCloseTab:
		e.closeActive()
	case actionNextTab:
		e.reg.Next()
	case actionPrevTab:
		e.reg.Prev()
	case actionToggleLineNumbers:
		e.lineNumbers = !e.lineNumbers
	case actionToggleHistory:
		e.showHistory = !e.showHistory
		e.showDiff = false
	case actionToggleDiff:
		e.showDiff = !e.showDiff
		e.showHistory = false
		e.RefreshDiff()
	case actionQuit:
		return e.quit()
	default:
		logger.Debug("unknown action", "action", action)
	}
	return false
}

func (e *Editor) save() {
	d, ok := e.reg.Active()
	if !ok {
		return
	}
	if err := d.Save(); err != nil {
		e.status = "save failed: " + err.Error()
		return
	}
	e.status = "saved " + filepath.Base(d.Path())
}

func (e *Editor) saveAll() {
	n := len(e.reg.Modified())
	if err := e.reg.SaveAll(); err != nil {
		errs := multierr.Errors(err)
		e.status = fmt.Sprintf("%d of %d saves failed: %v", len(errs), n, errs[0])
		return
	}
	e.status = fmt.Sprintf("saved %d file(s)", n)
}

func (e *Editor) closeActive() {
	d, ok := e.reg.Active()
	if !ok {
		return
	}
	if d.Modified() && e.armed != actionCloseTab {
		e.armed = actionCloseTab
		e.status = filepath.Base(d.Path()) + " has unsaved changes; press again to close"
		return
	}
	e.armed = ""
	path := d.Path()
	e.reg.Close(path)
	delete(e.views, path)
	if e.hl != nil {
		e.hl.Forget(path)
	}
	if e.OnClose != nil {
		e.OnClose(path)
	}
}

func (e *Editor) quit() bool {
	modified := e.reg.Modified()
	if len(modified) > 0 && e.armed != actionQuit {
		e.armed = actionQuit
		e.status = fmt.Sprintf("%d unsaved file(s); press again to quit", len(modified))
		return false
	}
	return true
}

// Open opens path as the active tab and reports load problems on the
// message line.
func (e *Editor) Open(path string) {
	d, err := e.reg.Open(path)
	if err != nil {
		e.status = err.Error()
	} else {
		switch d.Origin() {
		case document.OriginNew:
			e.status = "new file " + filepath.Base(d.Path())
		case document.OriginLossy:
			e.status = filepath.Base(d.Path()) + ": invalid UTF-8 shown as U+FFFD; saving will rewrite those bytes"
		}
	}
	if e.OnOpen != nil {
		e.OnOpen(d.Path())
	}
}

func (e *Editor) findNext(forward bool) {
	if e.needle == "" {
		e.startPrompt(promptFind, "")
		return
	}
	e.withDoc(func(d *document.Document) {
		var found bool
		if forward {
			_, found = d.Find(d.Cursor(), e.needle, e.wrap, e.caseSensitive)
		} else {
			start := d.Cursor()
			if s, _, ok := d.SelectionSpan(); ok {
				start = s
			}
			_, found = d.FindBackward(start, e.needle, e.wrap, e.caseSensitive)
		}
		if !found {
			e.status = "not found: " + e.needle
		}
	})
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
