package document

import (
	"fmt"
	"unicode/utf8"
)

// EventKind tags an edit event.
type EventKind int

const (
	EventInsertChar EventKind = iota
	EventDeleteChar
	EventInsertRange
	EventDeleteRange
)

func (k EventKind) String() string {
	switch k {
	case EventInsertChar:
		return "InsertChar"
	case EventDeleteChar:
		return "DeleteChar"
	case EventInsertRange:
		return "InsertRange"
	case EventDeleteRange:
		return "DeleteRange"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a single invertible edit. Char is used by the *Char kinds and
// Text by the *Range kinds; Offset is where the edit starts.
type Event struct {
	Kind   EventKind
	Char   rune
	Text   string
	Offset int
}

func (e Event) String() string {
	switch e.Kind {
	case EventInsertChar, EventDeleteChar:
		return fmt.Sprintf("%s(%q, %d)", e.Kind, e.Char, e.Offset)
	}
	return fmt.Sprintf("%s(%q, %d)", e.Kind, e.Text, e.Offset)
}

// Len returns the number of runes the event inserts or removes.
func (e Event) Len() int {
	switch e.Kind {
	case EventInsertChar, EventDeleteChar:
		return 1
	}
	return utf8.RuneCountInString(e.Text)
}

// Inverse returns the event that undoes e.
func (e Event) Inverse() Event {
	inv := e
	switch e.Kind {
	case EventInsertChar:
		inv.Kind = EventDeleteChar
	case EventDeleteChar:
		inv.Kind = EventInsertChar
	case EventInsertRange:
		inv.Kind = EventDeleteRange
	case EventDeleteRange:
		inv.Kind = EventInsertRange
	}
	return inv
}

func (e Event) inserts() bool {
	return e.Kind == EventInsertChar || e.Kind == EventInsertRange
}

func (e Event) text() string {
	if e.Kind == EventInsertChar || e.Kind == EventDeleteChar {
		return string(e.Char)
	}
	return e.Text
}

// cursorState is the cursor and selection around an event, so undo and redo
// restore exactly what the user saw.
type cursorState struct {
	offset    int
	sel       Selection
	selActive bool
}

type entry struct {
	event  Event
	before cursorState
	after  cursorState
}

func (d *Document) state() cursorState {
	return cursorState{offset: d.cursor, sel: d.sel, selActive: d.selActive}
}

func (d *Document) restore(s cursorState) {
	d.cursor = d.clampCursor(s.offset)
	d.sel = s.sel
	d.selActive = s.selActive
}

// commit records ev as the newest event, discarding any redo tail, and
// applies it.
func (d *Document) commit(ev Event) {
	before := d.state()
	d.log = d.log[:d.replay]
	d.apply(ev)
	d.log = append(d.log, entry{event: ev, before: before, after: d.state()})
	d.replay = len(d.log)
	d.bumpDirty()
}

// apply performs ev on the content and leaves the cursor after an insert or
// at the start of a removal. The selection is cleared.
func (d *Document) apply(ev Event) {
	if ev.inserts() {
		d.text = d.text.Insert(ev.Offset, ev.text())
		d.cursor = ev.Offset + ev.Len()
	} else {
		d.text = d.text.Delete(ev.Offset, ev.Offset+ev.Len())
		d.cursor = ev.Offset
	}
	d.cursor = d.clampCursor(d.cursor)
	d.selActive = false
	d.changeTick++
}

// Undo reverts the most recently applied event. It reports false when there
// is nothing to undo.
func (d *Document) Undo() bool {
	if d.replay == 0 {
		return false
	}
	e := d.log[d.replay-1]
	d.apply(e.event.Inverse())
	d.restore(e.before)
	d.replay--
	d.dropDirty()
	return true
}

// Redo reapplies the next undone event. It reports false when every event is
// already applied.
func (d *Document) Redo() bool {
	if d.replay == len(d.log) {
		return false
	}
	e := d.log[d.replay]
	d.apply(e.event)
	d.restore(e.after)
	d.replay++
	d.bumpDirty()
	return true
}

// CanUndo reports whether Undo would do anything.
func (d *Document) CanUndo() bool { return d.replay > 0 }

// CanRedo reports whether Redo would do anything.
func (d *Document) CanRedo() bool { return d.replay < len(d.log) }

// History returns a copy of the event log and the number of applied events.
func (d *Document) History() ([]Event, int) {
	events := make([]Event, len(d.log))
	for i, e := range d.log {
		events[i] = e.event
	}
	return events, d.replay
}

func (d *Document) bumpDirty() {
	if d.hasDirty {
		d.dirty++
		return
	}
	d.dirty = 1
	d.hasDirty = true
}

func (d *Document) dropDirty() {
	if !d.hasDirty {
		return
	}
	if d.dirty == 0 {
		d.hasDirty = false
		return
	}
	d.dirty--
}
