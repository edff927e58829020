package ui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/notepadmm/internal/config"
	"github.com/kobzarvs/notepadmm/internal/document"
	"github.com/kobzarvs/notepadmm/internal/syntax"
)

type styles struct {
	main             tcell.Style
	status           tcell.Style
	prompt           tcell.Style
	tab              tcell.Style
	tabActive        tcell.Style
	lineNumber       tcell.Style
	lineNumberActive tcell.Style
	selection        tcell.Style
	diffAdd          tcell.Style
	diffDel          tcell.Style
	syntax           map[string]tcell.Style
}

func newStyles(t config.Theme) styles {
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	statusFg := parseColor(t.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(t.StatuslineBackground, tcell.ColorGray)
	fg := func(c string) tcell.Style {
		return tcell.StyleDefault.Foreground(parseColor(c, mainFg)).Background(mainBg)
	}
	return styles{
		main:   tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		status: tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		prompt: tcell.StyleDefault.
			Foreground(parseColor(t.PromptForeground, statusFg)).
			Background(parseColor(t.PromptBackground, statusBg)),
		tab: tcell.StyleDefault.
			Foreground(parseColor(t.TabForeground, statusFg)).
			Background(parseColor(t.TabBackground, statusBg)),
		tabActive: tcell.StyleDefault.
			Foreground(parseColor(t.TabActiveForeground, mainBg)).
			Background(parseColor(t.TabActiveBackground, mainFg)),
		lineNumber:       tcell.StyleDefault.Foreground(parseColor(t.LineNumberForeground, tcell.ColorGray)).Background(mainBg),
		lineNumberActive: fg(t.LineNumberActiveForeground),
		selection: tcell.StyleDefault.
			Foreground(parseColor(t.SelectionForeground, mainFg)).
			Background(parseColor(t.SelectionBackground, tcell.ColorNavy)),
		diffAdd: tcell.StyleDefault.Foreground(parseColor(t.SyntaxString, statusFg)).Background(statusBg),
		diffDel: tcell.StyleDefault.Foreground(parseColor(t.SyntaxKeyword, statusFg)).Background(statusBg),
		syntax: map[string]tcell.Style{
			"keyword":     fg(t.SyntaxKeyword),
			"string":      fg(t.SyntaxString),
			"comment":     fg(t.SyntaxComment),
			"type":        fg(t.SyntaxType),
			"function":    fg(t.SyntaxFunction),
			"number":      fg(t.SyntaxNumber),
			"constant":    fg(t.SyntaxConstant),
			"operator":    fg(t.SyntaxOperator),
			"punctuation": fg(t.SyntaxPunctuation),
			"field":       fg(t.SyntaxField),
			"builtin":     fg(t.SyntaxBuiltin),
			"variable":    fg(t.SyntaxVariable),
			"parameter":   fg(t.SyntaxVariable),
		},
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

// runeCells is the number of terminal cells r occupies when it starts at
// visual column col.
func runeCells(r rune, col, tabWidth int) int {
	if r == '\t' {
		return tabWidth - col%tabWidth
	}
	return max(runewidth.RuneWidth(r), 1)
}

// visualCol converts a rune column into a display column, expanding tabs
// and counting wide runes as two cells.
func visualCol(line []rune, col, tabWidth int) int {
	col = min(max(col, 0), len(line))
	x := 0
	for _, r := range line[:col] {
		x += runeCells(r, x, tabWidth)
	}
	return x
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
	return x
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for len(line) < width-len(rightRunes) {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func (e *Editor) gutterWidth(d *document.Document) int {
	if !e.lineNumbers {
		return 0
	}
	digits := max(len(strconv.Itoa(d.LineCount())), 2)
	return 1 + digits + 1
}

// Render draws the tab bar, the active document, the status line and the
// message line, then positions the terminal cursor.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.SetStyle(e.styles.main)
	s.Clear()

	const tabY = 0
	statusY := h - 2
	msgY := h - 1
	e.viewHeight = max(h-3, 0)

	e.renderTabs(s, w, tabY)

	d, ok := e.reg.Active()
	cursorX, cursorY, cursorVisible := 0, 0, false
	if ok {
		cursorX, cursorY, cursorVisible = e.renderDocument(s, d, w, tabY+1)
	} else if e.viewHeight > 0 {
		drawText(s, 1, tabY+1, w, "no file open, press ctrl+o to open one", e.styles.lineNumber)
	}
	switch {
	case e.showHistory && ok:
		e.renderHistory(s, d, w, tabY+1)
	case e.showDiff && ok:
		e.renderDiff(s, d, w, tabY+1)
	}
	if statusY > tabY {
		e.renderStatusline(s, d, ok, w, statusY)
	}
	if msgY > statusY {
		if x, shown := e.renderMessageLine(s, w, msgY); shown {
			cursorX, cursorY, cursorVisible = x, msgY, true
		}
	}

	if cursorVisible && cursorX < w {
		s.ShowCursor(cursorX, cursorY)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (e *Editor) renderTabs(s tcell.Screen, w, y int) {
	clearLine(s, y, w, e.styles.tab)
	active := e.reg.ActivePath()
	x := 0
	for _, path := range e.reg.Paths() {
		label := " " + filepath.Base(path)
		if d, ok := e.reg.Get(path); ok && d.Modified() {
			label += "*"
		}
		label += " "
		style := e.styles.tab
		if path == active {
			style = e.styles.tabActive
		}
		x = drawText(s, x, y, w, label, style)
		if x >= w {
			return
		}
	}
}

func (e *Editor) ensureCursorVisible(v *view, line, col int) {
	if e.viewHeight > 0 {
		if line < v.top {
			v.top = line
		} else if line >= v.top+e.viewHeight {
			v.top = line - e.viewHeight + 1
		}
	}
	if e.textWidth > 0 {
		if col < v.left {
			v.left = col
		} else if col >= v.left+e.textWidth {
			v.left = col - e.textWidth + 1
		}
	}
}

func (e *Editor) refreshHighlights(d *document.Document) {
	if e.hl == nil {
		return
	}
	if !e.hl.Current(d.Path(), d.ChangeTick()) {
		e.hl.Parse(d.Path(), d.Text(), d.ChangeTick())
	}
}

func (e *Editor) renderDocument(s tcell.Screen, d *document.Document, w, y0 int) (int, int, bool) {
	gutter := e.gutterWidth(d)
	e.textWidth = max(w-gutter, 0)
	v := e.viewFor(d.Path())
	caret := d.Caret()
	caretLine := []rune(d.Line(caret.Line))
	cursorVX := visualCol(caretLine, caret.Column, e.tabWidth)
	e.ensureCursorVisible(v, caret.Line, cursorVX)

	e.refreshHighlights(d)
	var hl map[int][]syntax.Span
	if e.hl != nil && e.viewHeight > 0 {
		hl = e.hl.Highlights(d.Path(), v.top, v.top+e.viewHeight-1)
	}

	for row := 0; row < e.viewHeight; row++ {
		line := v.top + row
		if line >= d.LineCount() {
			break
		}
		e.drawGutter(s, y0+row, gutter, line, caret.Line)
		e.drawLine(s, d, y0+row, w, gutter, line, v.left, hl[line])
	}

	cy := y0 + caret.Line - v.top
	cx := gutter + cursorVX - v.left
	visible := cy >= y0 && cy < y0+e.viewHeight && cx >= gutter && cx < w
	return cx, cy, visible
}

func (e *Editor) drawGutter(s tcell.Screen, y, gutter, line, caretLine int) {
	if gutter == 0 {
		return
	}
	style := e.styles.lineNumber
	if line == caretLine {
		style = e.styles.lineNumberActive
	}
	num := fmt.Sprintf(" %*d ", gutter-2, line+1)
	drawText(s, 0, y, gutter, num, style)
}

func spanStyle(spans []syntax.Span, col int, styles map[string]tcell.Style, fallback tcell.Style) tcell.Style {
	style := fallback
	for _, sp := range spans {
		if col >= sp.StartCol && col < sp.EndCol {
			if st, ok := styles[sp.Kind]; ok {
				style = st
			}
		}
	}
	return style
}

func (e *Editor) drawLine(s tcell.Screen, d *document.Document, y, w, gutter, line, left int, spans []syntax.Span) {
	runes := []rune(d.Line(line))
	selStart, selEnd, hasSel := d.LineSelection(line)
	inSel := func(col int) bool { return hasSel && col >= selStart && col < selEnd }

	vx := 0
	for col, r := range runes {
		cells := runeCells(r, vx, e.tabWidth)
		style := spanStyle(spans, col, e.styles.syntax, e.styles.main)
		if inSel(col) {
			style = e.styles.selection
		}
		x := gutter + vx - left
		vx += cells
		if x < gutter {
			continue
		}
		if x >= w {
			return
		}
		if r == '\t' {
			for i := 0; i < cells && x+i < w; i++ {
				s.SetContent(x+i, y, ' ', nil, style)
			}
			continue
		}
		s.SetContent(x, y, r, nil, style)
	}
	// A selected terminator is shown as one highlighted cell past the text.
	if inSel(len(runes)) {
		if x := gutter + vx - left; x >= gutter && x < w {
			s.SetContent(x, y, ' ', nil, e.styles.selection)
		}
	}
}

// panel clears a box on the right side of the text area and returns its
// left edge, or false when the window is too small for one.
func (e *Editor) panel(s tcell.Screen, w, y0 int) (int, bool) {
	width := min(40, w/2)
	if width < 12 || e.viewHeight < 2 {
		return 0, false
	}
	x0 := w - width
	for row := 0; row < e.viewHeight; row++ {
		for x := x0; x < w; x++ {
			s.SetContent(x, y0+row, ' ', nil, e.styles.status)
		}
	}
	return x0, true
}

func (e *Editor) renderHistory(s tcell.Screen, d *document.Document, w, y0 int) {
	x0, ok := e.panel(s, w, y0)
	if !ok {
		return
	}
	events, applied := d.History()
	drawText(s, x0+1, y0, w, fmt.Sprintf("history %d/%d", applied, len(events)), e.styles.status)

	rows := e.viewHeight - 1
	first := max(len(events)-rows, 0)
	for i := first; i < len(events); i++ {
		style := e.styles.status
		if i >= applied {
			style = e.styles.lineNumber
		}
		drawText(s, x0+1, y0+1+i-first, w, fmt.Sprintf("[#%d]: %s", i, events[i]), style)
	}
}

// diffLines returns the hunks of the active document's diff against disk,
// recomputed when the document or its content changes.
func (e *Editor) diffLines(d *document.Document) ([]string, error) {
	c := &e.diff
	if c.valid && c.path == d.Path() && c.tick == d.ChangeTick() {
		return c.lines, c.err
	}
	text, err := d.DiffOnDisk()
	*c = diffCache{path: d.Path(), tick: d.ChangeTick(), valid: true, err: err}
	c.added, c.removed = document.DiffStat(text)
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") {
			continue
		}
		c.lines = append(c.lines, line)
	}
	return c.lines, c.err
}

func (e *Editor) renderDiff(s tcell.Screen, d *document.Document, w, y0 int) {
	x0, ok := e.panel(s, w, y0)
	if !ok {
		return
	}
	lines, err := e.diffLines(d)
	switch {
	case err != nil:
		drawText(s, x0+1, y0, w, "diff: "+err.Error(), e.styles.status)
		return
	case len(lines) == 0:
		drawText(s, x0+1, y0, w, "no changes vs disk", e.styles.status)
		return
	}
	drawText(s, x0+1, y0, w, fmt.Sprintf("vs disk +%d -%d", e.diff.added, e.diff.removed), e.styles.status)
	for i, line := range lines {
		if i >= e.viewHeight-1 {
			break
		}
		style := e.styles.status
		switch line[0] {
		case '+':
			style = e.styles.diffAdd
		case '-':
			style = e.styles.diffDel
		}
		drawText(s, x0+1, y0+1+i, w, line, style)
	}
}

func (e *Editor) renderStatusline(s tcell.Screen, d *document.Document, ok bool, w, y int) {
	left := " [No File] "
	right := ""
	if ok {
		name := filepath.Base(d.Path())
		if d.Modified() {
			name += "*"
		}
		left = " " + name
		switch d.Origin() {
		case document.OriginNew:
			left += " [new]"
		case document.OriginLossy:
			left += " [lossy]"
		}
		if b := e.branch(d.Path()); b != "" {
			left += " git:" + b
		}
		left += " "
		c := d.Caret()
		col := visualCol([]rune(d.Line(c.Line)), c.Column, e.tabWidth)
		right = fmt.Sprintf(" Ln %d, Col %d ", c.Line+1, col+1)
	}
	if e.caseSensitive {
		right = " Aa |" + right
	}
	line := composeStatusLine(left, right, w)
	for x, r := range line {
		s.SetContent(x, y, r, nil, e.styles.status)
	}
}

// renderMessageLine draws the prompt or the last status message. It returns
// the cursor column when a prompt is active.
func (e *Editor) renderMessageLine(s tcell.Screen, w, y int) (int, bool) {
	clearLine(s, y, w, e.styles.prompt)
	if e.prompt == promptNone {
		drawText(s, 0, y, w, e.status, e.styles.prompt)
		return 0, false
	}
	x := drawText(s, 0, y, w, e.promptLabel(), e.styles.prompt)
	x = drawText(s, x, y, w, string(e.input), e.styles.prompt)
	return min(x, w-1), true
}
