package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

func (e *Editor) startPrompt(kind promptKind, initial string) {
	e.prompt = kind
	e.input = []rune(initial)
	e.status = ""
}

func (e *Editor) promptLabel() string {
	switch e.prompt {
	case promptFind:
		label := "find"
		if e.caseSensitive {
			label += " [Aa]"
		}
		return label + ": "
	case promptOpen:
		return "open: "
	}
	return ""
}

func (e *Editor) handlePrompt(ev *tcell.EventKey, key string) {
	switch key {
	case "esc":
		e.prompt = promptNone
		e.input = e.input[:0]
		return
	case "enter":
		kind, text := e.prompt, string(e.input)
		e.prompt = promptNone
		e.input = e.input[:0]
		e.submitPrompt(kind, text)
		return
	case "backspace":
		if len(e.input) > 0 {
			e.input = e.input[:len(e.input)-1]
		}
		return
	}
	if e.keymap[key] == actionToggleCase {
		e.caseSensitive = !e.caseSensitive
		return
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		e.input = append(e.input, ev.Rune())
	}
}

func (e *Editor) submitPrompt(kind promptKind, text string) {
	switch kind {
	case promptFind:
		if text == "" {
			return
		}
		e.needle = text
		e.findNext(true)
	case promptOpen:
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		e.Open(text)
	}
}
