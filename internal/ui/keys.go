package ui

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// keyString renders ev in keymap notation: modifiers in the order
// ctrl, alt, shift, then the key name ("ctrl+shift+home", "shift+f3", "a").
// Plain printable runes are returned as themselves.
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	var base string

	switch ev.Key() {
	case tcell.KeyRune:
		r := ev.Rune()
		if mods&(tcell.ModCtrl|tcell.ModAlt) == 0 {
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		// Shift is already folded into the rune.
		mods &^= tcell.ModShift
		base = string(unicode.ToLower(r))
		if r == ' ' {
			base = "space"
		}
	// These share codes with ctrl+i, ctrl+m, ctrl+h and ctrl+[ and must be
	// matched before the ctrl letters.
	case tcell.KeyTab:
		base = "tab"
	case tcell.KeyBacktab:
		base = "tab"
		mods |= tcell.ModShift
	case tcell.KeyEnter:
		base = "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		base = "backspace"
	case tcell.KeyEscape:
		base = "esc"
	default:
		if letter := ctrlLetter(ev.Key()); letter != "" {
			base = letter
			mods |= tcell.ModCtrl
		} else {
			base = namedKey(ev.Key())
		}
	}
	if base == "" {
		return ""
	}

	var b strings.Builder
	if mods&tcell.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if mods&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if mods&tcell.ModShift != 0 {
		b.WriteString("shift+")
	}
	b.WriteString(base)
	return b.String()
}

func ctrlLetter(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return string(rune('a' + int(key-tcell.KeyCtrlA)))
	}
	return ""
}

func namedKey(key tcell.Key) string {
	switch key {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyInsert:
		return "ins"
	case tcell.KeyF1:
		return "f1"
	case tcell.KeyF2:
		return "f2"
	case tcell.KeyF3:
		return "f3"
	case tcell.KeyF4:
		return "f4"
	case tcell.KeyF5:
		return "f5"
	case tcell.KeyF6:
		return "f6"
	case tcell.KeyF7:
		return "f7"
	case tcell.KeyF8:
		return "f8"
	case tcell.KeyF9:
		return "f9"
	case tcell.KeyF10:
		return "f10"
	case tcell.KeyF11:
		return "f11"
	case tcell.KeyF12:
		return "f12"
	}
	return ""
}
