package ui

import (
	"unicode/utf8"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-milestone/internal/config"
)

// DateEntry is an Entry that only accepts the characters of a YYYY-MM-DD date.
// Full-width digits and dashes typed through a Japanese IME are accepted too;
// the engine narrows them before parsing.
type DateEntry struct {
	widget.Entry
}

// NewDateEntry creates a new instance of DateEntry.
func NewDateEntry() *DateEntry {
	entry := &DateEntry{}
	entry.ExtendBaseWidget(entry)
	entry.PlaceHolder = config.DatePlaceholder
	return entry
}

// TypedRune drops anything that cannot appear in a date and stops input
// once the field holds a full date. Pasted text bypasses this filter and is
// handled by the calculator's validation instead.
func (e *DateEntry) TypedRune(r rune) {
	if !isDateRune(r) || utf8.RuneCountInString(e.Text) >= config.DateEntryMaxLen {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests a numeric keypad on mobile devices.
func (e *DateEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

func isDateRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r == '-':
		return true
	case r >= '０' && r <= '９', r == '－':
		return true
	default:
		return false
	}
}
