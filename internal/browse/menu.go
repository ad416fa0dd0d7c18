package browse

import "errors"

// MenuState is the state of one dropdown.
type MenuState int

const (
	Closed MenuState = iota
	Open
)

func (s MenuState) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Menu names accepted by Session.ToggleMenu.
const (
	MenuLanguage = "language"
	MenuCalendar = "calendar"
	MenuYears    = "years"
)

var ErrUnknownMenu = errors.New("unknown menu")

// Menu is a dropdown: a click on its trigger toggles it, a click outside closes it.
type Menu struct {
	state MenuState
}

// Toggle handles a click on the trigger and returns the new state.
func (m *Menu) Toggle() MenuState {
	if m.state == Open {
		m.state = Closed
	} else {
		m.state = Open
	}
	return m.state
}

// Dismiss handles a click outside the menu.
func (m *Menu) Dismiss() {
	m.state = Closed
}

// Close handles a selection inside the menu.
func (m *Menu) Close() {
	m.state = Closed
}

// State returns the current state.
func (m *Menu) State() MenuState {
	return m.state
}

// IsOpen reports whether the menu is open.
func (m *Menu) IsOpen() bool {
	return m.state == Open
}
