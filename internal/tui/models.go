package tui

type View int

const (
	ViewSearch View = iota
	ViewDetail
)

// Focus is the search view element receiving keys.
type Focus int

const (
	FocusSource Focus = iota
	FocusContains
	FocusButton
	FocusResults
	focusCount
)

func (f Focus) next() Focus { return (f + 1) % focusCount }

func (f Focus) prev() Focus { return (f + focusCount - 1) % focusCount }
