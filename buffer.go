package main

// BufferView is a read-only snapshot of a terminal display. Rows are
// addressed by absolute index: scrollback history first, then the live
// viewport, so an index keeps pointing at the same line no matter how far
// the display has scrolled since.
type BufferView interface {
	// CursorPos returns the cursor position in absolute coordinates.
	CursorPos() (row, col int)
	// Length returns the total number of addressable rows (history plus
	// viewport).
	Length() int
	// Line returns the text of a row with trailing whitespace trimmed.
	// Out-of-range rows read as empty.
	Line(row int) string
	// LineRange returns the text between two columns of a row. A negative
	// end means "to the end of the row".
	LineRange(row, from, to int) string
	// IsWrapped reports whether a row is a width-driven continuation of the
	// row above it rather than the start of a real line.
	IsWrapped(row int) bool
	// AltScreen reports whether a full-screen program owns the display.
	AltScreen() bool
}

// InputInjector transmits raw bytes to the process behind a display.
// Probing is its only consumer inside the extraction core.
type InputInjector interface {
	SendRawInput(input string) error
}

// DisplayMark is a persistent position handle issued by a display. It keeps
// tracking its row through scrolling and reports disposal once the row is
// evicted from history. Dispose is idempotent.
type DisplayMark interface {
	Row() int
	Disposed() bool
	Dispose()
}

// Display is the full host surface a session attaches to: a readable
// snapshot plus mark placement and row-advance notification.
type Display interface {
	BufferView
	// PlaceMark registers a persistent mark on an absolute row.
	PlaceMark(row int) DisplayMark
	// OnRowAdvance sets the single listener invoked (off the display's own
	// lock) whenever a new row opens at the bottom of the viewport. A nil
	// listener unsubscribes.
	OnRowAdvance(fn func(row int))
}

// CursorPosition is an absolute display position.
type CursorPosition struct {
	Row int
	Col int
}

// Before reports lexicographic order by (row, column).
func (p CursorPosition) Before(other CursorPosition) bool {
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}

// Boundary is a half-open command region between two positions.
type Boundary struct {
	Start CursorPosition
	End   CursorPosition
}

// Valid reports whether the boundary encloses at least one column. An equal
// or inverted pair means "no command".
func (b Boundary) Valid() bool {
	return b.Start.Before(b.End)
}
