package main

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/danielgatis/go-ansicode"
	"github.com/mattn/go-runewidth"
)

// defaultHistoryLimit caps how many scrolled-off rows a screen retains.
// Rows evicted past the cap dispose any marks placed on them.
const defaultHistoryLimit = 2000

const tabWidth = 8

// wideSpacer fills the cell behind a double-width rune so column arithmetic
// stays exact; renderers skip it.
const wideSpacer = rune(0)

type histRow struct {
	cells   []rune
	wrapped bool
}

// Screen is a server-side mirror of what the client terminal shows. It
// decodes the same byte stream the browser receives and keeps the state
// extraction needs but a plain text render loses: cursor position, per-row
// wrap flags, absolute row indexing across scrollback, and whether a
// full-screen program owns the display.
//
// Rows are addressed absolutely: index 0 is the first row the session ever
// produced. Scrolling moves rows from the viewport into history without
// changing their index, so marks placed on a row stay valid until the
// history cap evicts it.
type Screen struct {
	mu sync.Mutex

	rows, cols int
	cells      [][]rune
	wrapped    []bool

	cursorRow, cursorCol int
	savedRow, savedCol   int

	scrollTop, scrollBottom int // inclusive
	autowrap                bool

	alt bool
	// Primary grid stashed while the alternate screen is active.
	mainCells                  [][]rune
	mainWrapped                []bool
	mainCursorRow, mainCursorCol int

	history      []histRow
	historyLimit int
	evicted      int

	title      string
	titleStack []string
	workdir    string

	marks []*screenMark

	respond   func(string)
	onAdvance func(row int)

	decoder *ansicode.Decoder
}

// NewScreen creates a screen mirror with the given viewport dimensions.
func NewScreen(rows, cols int) *Screen {
	s := &Screen{
		rows:         rows,
		cols:         cols,
		scrollBottom: rows - 1,
		autowrap:     true,
		historyLimit: defaultHistoryLimit,
	}
	s.cells = make([][]rune, rows)
	s.wrapped = make([]bool, rows)
	for i := range s.cells {
		s.cells[i] = blankRow(cols)
	}
	s.decoder = ansicode.NewDecoder(s)
	return s
}

func blankRow(cols int) []rune {
	row := make([]rune, cols)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// SetResponder sets the writer used to answer terminal queries (cursor
// position reports and the like). Responses go back to the process, so the
// session host wires this to its pty input.
func (s *Screen) SetResponder(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.respond = fn
}

// SetHistoryLimit changes the scrollback cap and evicts immediately if the
// current history exceeds it.
func (s *Screen) SetHistoryLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	s.historyLimit = limit
	s.trimHistoryLocked()
}

// Write feeds raw session output through the ANSI decoder. Fires the
// row-advance listener (outside the lock) when the decode moved the cursor
// to a different absolute row.
func (s *Screen) Write(data []byte) (int, error) {
	s.mu.Lock()
	before := s.absCursorRowLocked()
	n, err := s.decoder.Write(data)
	advanced := -1
	if !s.alt {
		if after := s.absCursorRowLocked(); after != before {
			advanced = after
		}
	}
	fn := s.onAdvance
	s.mu.Unlock()

	if advanced >= 0 && fn != nil {
		fn(advanced)
	}
	return n, err
}

// WriteString feeds a string of raw session output into the mirror.
func (s *Screen) WriteString(data string) (int, error) {
	return s.Write([]byte(data))
}

func (s *Screen) absCursorRowLocked() int {
	return s.evicted + len(s.history) + s.cursorRow
}

// --- BufferView ---

// CursorPos returns the cursor in absolute coordinates.
func (s *Screen) CursorPos() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.absCursorRowLocked(), s.cursorCol
}

// Length returns the total number of addressable rows.
func (s *Screen) Length() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted + len(s.history) + s.rows
}

// Line returns a row's text with trailing whitespace trimmed.
func (s *Screen) Line(row int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimRight(renderCells(s.rowCellsLocked(row), 0, -1), " \t")
}

// LineRange returns a row's text between two columns, untrimmed. A
// negative end means the end of the row.
func (s *Screen) LineRange(row, from, to int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return renderCells(s.rowCellsLocked(row), from, to)
}

// IsWrapped reports whether a row continues the row above it.
func (s *Screen) IsWrapped(row int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < s.evicted {
		return false
	}
	if h := row - s.evicted; h < len(s.history) {
		return s.history[h].wrapped
	}
	if v := row - s.evicted - len(s.history); v >= 0 && v < s.rows {
		return s.wrapped[v]
	}
	return false
}

// AltScreen reports whether the alternate screen buffer is active.
func (s *Screen) AltScreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alt
}

func (s *Screen) rowCellsLocked(row int) []rune {
	if row < s.evicted {
		return nil
	}
	if h := row - s.evicted; h < len(s.history) {
		return s.history[h].cells
	}
	if v := row - s.evicted - len(s.history); v >= 0 && v < s.rows {
		return s.cells[v]
	}
	return nil
}

func renderCells(cells []rune, from, to int) string {
	if cells == nil {
		return ""
	}
	if to < 0 || to > len(cells) {
		to = len(cells)
	}
	if from < 0 {
		from = 0
	}
	if from >= to {
		return ""
	}
	var sb strings.Builder
	for _, r := range cells[from:to] {
		if r == wideSpacer {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// --- Display ---

type screenMark struct {
	s        *Screen
	absRow   int
	disposed bool
}

func (m *screenMark) Row() int { return m.absRow }

func (m *screenMark) Disposed() bool {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.disposed
}

func (m *screenMark) Dispose() {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.disposed {
		return
	}
	m.disposed = true
	live := m.s.marks[:0]
	for _, other := range m.s.marks {
		if other != m {
			live = append(live, other)
		}
	}
	m.s.marks = live
}

// PlaceMark registers a persistent mark on an absolute row. A mark on an
// already-evicted row is issued pre-disposed.
func (s *Screen) PlaceMark(row int) DisplayMark {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &screenMark{s: s, absRow: row}
	if row < s.evicted {
		m.disposed = true
		return m
	}
	s.marks = append(s.marks, m)
	return m
}

// OnRowAdvance sets the row-advance listener. Nil unsubscribes.
func (s *Screen) OnRowAdvance(fn func(row int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdvance = fn
}

// --- Rendering and geometry ---

// String renders the visible screen as plain text: trailing whitespace
// trimmed per line, trailing blank lines dropped.
func (s *Screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, s.rows)
	last := -1
	for i := 0; i < s.rows; i++ {
		lines[i] = strings.TrimRight(renderCells(s.cells[i], 0, -1), " \t")
		if lines[i] != "" {
			last = i
		}
	}
	if last < 0 {
		return ""
	}
	return strings.Join(lines[:last+1], "\n")
}

// Title returns the window title set by the session, if any.
func (s *Screen) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// WorkingDirectory returns the directory advertised via OSC 7, stripped of
// its file:// scheme and host.
func (s *Screen) WorkingDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := s.workdir
	if rest, ok := strings.CutPrefix(dir, "file://"); ok {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return rest[i:]
		}
		return "/"
	}
	return dir
}

// Resize changes the viewport dimensions. Content is truncated or padded
// in place; history rows are not rewrapped.
func (s *Screen) Resize(rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rows < 1 || cols < 1 {
		return
	}
	s.cells, s.wrapped = resizeGrid(s.cells, s.wrapped, rows, cols)
	if s.mainCells != nil {
		s.mainCells, s.mainWrapped = resizeGrid(s.mainCells, s.mainWrapped, rows, cols)
	}
	s.rows, s.cols = rows, cols
	s.scrollTop, s.scrollBottom = 0, rows-1
	s.cursorRow = clamp(s.cursorRow, 0, rows-1)
	s.cursorCol = clamp(s.cursorCol, 0, cols-1)
}

func resizeGrid(cells [][]rune, wrapped []bool, rows, cols int) ([][]rune, []bool) {
	next := make([][]rune, rows)
	flags := make([]bool, rows)
	for i := 0; i < rows; i++ {
		next[i] = blankRow(cols)
		if i < len(cells) {
			copy(next[i], cells[i])
			flags[i] = wrapped[i]
		}
	}
	return next, flags
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- Scrolling ---

// scrollUpLocked shifts the region up n rows. Rows leaving the top of a
// full-screen region on the primary buffer go to history; region scrolls
// and the alternate screen discard them.
func (s *Screen) scrollUpLocked(top, bottom, n int, toHistory bool) {
	if n < 1 {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	keep := toHistory && !s.alt && top == 0 && bottom == s.rows-1
	for i := 0; i < n; i++ {
		leaving := s.cells[top]
		if keep {
			s.pushHistoryLocked(leaving, s.wrapped[top])
		}
		copy(s.cells[top:bottom], s.cells[top+1:bottom+1])
		copy(s.wrapped[top:bottom], s.wrapped[top+1:bottom+1])
		s.cells[bottom] = blankRow(s.cols)
		s.wrapped[bottom] = false
	}
}

func (s *Screen) scrollDownLocked(top, bottom, n int) {
	if n < 1 {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	for i := 0; i < n; i++ {
		copy(s.cells[top+1:bottom+1], s.cells[top:bottom])
		copy(s.wrapped[top+1:bottom+1], s.wrapped[top:bottom])
		s.cells[top] = blankRow(s.cols)
		s.wrapped[top] = false
	}
}

func (s *Screen) pushHistoryLocked(cells []rune, wrapped bool) {
	s.history = append(s.history, histRow{cells: cells, wrapped: wrapped})
	s.trimHistoryLocked()
}

func (s *Screen) trimHistoryLocked() {
	n := len(s.history) - s.historyLimit
	if n <= 0 {
		return
	}
	s.history = s.history[n:]
	s.evicted += n
	if cap(s.history) > 2*s.historyLimit+s.rows {
		s.history = append([]histRow(nil), s.history...)
	}
	s.sweepMarksLocked()
}

func (s *Screen) sweepMarksLocked() {
	live := s.marks[:0]
	for _, m := range s.marks {
		if m.absRow < s.evicted {
			m.disposed = true
			continue
		}
		live = append(live, m)
	}
	s.marks = live
}

// lineFeedLocked moves the cursor down one row, scrolling only when it
// sits on the region's bottom margin.
func (s *Screen) lineFeedLocked() {
	switch {
	case s.cursorRow == s.scrollBottom:
		s.scrollUpLocked(s.scrollTop, s.scrollBottom, 1, true)
	case s.cursorRow < s.rows-1:
		s.cursorRow++
	}
}

// --- ansicode.Handler ---
// Callbacks run synchronously under Write's lock; they touch state
// directly. Sequences with no bearing on extraction are explicit no-ops.

// Input writes one printable rune at the cursor, wrapping at the right
// margin. The row a wrap opens is flagged as a continuation.
func (s *Screen) Input(r rune) {
	width := runewidth.RuneWidth(r)
	if width == 0 {
		return
	}
	if s.cursorCol+width > s.cols {
		if !s.autowrap {
			s.cursorCol = s.cols - width
		} else {
			s.lineFeedLocked()
			s.cursorCol = 0
			s.wrapped[s.cursorRow] = true
		}
	}
	row := s.cells[s.cursorRow]
	row[s.cursorCol] = r
	if width == 2 && s.cursorCol+1 < s.cols {
		row[s.cursorCol+1] = wideSpacer
	}
	s.cursorCol += width
	if s.cursorCol > s.cols {
		s.cursorCol = s.cols
	}
}

// LineFeed moves down one row. Wrap flags are left alone: a scroll blanks
// the flag of the row it opens, and rows reached without scrolling keep
// describing the content still on them.
func (s *Screen) LineFeed() {
	s.lineFeedLocked()
}

func (s *Screen) CarriageReturn() {
	s.cursorCol = 0
}

func (s *Screen) Backspace() {
	if s.cursorCol > 0 {
		s.cursorCol--
	}
}

func (s *Screen) Bell() {}

func (s *Screen) Goto(row, col int) {
	s.cursorRow = clamp(row, 0, s.rows-1)
	s.cursorCol = clamp(col, 0, s.cols-1)
}

func (s *Screen) GotoCol(col int) {
	s.cursorCol = clamp(col, 0, s.cols-1)
}

func (s *Screen) GotoLine(row int) {
	s.cursorRow = clamp(row, 0, s.rows-1)
}

func (s *Screen) MoveUp(n int) {
	s.cursorRow = clamp(s.cursorRow-n, 0, s.rows-1)
}

func (s *Screen) MoveDown(n int) {
	s.cursorRow = clamp(s.cursorRow+n, 0, s.rows-1)
}

func (s *Screen) MoveForward(n int) {
	s.cursorCol = clamp(s.cursorCol+n, 0, s.cols-1)
}

func (s *Screen) MoveBackward(n int) {
	s.cursorCol = clamp(s.cursorCol-n, 0, s.cols-1)
}

func (s *Screen) MoveUpCr(n int) {
	s.MoveUp(n)
	s.cursorCol = 0
}

func (s *Screen) MoveDownCr(n int) {
	s.MoveDown(n)
	s.cursorCol = 0
}

func (s *Screen) Tab(n int) {
	for i := 0; i < n; i++ {
		s.cursorCol = clamp((s.cursorCol/tabWidth+1)*tabWidth, 0, s.cols-1)
	}
}

func (s *Screen) MoveForwardTabs(n int) {
	s.Tab(n)
}

func (s *Screen) MoveBackwardTabs(n int) {
	for i := 0; i < n; i++ {
		if s.cursorCol == 0 {
			break
		}
		s.cursorCol = ((s.cursorCol - 1) / tabWidth) * tabWidth
	}
}

func (s *Screen) HorizontalTabSet() {}

func (s *Screen) ClearTabs(mode ansicode.TabulationClearMode) {}

func (s *Screen) ClearLine(mode ansicode.LineClearMode) {
	row := s.cells[s.cursorRow]
	switch mode {
	case ansicode.LineClearModeRight:
		fillBlank(row, s.cursorCol, s.cols)
		// "\r\x1b[K" is how shells repaint a line; a full erase means the
		// row no longer continues anything.
		if s.cursorCol == 0 {
			s.wrapped[s.cursorRow] = false
		}
	case ansicode.LineClearModeLeft:
		fillBlank(row, 0, s.cursorCol+1)
	case ansicode.LineClearModeAll:
		fillBlank(row, 0, s.cols)
		s.wrapped[s.cursorRow] = false
	}
}

func (s *Screen) ClearScreen(mode ansicode.ClearMode) {
	switch mode {
	case ansicode.ClearModeBelow:
		fillBlank(s.cells[s.cursorRow], s.cursorCol, s.cols)
		for r := s.cursorRow + 1; r < s.rows; r++ {
			fillBlank(s.cells[r], 0, s.cols)
			s.wrapped[r] = false
		}
	case ansicode.ClearModeAbove:
		for r := 0; r < s.cursorRow; r++ {
			fillBlank(s.cells[r], 0, s.cols)
			s.wrapped[r] = false
		}
		fillBlank(s.cells[s.cursorRow], 0, s.cursorCol+1)
	case ansicode.ClearModeAll:
		for r := 0; r < s.rows; r++ {
			fillBlank(s.cells[r], 0, s.cols)
			s.wrapped[r] = false
		}
	case ansicode.ClearModeSaved:
		// CSI 3 J drops the scrollback, disposing every mark on it.
		s.evicted += len(s.history)
		s.history = nil
		s.sweepMarksLocked()
	}
}

func fillBlank(row []rune, from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(row) {
		to = len(row)
	}
	for i := from; i < to; i++ {
		row[i] = ' '
	}
}

func (s *Screen) EraseChars(n int) {
	fillBlank(s.cells[s.cursorRow], s.cursorCol, s.cursorCol+n)
}

func (s *Screen) DeleteChars(n int) {
	row := s.cells[s.cursorRow]
	if n > s.cols-s.cursorCol {
		n = s.cols - s.cursorCol
	}
	copy(row[s.cursorCol:], row[s.cursorCol+n:])
	fillBlank(row, s.cols-n, s.cols)
}

func (s *Screen) InsertBlank(n int) {
	row := s.cells[s.cursorRow]
	if n > s.cols-s.cursorCol {
		n = s.cols - s.cursorCol
	}
	copy(row[s.cursorCol+n:], row[s.cursorCol:])
	fillBlank(row, s.cursorCol, s.cursorCol+n)
}

func (s *Screen) InsertBlankLines(n int) {
	if s.cursorRow < s.scrollTop || s.cursorRow > s.scrollBottom {
		return
	}
	s.scrollDownLocked(s.cursorRow, s.scrollBottom, n)
}

func (s *Screen) DeleteLines(n int) {
	if s.cursorRow < s.scrollTop || s.cursorRow > s.scrollBottom {
		return
	}
	s.scrollUpLocked(s.cursorRow, s.scrollBottom, n, false)
}

func (s *Screen) ScrollUp(n int) {
	s.scrollUpLocked(s.scrollTop, s.scrollBottom, n, false)
}

func (s *Screen) ScrollDown(n int) {
	s.scrollDownLocked(s.scrollTop, s.scrollBottom, n)
}

// SetScrollingRegion receives 1-based margins from the decoder.
func (s *Screen) SetScrollingRegion(top, bottom int) {
	top--
	bottom--
	if top < 0 {
		top = 0
	}
	if bottom < 0 || bottom > s.rows-1 {
		bottom = s.rows - 1
	}
	if top >= bottom {
		return
	}
	s.scrollTop = top
	s.scrollBottom = bottom
	s.cursorRow = 0
	s.cursorCol = 0
}

func (s *Screen) ReverseIndex() {
	if s.cursorRow == s.scrollTop {
		s.scrollDownLocked(s.scrollTop, s.scrollBottom, 1)
	} else if s.cursorRow > 0 {
		s.cursorRow--
	}
}

func (s *Screen) SaveCursorPosition() {
	s.savedRow, s.savedCol = s.cursorRow, s.cursorCol
}

func (s *Screen) RestoreCursorPosition() {
	s.cursorRow = clamp(s.savedRow, 0, s.rows-1)
	s.cursorCol = clamp(s.savedCol, 0, s.cols-1)
}

func (s *Screen) ResetState() {
	for r := 0; r < s.rows; r++ {
		fillBlank(s.cells[r], 0, s.cols)
		s.wrapped[r] = false
	}
	s.cursorRow, s.cursorCol = 0, 0
	s.savedRow, s.savedCol = 0, 0
	s.scrollTop, s.scrollBottom = 0, s.rows-1
	s.autowrap = true
}

func (s *Screen) Decaln() {
	for r := 0; r < s.rows; r++ {
		row := s.cells[r]
		for i := range row {
			row[i] = 'E'
		}
	}
	s.cursorRow, s.cursorCol = 0, 0
}

func (s *Screen) Substitute() {
	if s.cursorCol < s.cols {
		s.cells[s.cursorRow][s.cursorCol] = '?'
	}
}

func (s *Screen) SetMode(mode ansicode.TerminalMode) {
	switch mode {
	case ansicode.TerminalModeLineWrap:
		s.autowrap = true
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		s.enterAltLocked()
	}
}

func (s *Screen) UnsetMode(mode ansicode.TerminalMode) {
	switch mode {
	case ansicode.TerminalModeLineWrap:
		s.autowrap = false
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		s.exitAltLocked()
	}
}

func (s *Screen) enterAltLocked() {
	if s.alt {
		return
	}
	s.alt = true
	s.mainCells, s.mainWrapped = s.cells, s.wrapped
	s.mainCursorRow, s.mainCursorCol = s.cursorRow, s.cursorCol
	s.cells = make([][]rune, s.rows)
	s.wrapped = make([]bool, s.rows)
	for i := range s.cells {
		s.cells[i] = blankRow(s.cols)
	}
	s.cursorRow, s.cursorCol = 0, 0
}

func (s *Screen) exitAltLocked() {
	if !s.alt {
		return
	}
	s.alt = false
	s.cells, s.wrapped = s.mainCells, s.mainWrapped
	s.cursorRow = clamp(s.mainCursorRow, 0, s.rows-1)
	s.cursorCol = clamp(s.mainCursorCol, 0, s.cols-1)
	s.mainCells, s.mainWrapped = nil, nil
}

func (s *Screen) DeviceStatus(n int) {
	switch n {
	case 5:
		s.respondLocked("\x1b[0n")
	case 6:
		// Cursor position report, 1-based, viewport-relative.
		s.respondLocked(fmt.Sprintf("\x1b[%d;%dR", s.cursorRow+1, s.cursorCol+1))
	}
}

func (s *Screen) IdentifyTerminal(b byte) {
	s.respondLocked("\x1b[?62;c")
}

func (s *Screen) TextAreaSizeChars() {
	s.respondLocked(fmt.Sprintf("\x1b[8;%d;%dt", s.rows, s.cols))
}

func (s *Screen) TextAreaSizePixels() {
	s.respondLocked(fmt.Sprintf("\x1b[4;%d;%dt", s.rows*20, s.cols*10))
}

func (s *Screen) CellSizePixels() {
	s.respondLocked("\x1b[6;20;10t")
}

func (s *Screen) respondLocked(resp string) {
	if s.respond != nil {
		s.respond(resp)
	}
}

func (s *Screen) SetTitle(title string) {
	s.title = title
}

func (s *Screen) PushTitle() {
	s.titleStack = append(s.titleStack, s.title)
}

func (s *Screen) PopTitle() {
	if n := len(s.titleStack); n > 0 {
		s.title = s.titleStack[n-1]
		s.titleStack = s.titleStack[:n-1]
	}
}

func (s *Screen) SetWorkingDirectory(uri string) {
	s.workdir = uri
}

// The remaining callbacks carry styling, charset, keyboard, and media
// state the mirror does not model.

func (s *Screen) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {}

func (s *Screen) SetActiveCharset(n int) {}

func (s *Screen) SetColor(index int, c color.Color) {}

func (s *Screen) ResetColor(i int) {}

func (s *Screen) SetDynamicColor(prefix string, index int, terminator string) {}

func (s *Screen) SetCursorStyle(style ansicode.CursorStyle) {}

func (s *Screen) SetHyperlink(hyperlink *ansicode.Hyperlink) {}

func (s *Screen) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {}

func (s *Screen) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {}

func (s *Screen) PushKeyboardMode(mode ansicode.KeyboardMode) {}

func (s *Screen) PopKeyboardMode(n int) {}

func (s *Screen) ReportKeyboardMode() {
	s.respondLocked("\x1b[?0u")
}

func (s *Screen) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {}

func (s *Screen) ReportModifyOtherKeys() {
	s.respondLocked("\x1b[>4;0m")
}

func (s *Screen) SetKeypadApplicationMode() {}

func (s *Screen) UnsetKeypadApplicationMode() {}

func (s *Screen) ClipboardStore(clipboard byte, data []byte) {}

func (s *Screen) ClipboardLoad(clipboard byte, terminator string) {}

func (s *Screen) ApplicationCommandReceived(data []byte) {}

func (s *Screen) PrivacyMessageReceived(data []byte) {}

func (s *Screen) StartOfStringReceived(data []byte) {}

func (s *Screen) SixelReceived(params [][]uint16, data []byte) {}

func (s *Screen) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {}
