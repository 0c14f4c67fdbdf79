package main

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// scanLookback caps how many logical lines the backward scan and the
// boundary expander will walk. Wrapped rows do not count against it.
const scanLookback = 40

// columnWidth returns the display width of text in terminal columns.
func columnWidth(text string) int {
	return runewidth.StringWidth(text)
}

// heuristicScan derives a command boundary without touching the session:
// backward from the cursor for the start (unless a marker seed supplies
// it), forward from the cursor for the end. The confidence reports how
// firmly the start is anchored: medium off a seed or a matched row, low
// off an assumption.
func heuristicScan(view BufferView, seed *CursorPosition) (Boundary, Confidence, error) {
	curRow, curCol := view.CursorPos()
	cursor := CursorPosition{Row: curRow, Col: curCol}

	var start CursorPosition
	conf := ConfidenceMedium
	if seed != nil && seed.Row <= cursor.Row {
		start = *seed
	} else {
		var ok bool
		start, conf, ok = scanBackward(view, cursor)
		if !ok {
			return Boundary{}, conf, errNoCommand
		}
	}

	b := Boundary{Start: start, End: scanForward(view, cursor)}
	if !b.Valid() {
		return Boundary{}, conf, errNoCommand
	}
	return b, conf, nil
}

// scanBackward walks up from the cursor row classifying each logical line
// until it can fix the command start.
func scanBackward(view BufferView, cursor CursorPosition) (CursorPosition, Confidence, bool) {
	row := cursor.Row
	examined := 0
	oldest := cursor.Row

	for row >= 0 && examined < scanLookback {
		// Wrapped rows are display continuations, not logical lines.
		if view.IsWrapped(row) {
			row--
			continue
		}
		text := view.Line(row)

		if m, ok := detectMainPrompt(text); ok {
			return CursorPosition{Row: row, Col: columnWidth(text[:m.Offset+m.Length])}, ConfidenceMedium, true
		}
		if detectContinuation(text) {
			oldest = row
			examined++
			row--
			continue
		}
		if looksLikeOutput(text) {
			// The command starts below this line, past any of its wrapped
			// continuations.
			j := row + 1
			for j <= cursor.Row && view.IsWrapped(j) {
				j++
			}
			if j > cursor.Row {
				return CursorPosition{}, ConfidenceLow, false
			}
			return CursorPosition{Row: j, Col: 0}, ConfidenceMedium, true
		}
		// A plain row that does not read like output is the top of the
		// command (a prompt without any glyph).
		return CursorPosition{Row: row, Col: 0}, ConfidenceLow, true
	}

	if row < 0 {
		return CursorPosition{Row: 0, Col: 0}, ConfidenceLow, true
	}
	// Lookback exhausted inside a continuation chain; settle for the oldest
	// continuation row reached.
	return CursorPosition{Row: oldest, Col: 0}, ConfidenceLow, true
}

// scanForward extends the boundary below the cursor: rows belong to the
// command while non-empty and not a fresh prompt. Blank rows are skipped
// without terminating the scan.
func scanForward(view BufferView, cursor CursorPosition) CursorPosition {
	endRow := cursor.Row
	total := view.Length()

	for j := cursor.Row + 1; j < total; j++ {
		text := view.Line(j)
		if strings.TrimSpace(text) == "" {
			continue
		}
		if !view.IsWrapped(j) {
			if _, ok := detectMainPrompt(text); ok {
				break
			}
		}
		endRow = j
	}

	endCol := columnWidth(view.Line(endRow))
	if endRow == cursor.Row && cursor.Col > endCol {
		endCol = cursor.Col
	}
	return CursorPosition{Row: endRow, Col: endCol}
}
