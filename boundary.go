package main

import "strings"

// expandBoundary widens a boundary backward across explicit line
// continuations: each immediately preceding row whose trimmed text ends in
// a backslash pulls the start up one logical line. A trailing backslash
// inside quoted text is indistinguishable from a continuation marker here;
// such rows are absorbed too.
func expandBoundary(view BufferView, b Boundary) Boundary {
	row := b.Start.Row
	steps := 0

	for row > 0 && steps < scanLookback {
		prev := row - 1
		prevText := strings.TrimRight(view.Line(prev), " \t")
		if !strings.HasSuffix(prevText, `\`) {
			break
		}

		// The backslash sits on the last display row of the previous
		// logical line; the new start is that line's head.
		head := prev
		for head > 0 && view.IsWrapped(head) {
			head--
		}
		headText := view.Line(head)

		col := 0
		if m, ok := detectMainPrompt(headText); ok {
			col = columnWidth(headText[:m.Offset+m.Length])
		} else if detectContinuation(headText) {
			col = columnWidth(headText) - columnWidth(stripContinuation(headText))
		}

		b.Start = CursorPosition{Row: head, Col: col}
		row = head
		steps++
	}
	return b
}

// assembleText flattens a boundary into the command text. Wrapped rows
// concatenate with no separator; genuine rows join with a newline, keeping
// any trailing continuation backslash as typed so the result stays a valid
// shell construct. Continuation prompts are stripped from joined rows.
func assembleText(view BufferView, b Boundary) (string, bool) {
	var sb strings.Builder

	for r := b.Start.Row; r <= b.End.Row; r++ {
		from := 0
		if r == b.Start.Row {
			from = b.Start.Col
		}
		to := -1
		if r == b.End.Row {
			to = b.End.Col
		}
		text := view.LineRange(r, from, to)

		// Cell padding past the content is display artifact, but only on
		// rows that end their logical line: a row that wraps is full to the
		// margin and every cell on it is typed text.
		if r == b.End.Row || !view.IsWrapped(r+1) {
			text = strings.TrimRight(text, " \t")
		}

		if r > b.Start.Row && !view.IsWrapped(r) {
			text = stripContinuation(text)
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.ReplaceAll(text, "\r", ""))
	}

	out := strings.TrimSpace(sb.String())
	return out, strings.Contains(out, "\n")
}
