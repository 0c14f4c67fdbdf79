package main

import (
	"strings"
	"testing"
)

// sliceView is a scripted BufferView backed by a string per row. Columns
// are rune-indexed, which matches display columns for ASCII fixtures.
type sliceView struct {
	lines   []string
	wrapped []bool
	row     int
	col     int
	alt     bool
}

func (v *sliceView) CursorPos() (int, int) { return v.row, v.col }

func (v *sliceView) Length() int { return len(v.lines) }

func (v *sliceView) Line(row int) string {
	if row < 0 || row >= len(v.lines) {
		return ""
	}
	return strings.TrimRight(v.lines[row], " \t")
}

func (v *sliceView) LineRange(row, from, to int) string {
	if row < 0 || row >= len(v.lines) {
		return ""
	}
	r := []rune(v.lines[row])
	if to < 0 || to > len(r) {
		to = len(r)
	}
	if from < 0 {
		from = 0
	}
	if from >= to {
		return ""
	}
	return string(r[from:to])
}

func (v *sliceView) IsWrapped(row int) bool {
	return row >= 0 && row < len(v.wrapped) && v.wrapped[row]
}

func (v *sliceView) AltScreen() bool { return v.alt }

// --- Heuristic Scan Tests ---

// TestHeuristicScanPromptRow verifies the simple case: one prompt row with
// a command typed after it
func TestHeuristicScanPromptRow(t *testing.T) {
	v := &sliceView{
		lines: []string{"user@host:~/src$ echo hi"},
		row:   0, col: 24,
	}

	b, conf, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if conf != ConfidenceMedium {
		t.Errorf("confidence = %q, want %q", conf, ConfidenceMedium)
	}
	if b.Start != (CursorPosition{Row: 0, Col: 17}) {
		t.Errorf("start = %+v, want row 0 col 17", b.Start)
	}

	text, multiline := assembleText(v, b)
	if text != "echo hi" {
		t.Errorf("text = %q, want %q", text, "echo hi")
	}
	if multiline {
		t.Error("single row should not be multiline")
	}
}

// TestHeuristicScanCursorMidLine verifies the boundary extends past the
// cursor to the end of the typed text
func TestHeuristicScanCursorMidLine(t *testing.T) {
	v := &sliceView{
		lines: []string{"$ echo hello"},
		row:   0, col: 8, // cursor parked inside the word
	}

	b, _, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}

	text, _ := assembleText(v, b)
	if text != "echo hello" {
		t.Errorf("text = %q, want %q", text, "echo hello")
	}
}

// TestHeuristicScanContinuationChain verifies a multi-row command behind
// secondary prompts reassembles with the prompts stripped
func TestHeuristicScanContinuationChain(t *testing.T) {
	v := &sliceView{
		lines: []string{"$ for i in 1 2 3; do", "> echo $i", "> done"},
		row:   2, col: 6,
	}

	b, conf, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if conf != ConfidenceMedium {
		t.Errorf("confidence = %q, want %q", conf, ConfidenceMedium)
	}

	text, multiline := assembleText(v, b)
	want := "for i in 1 2 3; do\necho $i\ndone"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if !multiline {
		t.Error("continuation chain should be multiline")
	}
}

// TestHeuristicScanWrappedRows verifies wrapped display rows reassemble
// with no separator
func TestHeuristicScanWrappedRows(t *testing.T) {
	v := &sliceView{
		lines:   []string{"$ echo aaaaaaaaaa", "bbbbbbb ccc"},
		wrapped: []bool{false, true},
		row:     1, col: 11,
	}

	b, _, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.Start.Row != 0 {
		t.Errorf("start row = %d, want 0 (wrapped rows skipped upward)", b.Start.Row)
	}

	text, multiline := assembleText(v, b)
	want := "echo aaaaaaaaaabbbbbbb ccc"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if multiline {
		t.Error("wrap reassembly must not introduce line breaks")
	}
}

// TestHeuristicScanSeed verifies a marker seed replaces the backward scan
func TestHeuristicScanSeed(t *testing.T) {
	v := &sliceView{
		lines: []string{"$ real prompt", "whatever output", "typed"},
		row:   2, col: 5,
	}

	seed := &CursorPosition{Row: 1, Col: 4}
	b, conf, err := heuristicScan(v, seed)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.Start != *seed {
		t.Errorf("start = %+v, want the seed %+v", b.Start, *seed)
	}
	if conf != ConfidenceMedium {
		t.Errorf("confidence = %q, want %q (seeded scan)", conf, ConfidenceMedium)
	}
}

// TestHeuristicScanSeedBelowCursorIgnored verifies a stale seed below the
// cursor falls back to the backward scan
func TestHeuristicScanSeedBelowCursorIgnored(t *testing.T) {
	v := &sliceView{
		lines: []string{"first", "typed"},
		row:   1, col: 5,
	}

	seed := &CursorPosition{Row: 5, Col: 0}
	b, conf, err := heuristicScan(v, seed)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.Start != (CursorPosition{Row: 1, Col: 0}) {
		t.Errorf("start = %+v, want row 1 col 0 (scan result, not seed)", b.Start)
	}
	if conf != ConfidenceLow {
		t.Errorf("confidence = %q, want %q", conf, ConfidenceLow)
	}
}

// TestHeuristicScanLookbackCap verifies the backward walk gives up after
// its lookback budget and settles on the oldest continuation reached
func TestHeuristicScanLookbackCap(t *testing.T) {
	lines := make([]string, 45)
	lines[0] = "$ start"
	for i := 1; i < len(lines); i++ {
		lines[i] = "> line"
	}
	v := &sliceView{lines: lines, row: 44, col: 6}

	b, conf, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.Start != (CursorPosition{Row: 5, Col: 0}) {
		t.Errorf("start = %+v, want row 5 col 0 (lookback exhausted)", b.Start)
	}
	if conf != ConfidenceLow {
		t.Errorf("confidence = %q, want %q", conf, ConfidenceLow)
	}
}

// TestHeuristicScanWrappedRowsUncounted verifies wrapped rows don't burn
// the lookback budget
func TestHeuristicScanWrappedRowsUncounted(t *testing.T) {
	lines := make([]string, 51)
	wrapped := make([]bool, 51)
	lines[0] = "$ big"
	for i := 1; i < len(lines); i++ {
		lines[i] = "x"
		wrapped[i] = true
	}
	v := &sliceView{lines: lines, wrapped: wrapped, row: 50, col: 1}

	b, conf, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.Start.Row != 0 {
		t.Errorf("start row = %d, want 0 (50 wrapped rows must not exhaust lookback)", b.Start.Row)
	}
	if conf != ConfidenceMedium {
		t.Errorf("confidence = %q, want %q", conf, ConfidenceMedium)
	}
}

// TestHeuristicScanOutputAboveWrappedCursor verifies a cursor sitting
// inside wrapped program output yields no command
func TestHeuristicScanOutputAboveWrappedCursor(t *testing.T) {
	v := &sliceView{
		lines:   []string{"-rw-r--r--  1 dev dev 0 a.txt", "trailing wrapped out"},
		wrapped: []bool{false, true},
		row:     1, col: 5,
	}

	_, _, err := heuristicScan(v, nil)
	if err == nil {
		t.Error("expected no command when the cursor sits in wrapped output")
	}
}

// TestHeuristicScanStartsBelowOutput verifies the scan fixes the start one
// row below recognized output
func TestHeuristicScanStartsBelowOutput(t *testing.T) {
	v := &sliceView{
		lines: []string{"total 42", "> tail"},
		row:   1, col: 6,
	}

	b, conf, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.Start != (CursorPosition{Row: 1, Col: 0}) {
		t.Errorf("start = %+v, want row 1 col 0", b.Start)
	}
	if conf != ConfidenceMedium {
		t.Errorf("confidence = %q, want %q", conf, ConfidenceMedium)
	}
}

// TestScanForwardSkipsBlankRows verifies blank rows below the cursor don't
// terminate the forward extension
func TestScanForwardSkipsBlankRows(t *testing.T) {
	v := &sliceView{
		lines: []string{"$ echo a", "", "more typed"},
		row:   0, col: 8,
	}

	b, _, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.End.Row != 2 {
		t.Errorf("end row = %d, want 2 (blank row skipped, not terminal)", b.End.Row)
	}
}

// TestScanForwardStopsAtNextPrompt verifies the forward extension halts
// below the cursor once a fresh prompt appears
func TestScanForwardStopsAtNextPrompt(t *testing.T) {
	v := &sliceView{
		lines: []string{"$ echo a", "$ "},
		row:   0, col: 8,
	}

	b, _, err := heuristicScan(v, nil)
	if err != nil {
		t.Fatalf("heuristicScan() error: %v", err)
	}
	if b.End != (CursorPosition{Row: 0, Col: 8}) {
		t.Errorf("end = %+v, want row 0 col 8", b.End)
	}

	text, _ := assembleText(v, b)
	if text != "echo a" {
		t.Errorf("text = %q, want %q", text, "echo a")
	}
}

// TestColumnWidth verifies display-column arithmetic for wide runes
func TestColumnWidth(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"abc", 3},
		{"日本", 4},
		{"a日b", 4},
		{"", 0},
	}

	for _, tt := range tests {
		if got := columnWidth(tt.text); got != tt.want {
			t.Errorf("columnWidth(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
