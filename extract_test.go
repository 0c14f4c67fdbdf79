package main

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

// fakeMark implements DisplayMark for tests.
type fakeMark struct {
	mu       sync.Mutex
	row      int
	disposed bool
}

func (m *fakeMark) Row() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.row
}

func (m *fakeMark) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

func (m *fakeMark) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
}

// fakeEditor implements Display and InputInjector over scripted rows. It
// reacts to the probe's navigation sequences by teleporting the cursor to
// the configured home and end positions, which is all a real line editor
// looks like from the display side.
type fakeEditor struct {
	mu      sync.Mutex
	lines   []string
	wrapped []bool
	row     int
	col     int
	alt     bool

	home CursorPosition // cursor lands here on a start-of-line sequence
	end  CursorPosition // cursor lands here on an end-of-line sequence

	// honors filters which injected sequences the editor reacts to. Nil
	// honors everything; returning false models an editor that swallows
	// the sequence without moving.
	honors   func(seq string) bool
	failSend error

	// script, once armed by any honored sequence, feeds CursorPos one
	// position per call and holds the final entry. Models a cursor that
	// keeps drifting instead of settling.
	script   []CursorPosition
	scriptOn bool

	sent    []string
	marks   []*fakeMark
	advance func(row int)
}

func newFakeEditor(lines ...string) *fakeEditor {
	e := &fakeEditor{
		lines:   lines,
		wrapped: make([]bool, len(lines)),
	}
	if n := len(lines); n > 0 {
		e.row = n - 1
		e.col = len([]rune(lines[n-1]))
	}
	return e
}

func (e *fakeEditor) CursorPos() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.scriptOn && len(e.script) > 0 {
		p := e.script[0]
		if len(e.script) > 1 {
			e.script = e.script[1:]
		}
		return p.Row, p.Col
	}
	return e.row, e.col
}

func (e *fakeEditor) Length() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

func (e *fakeEditor) Line(row int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= len(e.lines) {
		return ""
	}
	return strings.TrimRight(e.lines[row], " \t")
}

func (e *fakeEditor) LineRange(row, from, to int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= len(e.lines) {
		return ""
	}
	r := []rune(e.lines[row])
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

func (e *fakeEditor) IsWrapped(row int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return row >= 0 && row < len(e.wrapped) && e.wrapped[row]
}

func (e *fakeEditor) AltScreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alt
}

func (e *fakeEditor) PlaceMark(row int) DisplayMark {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := &fakeMark{row: row}
	e.marks = append(e.marks, m)
	return m
}

func (e *fakeEditor) OnRowAdvance(fn func(row int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.advance = fn
}

func (e *fakeEditor) SendRawInput(input string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, input)
	if e.failSend != nil {
		return e.failSend
	}
	if e.honors != nil && !e.honors(input) {
		return nil
	}
	if e.script != nil {
		e.scriptOn = true
		return nil
	}
	switch {
	case containsSeq(probeStartSequences, input):
		e.row, e.col = e.home.Row, e.home.Col
	case containsSeq(probeEndSequences, input):
		e.row, e.col = e.end.Row, e.end.Col
	}
	return nil
}

func containsSeq(seqs []string, s string) bool {
	for _, q := range seqs {
		if q == s {
			return true
		}
	}
	return false
}

func (e *fakeEditor) setCursor(row, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.row, e.col = row, col
}

func (e *fakeEditor) sentSequences() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.sent...)
}

func (e *fakeEditor) fireAdvance(row int) {
	e.mu.Lock()
	fn := e.advance
	e.mu.Unlock()
	if fn != nil {
		fn(row)
	}
}

func (e *fakeEditor) markCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.marks)
}

// --- Extractor Tests ---

// TestExtractSimpleCommand verifies the happy path: the editor honors the
// probe, so the result carries high confidence and the prompt's family
func TestExtractSimpleCommand(t *testing.T) {
	e := newFakeEditor("user@host:~$ echo hi")
	e.home = CursorPosition{Row: 0, Col: 13}
	e.end = CursorPosition{Row: 0, Col: 20}

	ext := NewExtractor()
	h, err := ext.Attach("s1", e)
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	defer h.Dispose()

	res := ext.Extract("s1", e, e)
	if res == nil {
		t.Fatal("Extract() returned nil, want a result")
	}
	if res.Text != "echo hi" {
		t.Errorf("Text = %q, want %q", res.Text, "echo hi")
	}
	if res.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want %q", res.Confidence, ConfidenceHigh)
	}
	if res.StartRow != 0 || res.EndRow != 0 {
		t.Errorf("rows = %d..%d, want 0..0", res.StartRow, res.EndRow)
	}
	if res.ShellFamily != "bash" {
		t.Errorf("ShellFamily = %q, want %q", res.ShellFamily, "bash")
	}
	if res.Multiline {
		t.Error("single-row command reported as multiline")
	}
}

// TestExtractFullScreenNil verifies extraction declines while a
// full-screen program owns the display
func TestExtractFullScreenNil(t *testing.T) {
	e := newFakeEditor("some full screen ui")
	e.alt = true

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	if res := ext.Extract("s1", e, e); res != nil {
		t.Errorf("Extract() = %+v, want nil on alternate screen", res)
	}
	if got := e.sentSequences(); len(got) != 0 {
		t.Errorf("sent %d sequences, want none before probing a full-screen display", len(got))
	}
}

// TestExtractEmptyPromptNil verifies an empty command line yields nil: the
// probe cannot move the cursor and the scan finds only the prompt itself
func TestExtractEmptyPromptNil(t *testing.T) {
	e := newFakeEditor("user@host:~$ ")
	e.home = CursorPosition{Row: 0, Col: 13}
	e.end = CursorPosition{Row: 0, Col: 13}

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	if res := ext.Extract("s1", e, e); res != nil {
		t.Errorf("Extract() = %+v, want nil for empty command line", res)
	}
}

// TestExtractMarkerSeedUpgradesConfidence verifies a recorded prompt
// marker seeds the scan when the probe fails, lifting an otherwise
// low-confidence guess to medium
func TestExtractMarkerSeedUpgradesConfidence(t *testing.T) {
	e := newFakeEditor("run deploy now")
	e.honors = func(string) bool { return false }

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	e.setCursor(0, 4)
	if err := ext.MarkCurrentPrompt("s1"); err != nil {
		t.Fatalf("MarkCurrentPrompt() error: %v", err)
	}
	e.setCursor(0, 14)

	res := ext.Extract("s1", e, e)
	if res == nil {
		t.Fatal("Extract() returned nil, want a marker-seeded result")
	}
	if res.Text != "deploy now" {
		t.Errorf("Text = %q, want %q", res.Text, "deploy now")
	}
	if res.Confidence != ConfidenceMedium {
		t.Errorf("Confidence = %q, want %q", res.Confidence, ConfidenceMedium)
	}
}

// TestExtractInjectorFailure verifies a dead injector downgrades to the
// scan instead of failing the extraction
func TestExtractInjectorFailure(t *testing.T) {
	e := newFakeEditor("$ make test")
	e.failSend = errors.New("session closed")

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	res := ext.Extract("s1", e, e)
	if res == nil {
		t.Fatal("Extract() returned nil, want a scan result")
	}
	if res.Text != "make test" {
		t.Errorf("Text = %q, want %q", res.Text, "make test")
	}
	if res.Confidence != ConfidenceMedium {
		t.Errorf("Confidence = %q, want %q", res.Confidence, ConfidenceMedium)
	}
	if got := e.sentSequences(); len(got) != 1 {
		t.Errorf("sent %d sequences, want 1 (no retries once the injector errors)", len(got))
	}
}

// TestExtractRepeatIdempotent verifies back-to-back extractions agree: the
// probe restores the cursor, so nothing observable changes between runs
func TestExtractRepeatIdempotent(t *testing.T) {
	e := newFakeEditor("$ git status")
	e.home = CursorPosition{Row: 0, Col: 2}
	e.end = CursorPosition{Row: 0, Col: 12}

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	first := ext.Extract("s1", e, e)
	second := ext.Extract("s1", e, e)
	if first == nil || second == nil {
		t.Fatalf("results = %v, %v, want two non-nil results", first, second)
	}
	if *first != *second {
		t.Errorf("results differ:\n first = %+v\nsecond = %+v", *first, *second)
	}

	row, col := e.CursorPos()
	if row != 0 || col != 12 {
		t.Errorf("cursor = %d:%d after extraction, want restored 0:12", row, col)
	}
}

// TestExtractProbeSerialized verifies overlapping extract calls take turns
// at the probe: the second run's navigation bytes go out only after the
// first run's restore, never interleaved with it.
func TestExtractProbeSerialized(t *testing.T) {
	e := newFakeEditor("$ echo hi")
	e.home = CursorPosition{Row: 0, Col: 2}
	e.end = CursorPosition{Row: 0, Col: 9}

	ext := NewExtractor()
	h, err := ext.Attach("s1", e)
	if err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	defer h.Dispose()

	var wg sync.WaitGroup
	results := make([]*ExtractionResult, 2)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ext.Extract("s1", e, e)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res == nil {
			t.Fatalf("extract %d returned nil, want a result", i)
		}
		if res.Text != "echo hi" {
			t.Errorf("extract %d Text = %q, want %q", i, res.Text, "echo hi")
		}
	}

	// Each run sends C-a then C-e. Serialized runs leave complete pairs;
	// anything else means probe bytes crossed.
	want := []string{"\x01", "\x05", "\x01", "\x05"}
	sent := e.sentSequences()
	if len(sent) != len(want) {
		t.Fatalf("sent %d sequences %q, want %d", len(sent), sent, len(want))
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, sent[i], want[i])
		}
	}
}

// TestExtractWrappedCommand verifies a command wrapped across display rows
// comes back as one unbroken string
func TestExtractWrappedCommand(t *testing.T) {
	e := newFakeEditor("$ echo aaaaaaaaaa", "bbbcc")
	e.wrapped[1] = true
	e.home = CursorPosition{Row: 0, Col: 2}
	e.end = CursorPosition{Row: 1, Col: 5}
	e.setCursor(1, 5)

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	res := ext.Extract("s1", e, e)
	if res == nil {
		t.Fatal("Extract() returned nil, want a result")
	}
	want := "echo aaaaaaaaaabbbcc"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Multiline {
		t.Error("wrapped command reported as multiline")
	}
	if res.StartRow != 0 || res.EndRow != 1 {
		t.Errorf("rows = %d..%d, want 0..1", res.StartRow, res.EndRow)
	}
}

// TestExtractMultilineBackslash verifies the boundary expander pulls a
// probed start up across an explicit continuation
func TestExtractMultilineBackslash(t *testing.T) {
	e := newFakeEditor(`$ echo one \`, "two")
	e.home = CursorPosition{Row: 1, Col: 0}
	e.end = CursorPosition{Row: 1, Col: 3}
	e.setCursor(1, 3)

	ext := NewExtractor()
	h, _ := ext.Attach("s1", e)
	defer h.Dispose()

	res := ext.Extract("s1", e, e)
	if res == nil {
		t.Fatal("Extract() returned nil, want a result")
	}
	want := "echo one \\\ntwo"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if !res.Multiline {
		t.Error("continuation command should be multiline")
	}
	if res.StartRow != 0 {
		t.Errorf("StartRow = %d, want 0 (expanded across the backslash)", res.StartRow)
	}
	if res.Confidence != ConfidenceHigh {
		t.Errorf("Confidence = %q, want %q", res.Confidence, ConfidenceHigh)
	}
}

// TestExtractDetachedSessionNil verifies extraction against an unknown or
// detached session resolves to nil rather than an error
func TestExtractDetachedSessionNil(t *testing.T) {
	e := newFakeEditor("$ echo hi")
	ext := NewExtractor()

	if res := ext.Extract("ghost", e, e); res != nil {
		t.Errorf("Extract() = %+v, want nil for unknown session", res)
	}

	h, _ := ext.Attach("s1", e)
	h.Dispose()
	if res := ext.Extract("s1", e, e); res != nil {
		t.Errorf("Extract() = %+v, want nil after detach", res)
	}
}

// TestExtractDoubleAttach verifies a session id cannot be attached twice
func TestExtractDoubleAttach(t *testing.T) {
	e := newFakeEditor("$ ")
	ext := NewExtractor()

	h, err := ext.Attach("s1", e)
	if err != nil {
		t.Fatalf("first Attach() error: %v", err)
	}
	defer h.Dispose()

	if _, err := ext.Attach("s1", e); err == nil {
		t.Error("second Attach() succeeded, want error")
	}
	if n := ext.SessionCount(); n != 1 {
		t.Errorf("SessionCount() = %d, want 1", n)
	}
}

// TestMarkCurrentPromptNoSession verifies the explicit mark entry point
// rejects unknown and detached sessions
func TestMarkCurrentPromptNoSession(t *testing.T) {
	e := newFakeEditor("$ ")
	ext := NewExtractor()

	if err := ext.MarkCurrentPrompt("nope"); err != errNoSession {
		t.Errorf("MarkCurrentPrompt() = %v, want %v", err, errNoSession)
	}

	h, _ := ext.Attach("s1", e)
	h.Dispose()
	if err := ext.MarkCurrentPrompt("s1"); err != errNoSession {
		t.Errorf("MarkCurrentPrompt() after detach = %v, want %v", err, errNoSession)
	}
}
