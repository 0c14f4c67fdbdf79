package main

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Confidence ranks how a boundary was derived: active probing beats a
// marker-seeded scan, which beats pure pattern inference.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ExtractionResult is the command found at the prompt: decoration-stripped,
// newline-normalized text plus where it sits in the display.
type ExtractionResult struct {
	Text        string
	Multiline   bool
	StartRow    int
	EndRow      int
	Confidence  Confidence
	ShellFamily string
}

// session is the per-id extraction state. The registry owns the map entry;
// the session owns its marker set and timers.
type session struct {
	id      string
	display Display

	mu          sync.Mutex
	marks       []*promptMark
	recent      *promptMark
	settleTimer *time.Timer
	closed      bool

	// probeMu serializes probes. Overlapping probes corrupt the line
	// editor's cursor state, so a second request waits here.
	probeMu sync.Mutex
}

// close destroys all session state in one critical section: pending timer
// stopped, every marker disposed, row-advance listener removed.
func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
	for _, pm := range s.marks {
		pm.mark.Dispose()
	}
	s.marks = nil
	s.recent = nil
	s.display.OnRowAdvance(nil)
}

// SessionHandle detaches its session when disposed. Dispose is idempotent.
type SessionHandle struct {
	ext  *Extractor
	id   string
	once sync.Once
}

func (h *SessionHandle) Dispose() {
	h.once.Do(func() { h.ext.detach(h.id) })
}

// Extractor owns every attached session and composes the strategies in
// fixed precedence order: probe, then marker-seeded scan, then plain scan.
type Extractor struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func NewExtractor() *Extractor {
	return &Extractor{sessions: make(map[string]*session)}
}

// Attach registers a display under a session id and starts tracking its
// prompts. The returned handle detaches and destroys all session state.
func (e *Extractor) Attach(sessionID string, d Display) (*SessionHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.sessions[sessionID]; ok {
		return nil, fmt.Errorf("session %q already attached", sessionID)
	}
	s := &session{id: sessionID, display: d}
	e.sessions[sessionID] = s
	d.OnRowAdvance(func(int) { s.rowAdvanced() })
	return &SessionHandle{ext: e, id: sessionID}, nil
}

func (e *Extractor) detach(sessionID string) {
	e.mu.Lock()
	s := e.sessions[sessionID]
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	if s != nil {
		s.close()
	}
}

func (e *Extractor) lookup(sessionID string) *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[sessionID]
}

// SessionCount reports how many sessions are attached.
func (e *Extractor) SessionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Extract runs the strategy pipeline for one session. A nil result means
// "nothing found"; extraction never fails outright, and a request racing a
// detach resolves to nil.
func (e *Extractor) Extract(sessionID string, view BufferView, inject InputInjector) *ExtractionResult {
	s := e.lookup(sessionID)
	if s == nil {
		log.Printf("[Extract-%s] %v", sessionID, errNoSession)
		return nil
	}
	res, err := s.extract(view, inject)
	if err != nil {
		log.Printf("[Extract-%s] %v", sessionID, err)
		return nil
	}
	return res
}

// MarkCurrentPrompt force-marks the cursor position as a prompt boundary,
// bypassing the settle delay and plausibility cap. Used when the caller
// has independent knowledge of the command start.
func (e *Extractor) MarkCurrentPrompt(sessionID string) error {
	s := e.lookup(sessionID)
	if s == nil {
		return errNoSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errNoSession
	}
	row, col := s.display.CursorPos()
	s.placeMarkLocked(row, col)
	return nil
}

func (s *session) extract(view BufferView, inject InputInjector) (*ExtractionResult, error) {
	if view.AltScreen() {
		return nil, errFullScreen
	}

	s.probeMu.Lock()
	probe := &cursorProbe{view: view, inject: inject}
	start, end, err := probe.run()
	s.probeMu.Unlock()

	if err == nil {
		b := expandBoundary(view, Boundary{Start: start, End: end})
		if !b.Valid() {
			return nil, errNoCommand
		}
		return s.result(view, b, ConfidenceHigh)
	}
	log.Printf("[Extract-%s] probe: %v, scanning instead", s.id, err)

	var seed *CursorPosition
	if pos, serr := s.markerSeed(); serr == nil {
		seed = &pos
	} else if serr != errNoMarker {
		log.Printf("[Extract-%s] %v", s.id, serr)
	}

	b, conf, err := heuristicScan(view, seed)
	if err != nil {
		return nil, err
	}
	return s.result(view, expandBoundary(view, b), conf)
}

func (s *session) result(view BufferView, b Boundary, conf Confidence) (*ExtractionResult, error) {
	text, multiline := assembleText(view, b)
	if text == "" {
		return nil, errNoCommand
	}
	family := ""
	if m, ok := detectMainPrompt(view.Line(b.Start.Row)); ok {
		family = m.Family
	}
	return &ExtractionResult{
		Text:        text,
		Multiline:   multiline,
		StartRow:    b.Start.Row,
		EndRow:      b.End.Row,
		Confidence:  conf,
		ShellFamily: family,
	}, nil
}
