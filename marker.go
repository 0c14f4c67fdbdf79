package main

import "time"

const (
	// maxPromptMarks caps the per-session marker set; the oldest marker is
	// evicted and disposed once the cap is exceeded.
	maxPromptMarks = 32

	// markerSettleDelay is how long a row advance must stay quiet before
	// the cursor row is classified; prompts often render in several writes.
	markerSettleDelay = 150 * time.Millisecond

	// maxPromptColumn rejects implausibly wide prompt candidates. A cursor
	// parked that deep is almost always inside program output.
	maxPromptColumn = 200
)

// promptMark pairs a persistent display mark with the command-start column
// it was recognized at.
type promptMark struct {
	mark      DisplayMark
	col       int
	createdAt time.Time
}

// rowAdvanced reschedules the settle check. The timer is a single slot:
// the latest advance wins, earlier pending checks are cancelled.
func (s *session) rowAdvanced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.settleTimer != nil {
		s.settleTimer.Stop()
	}
	s.settleTimer = time.AfterFunc(markerSettleDelay, s.settleCheck)
}

// settleCheck classifies the now-stable cursor row and marks it when the
// text before the cursor carries a recognized prompt.
func (s *session) settleCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pruneMarksLocked()

	row, col := s.display.CursorPos()
	if col <= 0 || col > maxPromptColumn {
		return
	}
	before := s.display.LineRange(row, 0, col)
	m, ok := detectMainPrompt(before)
	if !ok {
		return
	}
	s.placeMarkLocked(row, columnWidth(before[:m.Offset+m.Length]))
}

// placeMarkLocked records a prompt at row with the given command-start
// column. Marking a row that already holds a live marker refreshes that
// marker and disposes the newly issued handle so no two live markers share
// a row.
func (s *session) placeMarkLocked(row, col int) *promptMark {
	handle := s.display.PlaceMark(row)

	for _, pm := range s.marks {
		if pm.mark.Disposed() || pm.mark.Row() != row {
			continue
		}
		pm.col = col
		pm.createdAt = time.Now()
		handle.Dispose()
		s.recent = pm
		return pm
	}

	pm := &promptMark{mark: handle, col: col, createdAt: time.Now()}
	s.marks = append(s.marks, pm)
	if len(s.marks) > maxPromptMarks {
		oldest := s.marks[0]
		s.marks = s.marks[1:]
		oldest.mark.Dispose()
	}
	s.recent = pm
	return pm
}

// pruneMarksLocked drops disposed markers from the set.
func (s *session) pruneMarksLocked() {
	live := s.marks[:0]
	for _, pm := range s.marks {
		if pm.mark.Disposed() {
			if s.recent == pm {
				s.recent = nil
			}
			continue
		}
		live = append(live, pm)
	}
	s.marks = live
}

// currentPromptLocked returns the most recent live marker, repairing the
// recent pointer if its target was disposed.
func (s *session) currentPromptLocked() *promptMark {
	if s.recent != nil && !s.recent.mark.Disposed() {
		return s.recent
	}
	s.pruneMarksLocked()
	if n := len(s.marks); n > 0 {
		s.recent = s.marks[n-1]
		return s.recent
	}
	return nil
}

// markerSeed returns the start position recorded by the most recent live
// marker. A disposed recent marker is pruned and reported so the caller
// can log the downgrade.
func (s *session) markerSeed() (CursorPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recent != nil && s.recent.mark.Disposed() {
		s.pruneMarksLocked()
		return CursorPosition{}, errMarkerDisposed
	}
	pm := s.currentPromptLocked()
	if pm == nil {
		return CursorPosition{}, errNoMarker
	}
	return CursorPosition{Row: pm.mark.Row(), Col: pm.col}, nil
}
