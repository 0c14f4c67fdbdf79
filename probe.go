package main

import (
	"log"
	"time"
)

// Line-editor navigation candidates, most portable first. C-a/C-e are the
// emacs-mode readline bindings; the escape sequences cover Home/End in
// application and normal cursor-key modes.
var (
	probeStartSequences = []string{"\x01", "\x1bOH", "\x1b[H", "\x1b[1~"}
	probeEndSequences   = []string{"\x05", "\x1bOF", "\x1b[F", "\x1b[4~"}
)

const (
	probeSampleInterval   = 15 * time.Millisecond
	probeCandidateTimeout = 250 * time.Millisecond

	// probeStableSamples is how many identical consecutive samples count as
	// settled; prompt redraws can move the cursor in several steps.
	probeStableSamples = 3
)

type probeState int

const (
	probeIdle probeState = iota
	probeSent
	probeSampling
	probeStable
	probeTimedOut
)

// cursorProbe asks the line editor itself where the command starts: send a
// "move to start of line" sequence, watch the cursor settle, then move back
// with an end-of-line sequence. Navigation bytes only; the typed text is
// never touched.
type cursorProbe struct {
	view   BufferView
	inject InputInjector
	state  probeState
}

// run locates the command start, then restores the cursor. The restore
// probe's settled position doubles as the boundary end: it parks the
// cursor at end of line, which is also the command end when extraction was
// requested mid-line.
func (p *cursorProbe) run() (start, end CursorPosition, err error) {
	origin := p.cursor()

	start, ok := p.locate(probeStartSequences, origin)
	if !ok {
		p.state = probeTimedOut
		return CursorPosition{}, CursorPosition{}, errProbeTimeout
	}

	end, ok = p.locate(probeEndSequences, start)
	if !ok {
		log.Printf("[Probe] restore failed, cursor left at %d:%d", start.Row, start.Col)
		end = origin
	}
	p.state = probeStable
	return start, end, nil
}

// locate runs the candidates through one attempt loop each. A candidate
// whose settled position equals the reference was ignored by the editor
// and the next one is tried.
func (p *cursorProbe) locate(candidates []string, reference CursorPosition) (CursorPosition, bool) {
	for _, seq := range candidates {
		pos, err := p.attempt(seq)
		if err != nil {
			// Injector gone; further candidates cannot fare better.
			return CursorPosition{}, false
		}
		if pos != reference {
			return pos, true
		}
	}
	return CursorPosition{}, false
}

// attempt transmits one candidate and samples the cursor until it holds
// still for probeStableSamples ticks or the candidate times out, in which
// case the last sample is accepted as-is.
func (p *cursorProbe) attempt(seq string) (CursorPosition, error) {
	p.state = probeSent
	if err := p.inject.SendRawInput(seq); err != nil {
		return CursorPosition{}, err
	}

	p.state = probeSampling
	deadline := time.Now().Add(probeCandidateTimeout)
	last := p.cursor()
	stable := 1

	for stable < probeStableSamples {
		if time.Now().After(deadline) {
			return last, nil
		}
		time.Sleep(probeSampleInterval)
		cur := p.cursor()
		if cur == last {
			stable++
		} else {
			last = cur
			stable = 1
		}
	}
	return last, nil
}

func (p *cursorProbe) cursor() CursorPosition {
	row, col := p.view.CursorPos()
	return CursorPosition{Row: row, Col: col}
}
