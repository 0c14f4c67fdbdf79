package main

import "errors"

// Extraction degradations. None of these reach the caller of Extract; each
// one either triggers a weaker strategy or collapses to a nil result.
var (
	// errNoCommand means the derived boundary was empty or inverted. This is
	// the normal outcome for an empty prompt line.
	errNoCommand = errors.New("no command at prompt")

	// errProbeTimeout means every probe candidate was exhausted without the
	// cursor moving off its origin. The heuristic scan runs next.
	errProbeTimeout = errors.New("cursor probe timed out")

	// errFullScreen means the display is owned by a full-screen program
	// (alternate screen buffer); there is no prompt to find.
	errFullScreen = errors.New("full-screen program active")

	// errMarkerDisposed means the most recent prompt marker was evicted from
	// the display history between placement and read.
	errMarkerDisposed = errors.New("prompt marker disposed")

	// errNoMarker means the session has no live marker to seed a scan with.
	errNoMarker = errors.New("no live prompt marker")

	// errNoSession means the session id was never attached or already
	// detached.
	errNoSession = errors.New("session not attached")
)
