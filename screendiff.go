package main

import "strings"

// ScreenDiffer tracks what a sink has already seen of a screen and yields
// only the new content. Useful for notifier flows where re-sending the
// whole display on every change would drown the reader.
type ScreenDiffer struct {
	screen *Screen
	last   string // Track last-sent screen for diffing
}

// NewScreenDiffer creates a differ over a screen mirror.
func NewScreenDiffer(screen *Screen) *ScreenDiffer {
	return &ScreenDiffer{screen: screen}
}

// Diff returns only the new content since the last call to Diff.
// On first call, returns the full screen.
// Returns empty string if nothing changed.
func (d *ScreenDiffer) Diff() string {
	current := d.screen.String()

	if current == d.last {
		return ""
	}

	diff := diffScreens(d.last, current)
	d.last = current
	return diff
}

// Reset clears the last-sent state, so the next Diff returns full content.
func (d *ScreenDiffer) Reset() {
	d.last = ""
}

// diffScreens extracts new/changed lines between two screen states.
// Returns only the lines that are different or new.
func diffScreens(old, current string) string {
	if old == "" {
		return current
	}

	oldLines := strings.Split(old, "\n")
	newLines := strings.Split(current, "\n")

	var diff []string
	changed := false

	for i, line := range newLines {
		if i >= len(oldLines) || line != oldLines[i] {
			diff = append(diff, line)
			changed = true
		}
	}

	if !changed {
		return ""
	}

	result := strings.Join(diff, "\n")
	return strings.TrimSpace(result)
}
