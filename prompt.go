package main

import (
	"regexp"
	"strings"
)

// The prompt catalogue. One canonical, ordered rule set shared by every
// consumer. The first matching rule wins, so specific shapes must stay
// above the catch-alls.

// promptMatch locates a recognized prompt inside a row. The command starts
// at Offset+Length.
type promptMatch struct {
	Offset int
	Length int
	Family string
}

type promptRule struct {
	re     *regexp.Regexp
	family string
}

var mainPromptRules = []promptRule{
	// user@host with an optional venv prefix and path, ending in $ or #.
	{regexp.MustCompile(`^(?:\([^)]*\)\s+)?[\w.-]+@[\w.-]+\S*(?:\s+\S+)?\s*[$#]\s?`), "bash"},
	// PowerShell drive prompt.
	{regexp.MustCompile(`^PS [A-Za-z]:\\[^>]*>\s?`), "powershell"},
	// fish default: user@host path>.
	{regexp.MustCompile(`^[\w.-]+@[\w.-]+\s+\S+\s*>\s?`), "fish"},
	// zsh default: host%.
	{regexp.MustCompile(`^[\w.-]*[A-Za-z][\w.-]*\s*%(?:\s|$)`), "zsh"},
	// Arrow-glyph themes (starship, pure, oh-my-zsh).
	{regexp.MustCompile(`^\s{0,2}[❯›➜»→λ]\s?`), ""},
	// Minimal $ or # at the start of the row.
	{regexp.MustCompile(`^\s{0,2}[$#](?:\s|$)`), "sh"},
	// Bracketed prompt: [user@host dir]$.
	{regexp.MustCompile(`^\[[^\]]{1,40}\][$#%]\s?`), "bash"},
	// Catch-all: a short leading token ending in a prompt terminator.
	{regexp.MustCompile(`^\S{1,40}[$#%❯](?:\s|$)`), ""},
}

var continuationRules = []*regexp.Regexp{
	// zsh names its continuation states (quote>, heredoc>, ...).
	regexp.MustCompile(`^(?:quote|dquote|bquote|heredoc|heredocd|cursh|cmdsubst|pipe|function|if|then|else|elif|while|until|for|foreach|select|repeat|case|array|braceparam)>\s?`),
	// Ellipsis-style continuations (fish, custom PS2 themes).
	regexp.MustCompile(`^\s*\.\.>\s?`),
	regexp.MustCompile(`^\s*\.{3}\s?`),
	// Plain > and >> secondary prompts.
	regexp.MustCompile(`^\s*>{1,2}(?:\s|$)`),
}

var outputRules = []*regexp.Regexp{
	// ls -l permission column.
	regexp.MustCompile(`^[-dlbcps][rwxsStT-]{9}`),
	regexp.MustCompile(`^total \d+`),
	// Version triples read as tool output, not as typed input.
	regexp.MustCompile(`(?:^|\s)v?\d+\.\d+\.\d+(?:\s|$)`),
	// Capitalized label prefixes: Error:, Warning:, Usage:.
	regexp.MustCompile(`^[A-Z][A-Za-z]*:(?:\s|$)`),
	// Separator rules drawn across the row.
	regexp.MustCompile(`^[─━═=_*#~|+-]{4,}$`),
}

// detectMainPrompt classifies a row as a fresh prompt. Rules are tried in
// catalogue order and the first match is returned, not the longest.
func detectMainPrompt(text string) (promptMatch, bool) {
	for _, rule := range mainPromptRules {
		if loc := rule.re.FindStringIndex(text); loc != nil {
			return promptMatch{Offset: loc[0], Length: loc[1] - loc[0], Family: rule.family}, true
		}
	}
	return promptMatch{}, false
}

// detectContinuation reports whether a row starts with a continuation
// prompt (an already-started command awaiting more input).
func detectContinuation(text string) bool {
	for _, re := range continuationRules {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// stripContinuation removes a matched continuation prefix from a row.
// Rows without one pass through unchanged.
func stripContinuation(text string) string {
	for _, re := range continuationRules {
		if loc := re.FindStringIndex(text); loc != nil {
			return text[loc[1]:]
		}
	}
	return text
}

// looksLikeOutput is the negative heuristic for plain rows: true means the
// row reads like program output rather than typed input. Only the heuristic
// scan consults it.
func looksLikeOutput(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, re := range outputRules {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

