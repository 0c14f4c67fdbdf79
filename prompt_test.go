package main

import "testing"

// TestDetectMainPrompt runs rows through the catalogue and checks both the
// classification and where the command text starts.
func TestDetectMainPrompt(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		want   bool
		family string
		rest   string // text after the matched prompt
	}{
		{
			name:   "bash_user_host_path",
			row:    "user@host:~/src$ echo hi",
			want:   true,
			family: "bash",
			rest:   "echo hi",
		},
		{
			name:   "bash_with_venv_prefix",
			row:    "(venv) dev@box:~$ pip install flask",
			want:   true,
			family: "bash",
			rest:   "pip install flask",
		},
		{
			name:   "root_hash_prompt",
			row:    "# systemctl restart nginx",
			want:   true,
			family: "sh",
			rest:   "systemctl restart nginx",
		},
		{
			name:   "powershell_drive",
			row:    "PS C:\\Users\\dev> Get-ChildItem",
			want:   true,
			family: "powershell",
			rest:   "Get-ChildItem",
		},
		{
			name:   "fish_user_host",
			row:    "dev@box ~/proj> git status",
			want:   true,
			family: "fish",
			rest:   "git status",
		},
		{
			name:   "zsh_percent",
			row:    "mars% ls -la",
			want:   true,
			family: "zsh",
			rest:   "ls -la",
		},
		{
			name:   "starship_arrow",
			row:    "❯ git status",
			want:   true,
			family: "",
			rest:   "git status",
		},
		{
			name:   "minimal_dollar",
			row:    "$ make test",
			want:   true,
			family: "sh",
			rest:   "make test",
		},
		{
			name:   "bracketed",
			row:    "[dev@web01 api]$ make",
			want:   true,
			family: "bash",
			rest:   "make",
		},
		{
			name:   "catch_all_token",
			row:    "box1$ run",
			want:   true,
			family: "",
			rest:   "run",
		},
		{
			name: "plain_text",
			row:  "hello world",
			want: false,
		},
		{
			name: "ls_total_line",
			row:  "total 42",
			want: false,
		},
		{
			name: "permission_column",
			row:  "drwxr-xr-x  2 dev dev 4096 Aug 20 api",
			want: false,
		},
		{
			name: "empty_row",
			row:  "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := detectMainPrompt(tt.row)
			if ok != tt.want {
				t.Fatalf("detectMainPrompt(%q) ok = %v, want %v", tt.row, ok, tt.want)
			}
			if !ok {
				return
			}
			if m.Family != tt.family {
				t.Errorf("Family = %q, want %q", m.Family, tt.family)
			}
			if rest := tt.row[m.Offset+m.Length:]; rest != tt.rest {
				t.Errorf("command after prompt = %q, want %q", rest, tt.rest)
			}
		})
	}
}

// TestDetectMainPromptFirstRuleWins verifies catalogue order: a row matching
// both a specific shape and the catch-all reports the specific family.
func TestDetectMainPromptFirstRuleWins(t *testing.T) {
	m, ok := detectMainPrompt("dev@build-02:~$ ./run.sh --flag")
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Family != "bash" {
		t.Errorf("Family = %q, want %q (specific rule must beat catch-all)", m.Family, "bash")
	}
}

// TestDetectContinuation covers secondary-prompt shapes
func TestDetectContinuation(t *testing.T) {
	tests := []struct {
		row  string
		want bool
	}{
		{"> wget https://example.com", true},
		{">> appended", true},
		{"quote> echo done", true},
		{"dquote> still open", true},
		{"heredoc> EOF", true},
		{"pipe> sort", true},
		{"..> more", true},
		{"  ... third line", true},
		{"$ ls", false},
		{">>>", false}, // python REPL, not a shell continuation
		{"-> arrow output", false},
		{"cmd > file", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := detectContinuation(tt.row); got != tt.want {
			t.Errorf("detectContinuation(%q) = %v, want %v", tt.row, got, tt.want)
		}
	}
}

// TestStripContinuation verifies prefix removal leaves the typed text
func TestStripContinuation(t *testing.T) {
	tests := []struct {
		row  string
		want string
	}{
		{"> echo hi", "echo hi"},
		{">> tail", "tail"},
		{"quote> done'", "done'"},
		{"heredoc> EOF", "EOF"},
		{"plain text", "plain text"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripContinuation(tt.row); got != tt.want {
			t.Errorf("stripContinuation(%q) = %q, want %q", tt.row, got, tt.want)
		}
	}
}

// TestLooksLikeOutput covers the negative heuristic for plain rows
func TestLooksLikeOutput(t *testing.T) {
	tests := []struct {
		row  string
		want bool
	}{
		{"drwxr-xr-x  2 dev dev 4096 Aug 20 api", true},
		{"-rw-r--r--  1 dev dev  120 notes.txt", true},
		{"total 42", true},
		{"mytool v2.4.1 ready", true},
		{"Error: connection refused", true},
		{"Usage: tool [options]", true},
		{"Warning: deprecated flag", true},
		{"────────────────", true},
		{"========", true},
		{"echo hi", false},
		{"git status", false},
		{"make -j8", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := looksLikeOutput(tt.row); got != tt.want {
			t.Errorf("looksLikeOutput(%q) = %v, want %v", tt.row, got, tt.want)
		}
	}
}
