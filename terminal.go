package main

import (
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

// Initial PTY dimensions; clients resize to their real viewport on attach.
const (
	defaultRows = 50
	defaultCols = 120
)

// OutputSink is the interface for sending output (Telegram, console, mock, etc)
type OutputSink interface {
	SendOutput(output string)
}

// SessionHost is a live terminal session as the rest of the program sees
// it: raw input in, raw output out, and a screen mirror that tracks what
// the user's display shows. Both local pty sessions and SSH sessions
// implement it.
type SessionHost interface {
	Screen() *Screen
	SendCommand(command string)
	SendRawInput(input string) error
	Resize(rows, cols int) error
	Output() <-chan string
	Close()
}

// Terminal hosts a local shell on a PTY. Output is decoded into a Screen
// mirror as it streams, so the display state is always inspectable without
// asking the shell anything.
type Terminal struct {
	ptmx       *os.File
	cmd        *exec.Cmd
	screen     *Screen
	outputChan chan string
	sink       OutputSink
	done       chan struct{} // Signal to stop reading
}

// sessionEnvironment returns environment variables filtered for spawned
// terminal sessions.
func sessionEnvironment() []string {
	env := os.Environ()
	cleaned := make([]string, 0, len(env))

	for _, e := range env {
		// Drop our own marker so nested sessions start clean.
		if strings.HasPrefix(e, "COMMAND_LENS=") {
			continue
		}
		cleaned = append(cleaned, e)
	}

	return cleaned
}

// NewTerminal starts an interactive shell in a PTY. The shell loads its
// normal rc files: the user's real prompt has to render, because the prompt
// is what the screen analysis keys on.
func NewTerminal(sink OutputSink) (*Terminal, error) {
	shellCmd, shellArgs := getShell()
	return startTerminal(sink, shellCmd, shellArgs, nil)
}

// NewCommandTerminal starts a clean shell for one-shot command runs: no rc
// files and no prompt, so the captured output is just the command's.
func NewCommandTerminal(sink OutputSink) (*Terminal, error) {
	shellCmd, shellArgs := getOneShotShell()
	return startTerminal(sink, shellCmd, shellArgs, []string{"PS1="})
}

func startTerminal(sink OutputSink, shellCmd string, shellArgs, extraEnv []string) (*Terminal, error) {
	cmd := exec.Command(shellCmd, shellArgs...)
	cmd.Env = append(sessionEnvironment(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",

		// Lets shells and tools detect they run under a hosted session.
		"COMMAND_LENS=1",

		// Disable problematic features
		"NO_UPDATE_NOTIFIER=1",
		"DISABLE_AUTO_UPDATE=1",
	)
	cmd.Env = append(cmd.Env, extraEnv...)

	// TTY mode - allows proper signal handling
	setProcAttr(cmd)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}

	ws := &pty.Winsize{
		Rows: defaultRows,
		Cols: defaultCols,
	}
	if err := pty.Setsize(ptmx, ws); err != nil {
		log.Printf("Warning: couldn't set terminal size: %v\n", err)
	}

	term := &Terminal{
		ptmx:       ptmx,
		cmd:        cmd,
		screen:     NewScreen(defaultRows, defaultCols),
		outputChan: make(chan string, 100),
		sink:       sink,
		done:       make(chan struct{}),
	}

	// Terminal queries (cursor position reports and the like) answer back
	// into the shell's input.
	term.screen.SetResponder(func(resp string) {
		term.ptmx.Write([]byte(resp))
	})

	// Start reading output first
	go term.readOutput()

	// Small delay for shell to initialize
	time.Sleep(100 * time.Millisecond)

	return term, nil
}

func (t *Terminal) readOutput() {
	buf := make([]byte, 8192)

	for {
		select {
		case <-t.done:
			// Terminal closing, stop reading
			close(t.outputChan)
			return
		default:
			// Set read deadline for periodic done-channel checking
			t.ptmx.SetReadDeadline(time.Now().Add(500 * time.Millisecond))

			n, err := t.ptmx.Read(buf)
			if err != nil {
				if err == io.EOF {
					// Terminal closed cleanly
					close(t.outputChan)
					return
				}
				// Timeout or temporary error - continue
				continue
			}

			if n > 0 {
				// Mirror first, then forward: by the time a consumer sees a
				// chunk, the screen already reflects it.
				t.screen.Write(buf[:n])

				output := string(buf[:n])
				select {
				case t.outputChan <- output:
					// Sent successfully
				case <-t.done:
					// Terminal closing while sending
					close(t.outputChan)
					return
				}
			}
		}
	}
}

// Screen returns the display mirror for this session.
func (t *Terminal) Screen() *Screen {
	return t.screen
}

// Output returns the raw output stream. Closed when the session ends.
func (t *Terminal) Output() <-chan string {
	return t.outputChan
}

// SendCommand sends a command line followed by Enter.
//
// The text and the \r go out as separate PTY writes with a small delay:
// some TUI input parsers split reads only on escape bytes and miss an
// Enter glued to the end of a text chunk. For a shell in cooked mode the
// delay is harmless — it line-buffers until the newline arrives.
func (t *Terminal) SendCommand(command string) {
	t.ptmx.Write([]byte(command))
	time.Sleep(50 * time.Millisecond)
	t.ptmx.Write([]byte("\r"))
}

// SendRawInput sends raw bytes to the PTY without adding a newline. Used
// for character-by-character input from the browser terminal and for
// cursor probes.
func (t *Terminal) SendRawInput(input string) error {
	_, err := t.ptmx.Write([]byte(input))
	return err
}

// Resize changes the PTY window size and the screen mirror with it.
func (t *Terminal) Resize(rows, cols int) error {
	ws := &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}
	if err := pty.Setsize(t.ptmx, ws); err != nil {
		return err
	}
	t.screen.Resize(rows, cols)
	return nil
}

// StreamOutput streams settled screen changes to the sink. Raw chunks
// already went through the mirror in readOutput, so this only has to
// watch for quiet periods and ship what is new on screen.
func (t *Terminal) StreamOutput() {
	differ := NewScreenDiffer(t.screen)
	lastOutputTime := time.Now()
	hasNewData := false

	// Tunable parameters
	silenceThreshold := 1500 * time.Millisecond // Send chunk after 1.5s silence
	finalSilenceThreshold := 3 * time.Second    // Stop after 3s total silence
	maxWaitTime := 30 * time.Second             // Max 30s total

	startTime := time.Now()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-t.outputChan:
			if !ok {
				if diff := differ.Diff(); diff != "" {
					t.sink.SendOutput(diff)
				}
				return
			}
			hasNewData = true
			lastOutputTime = time.Now()

		case <-ticker.C:
			// Send screen diff if output has settled
			if hasNewData && time.Since(lastOutputTime) > silenceThreshold {
				if diff := differ.Diff(); diff != "" {
					t.sink.SendOutput(diff)
				}
				hasNewData = false
			}

			// Stop if max total time reached
			if time.Since(startTime) > maxWaitTime {
				if hasNewData {
					if diff := differ.Diff(); diff != "" {
						t.sink.SendOutput(diff)
					}
				}
				return
			}

			// Stop only after long silence with no pending data
			if !hasNewData && time.Since(lastOutputTime) > finalSilenceThreshold {
				return
			}
		}
	}
}

// Close closes the terminal and all child processes
func (t *Terminal) Close() {
	// Signal readOutput to stop
	select {
	case <-t.done:
		// Already closed
	default:
		close(t.done)
	}

	if t.cmd != nil && t.cmd.Process != nil {
		killProcessGroup(t.cmd)
		t.cmd.Wait() // Clean up zombie
	}

	if t.ptmx != nil {
		t.ptmx.Close()
	}

	// outputChan is closed by readOutput() when it exits
}

// ConsoleSink writes output to console (for testing)
type ConsoleSink struct{}

func (c *ConsoleSink) SendOutput(output string) {
	log.Printf("OUTPUT:\n%s\n", output)
}

// MockSink captures output for testing
type MockSink struct {
	Outputs []string
}

func (m *MockSink) SendOutput(output string) {
	m.Outputs = append(m.Outputs, output)
	log.Printf("MOCK OUTPUT (%d bytes): %s", len(output), output)
}
