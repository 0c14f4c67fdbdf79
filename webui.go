package main

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local testing
	},
}

// Session represents a live terminal session owned by one client.
type Session struct {
	ID         string
	Host       SessionHost
	Sink       OutputSink
	Active     bool
	Command    string
	StartedAt  time.Time
	lens       *SessionHandle // extraction attachment, disposed with the session
	done       chan struct{}  // Signal to stop streaming goroutine
	doneClosed bool           // Tracks whether done channel has been closed
	closeMu    sync.Mutex     // Protects doneClosed and close(done)
}

// safeCloseDone closes the done channel exactly once, preventing double-close panics.
func (s *Session) safeCloseDone() {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()
	if !s.doneClosed {
		close(s.done)
		s.doneClosed = true
	}
}

type WebUIServer struct {
	sessions  map[string]*Session
	mu        sync.Mutex
	config    *Config
	extractor *Extractor
	notifier  *Notifier // nil when no bot is configured
	setupCode string    // one-time access code, set when no password hash exists yet
}

func NewWebUIServer(config *Config) *WebUIServer {
	return &WebUIServer{
		sessions:  make(map[string]*Session),
		config:    config,
		extractor: NewExtractor(),
	}
}

// SetNotifier attaches an optional Telegram notifier for session and
// capture events.
func (s *WebUIServer) SetNotifier(n *Notifier) {
	s.notifier = n
}

type WebMessage struct {
	Type       string `json:"type"`    // "auth", "command", "input", "output", "status", "error", "resize", "extract", "inject", "mark", "stop"
	Content    string `json:"content"` // Message content
	SessionID  string `json:"sessionId,omitempty"`
	Rows       int    `json:"rows,omitempty"` // Terminal rows (for resize)
	Cols       int    `json:"cols,omitempty"` // Terminal cols (for resize)
	Confidence string `json:"confidence,omitempty"`
	Multiline  bool   `json:"multiline,omitempty"`
	StartRow   int    `json:"startRow,omitempty"`
	EndRow     int    `json:"endRow,omitempty"`
	Family     string `json:"family,omitempty"`
}

// WebSocketSink sends output to WebSocket
type WebSocketSink struct {
	conn      *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (w *WebSocketSink) send(msg WebMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg.SessionID = w.sessionID
	if err := w.conn.WriteJSON(msg); err != nil {
		log.Printf("WebSocket write error: %v\n", err)
	}
}

func (w *WebSocketSink) SendOutput(output string) {
	w.send(WebMessage{Type: "output", Content: output})
}

func (w *WebSocketSink) SendStatus(status string) {
	w.send(WebMessage{Type: "status", Content: status})
}

func (w *WebSocketSink) SendError(text string) {
	w.send(WebMessage{Type: "error", Content: text})
}

func (s *WebUIServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v\n", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()

	log.Printf("WebUI client connected (session %s)\n", sessionID)

	sink := &WebSocketSink{
		conn:      conn,
		sessionID: sessionID,
	}

	if !s.authenticate(conn, sink) {
		log.Printf("[WebUI-%s] authentication failed\n", sessionID)
		return
	}

	// Automatically start a shell session for the user. A ?host=name query
	// selects a configured SSH destination instead of the local shell.
	s.startShellSession(sessionID, r.URL.Query().Get("host"), sink)

	// Handle incoming messages
	for {
		var msg WebMessage
		err := conn.ReadJSON(&msg)
		if err != nil {
			log.Printf("WebSocket read error: %v\n", err)
			// Clean up session on disconnect
			s.cleanup(sessionID)
			break
		}

		switch msg.Type {
		case "command":
			s.handleCommand(sessionID, msg.Content, sink)
		case "input":
			// Raw input (character-by-character) for interactive programs
			s.handleRawInput(sessionID, msg.Content)
		case "resize":
			s.handleResize(sessionID, msg)
		case "extract":
			// May block on a cursor probe; never stall the read loop.
			go s.handleExtract(sessionID, sink)
		case "inject":
			s.handleInject(sessionID, msg, sink)
		case "mark":
			s.handleMark(sessionID, sink)
		case "stop":
			s.stopSession(sessionID, sink)
		case "status":
			s.showStatus(sessionID, sink)
		}
	}

	log.Printf("WebUI client disconnected (session %s)\n", sessionID)
}

// authenticate gates the connection on the configured access code. With no
// hash stored yet, the printed one-time setup code is accepted and its hash
// saved, becoming the password from then on.
func (s *WebUIServer) authenticate(conn *websocket.Conn, sink *WebSocketSink) bool {
	if s.config == nil || (s.config.WebPasswordHash == "" && s.setupCode == "") {
		return true
	}

	sink.SendStatus("locked")

	var msg WebMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return false
	}
	if msg.Type != "auth" {
		sink.SendError("Access code required")
		return false
	}

	if s.config.WebPasswordHash == "" {
		if subtle.ConstantTimeCompare([]byte(msg.Content), []byte(s.setupCode)) != 1 {
			sink.SendError("Wrong access code")
			return false
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(msg.Content), bcrypt.DefaultCost)
		if err == nil {
			s.config.WebPasswordHash = string(hash)
			if err := saveConfig(s.config); err != nil {
				log.Printf("Warning: couldn't persist access code hash: %v\n", err)
			}
		}
	} else if bcrypt.CompareHashAndPassword([]byte(s.config.WebPasswordHash), []byte(msg.Content)) != nil {
		sink.SendError("Wrong access code")
		return false
	}

	sink.SendStatus("authenticated")
	return true
}

func (s *WebUIServer) handleCommand(sessionID, command string, sink *WebSocketSink) {
	s.mu.Lock()
	session, hasSession := s.sessions[sessionID]
	s.mu.Unlock()

	// If session exists and active, send to it
	if hasSession && session.Active {
		log.Printf("[WebUI-%s] → [session] %s\n", sessionID, command)
		session.Host.SendCommand(command)
		return
	}

	// No live session - interactive programs get a fresh shell session,
	// everything else runs one-shot on a clean shell
	if isInteractiveCommand(command) {
		s.startShellSession(sessionID, "", sink)
		s.mu.Lock()
		session, hasSession = s.sessions[sessionID]
		s.mu.Unlock()
		if hasSession {
			session.Host.SendCommand(command)
		}
		return
	}
	s.executeCommand(sessionID, command, sink)
}

// isInteractiveCommand checks if a command needs a persistent session
func isInteractiveCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	firstWord := parts[0]

	// Interactive REPLs and tools
	interactive := []string{
		"python", "python3", "ipython",
		"node", "deno", "bun",
		"irb", "ruby",
		"ghci", "stack",
		"lua",
		"psql", "mysql", "redis-cli",
		"vim", "nvim", "emacs", "nano",
		"less", "more",
		"top", "htop", "btop",
		"watch",
		"ssh", "telnet",
	}

	for _, c := range interactive {
		if firstWord == c {
			return true
		}
	}

	return false
}

func (s *WebUIServer) handleRawInput(sessionID, input string) {
	s.mu.Lock()
	session, hasSession := s.sessions[sessionID]
	s.mu.Unlock()

	if !hasSession || !session.Active {
		// No active session - ignore raw input
		return
	}

	// Send raw input directly to PTY (no newline added)
	session.Host.SendRawInput(input)
}

func (s *WebUIServer) handleResize(sessionID string, msg WebMessage) {
	s.mu.Lock()
	session, hasSession := s.sessions[sessionID]
	s.mu.Unlock()

	if !hasSession || !session.Active {
		return
	}

	if msg.Rows > 0 && msg.Cols > 0 {
		log.Printf("[WebUI-%s] Resizing terminal to %dx%d\n", sessionID, msg.Rows, msg.Cols)
		session.Host.Resize(msg.Rows, msg.Cols)
	}
}

// handleExtract reads the command currently typed at the session's prompt
// and reports it back, however the probe and scan fare. The client gets a
// "command" message either way; an empty one means nothing was found.
func (s *WebUIServer) handleExtract(sessionID string, sink *WebSocketSink) {
	s.mu.Lock()
	session, hasSession := s.sessions[sessionID]
	s.mu.Unlock()

	if !hasSession || !session.Active {
		sink.SendError("No active session")
		return
	}

	res := s.extractor.Extract(sessionID, session.Host.Screen(), session.Host)
	if res == nil {
		sink.send(WebMessage{Type: "command", Confidence: "none"})
		return
	}

	log.Printf("[WebUI-%s] captured command (%s): %q\n", sessionID, res.Confidence, res.Text)
	s.notifier.CommandCaptured(sessionID, res)
	sink.send(WebMessage{
		Type:       "command",
		Content:    res.Text,
		Confidence: string(res.Confidence),
		Multiline:  res.Multiline,
		StartRow:   res.StartRow,
		EndRow:     res.EndRow,
		Family:     res.ShellFamily,
	})
}

// handleInject replaces the session's pending input with the given text.
// The text is staged at the prompt, never executed: no newline is sent.
func (s *WebUIServer) handleInject(sessionID string, msg WebMessage, sink *WebSocketSink) {
	s.mu.Lock()
	session, hasSession := s.sessions[sessionID]
	s.mu.Unlock()

	if !hasSession || !session.Active {
		sink.SendError("No active session")
		return
	}

	log.Printf("[WebUI-%s] staging %d bytes at prompt\n", sessionID, len(msg.Content))

	// A multi-line edit in progress can't be cleared line by line; abandon
	// it and start from a fresh prompt.
	if msg.Multiline {
		session.Host.SendRawInput("\x03")
		time.Sleep(100 * time.Millisecond)
	}

	// Kill whatever is on the line, then paste the replacement. Bracketed
	// paste keeps embedded newlines literal instead of submitting.
	session.Host.SendRawInput("\x15")
	if err := session.Host.SendRawInput("\x1b[200~" + msg.Content + "\x1b[201~"); err != nil {
		sink.SendError("Staging failed: " + err.Error())
	}
}

func (s *WebUIServer) handleMark(sessionID string, sink *WebSocketSink) {
	if err := s.extractor.MarkCurrentPrompt(sessionID); err != nil {
		sink.SendError("Mark failed: " + err.Error())
		return
	}
	sink.SendStatus("Prompt marked")
}

func (s *WebUIServer) startShellSession(sessionID, hostName string, sink *WebSocketSink) {
	var host SessionHost
	var err error
	command := "shell"

	if hostName != "" {
		remote, ok := findRemoteHost(s.config, hostName)
		if !ok {
			sink.SendError(fmt.Sprintf("Unknown host %q", hostName))
			return
		}
		log.Printf("[WebUI-%s] → [ssh session] %s\n", sessionID, remote.Addr)
		command = "ssh " + remote.Name
		host, err = NewRemoteTerminal(remote)
	} else {
		log.Printf("[WebUI-%s] → [starting shell session]\n", sessionID)
		host, err = NewTerminal(sink)
	}
	if err != nil {
		log.Printf("Error creating terminal: %v\n", err)
		sink.SendError("Error creating session: " + err.Error())
		return
	}

	if s.config != nil && s.config.HistoryLimit > 0 {
		host.Screen().SetHistoryLimit(s.config.HistoryLimit)
	}

	lens, err := s.extractor.Attach(sessionID, host.Screen())
	if err != nil {
		log.Printf("Error attaching extractor: %v\n", err)
		host.Close()
		sink.SendError("Error creating session")
		return
	}

	session := &Session{
		ID:        sessionID,
		Host:      host,
		Sink:      sink,
		Active:    true,
		Command:   command,
		StartedAt: time.Now(),
		lens:      lens,
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()

	s.notifier.SessionStarted(sessionID, command)

	// Stream output in background (shell is already running)
	go s.streamSessionOutput(sessionID, sink)
}

func (s *WebUIServer) stopSession(sessionID string, sink *WebSocketSink) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	if !exists || !session.Active {
		s.mu.Unlock()
		sink.SendStatus("⚠️ No active session")
		return
	}
	session.Active = false
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	log.Printf("[WebUI-%s] → [stop session]\n", sessionID)
	session.safeCloseDone()
	session.lens.Dispose()
	session.Host.Close()
	s.notifier.SessionEnded(sessionID)

	sink.SendStatus("✅ Session ended")
}

func (s *WebUIServer) showStatus(sessionID string, sink *WebSocketSink) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	s.mu.Unlock()

	if !exists || !session.Active {
		sink.SendStatus("📊 Status: No active session")
		return
	}

	duration := time.Since(session.StartedAt).Round(time.Second)
	screen := session.Host.Screen()
	status := fmt.Sprintf("📊 Active Session\n\n"+
		"Command: %s\n"+
		"Duration: %s\n"+
		"Started: %s\n"+
		"Screen rows: %d",
		session.Command,
		duration,
		session.StartedAt.Format("15:04:05"),
		screen.Length())

	sink.SendStatus(status)
}

func (s *WebUIServer) executeCommand(sessionID, command string, sink *WebSocketSink) {
	log.Printf("[WebUI-%s] → [one-shot] %s\n", sessionID, command)

	terminal, err := NewCommandTerminal(sink)
	if err != nil {
		log.Printf("Error creating terminal: %v\n", err)
		sink.SendError("Error creating terminal")
		return
	}
	defer terminal.Close()

	// Send command
	terminal.SendCommand(command)

	// Stream output
	terminal.StreamOutput()

	log.Printf("[WebUI-%s] ✓ Complete\n", sessionID)
}

func (s *WebUIServer) streamSessionOutput(sessionID string, sink *WebSocketSink) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	s.mu.Unlock()

	if !exists {
		log.Printf("Session output stream: session not found for %s\n", sessionID)
		return
	}

	log.Printf("Session streaming started for WebUI-%s\n", sessionID)

	defer func() {
		log.Printf("Session streaming ended for WebUI-%s\n", sessionID)
		// Cleanup on exit
		s.mu.Lock()
		active := session.Active
		if active {
			session.Active = false
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
		if active {
			session.lens.Dispose()
			session.Host.Close()
			s.notifier.SessionEnded(sessionID)
		}
	}()

	ticker := time.NewTicker(5 * time.Millisecond) // Check every 5ms for instant response
	defer ticker.Stop()

	var buffer string
	lastOutput := time.Now()
	maxIdleTime := 30 * time.Minute

	for {
		select {
		case <-session.done:
			log.Printf("Session manually stopped for WebUI-%s\n", sessionID)
			if buffer != "" {
				// Send raw output for xterm.js terminal emulator
				sink.SendOutput(buffer)
			}
			return

		case output, ok := <-session.Host.Output():
			if !ok {
				log.Printf("Terminal exited for WebUI-%s\n", sessionID)
				if buffer != "" {
					// Send raw output for xterm.js terminal emulator
					sink.SendOutput(buffer)
				}
				sink.SendStatus("🔴 Session ended (program exited)")
				return
			}
			buffer += output
			lastOutput = time.Now()

		case <-ticker.C:
			if buffer != "" && time.Since(lastOutput) > 1*time.Millisecond {
				// Send RAW output immediately for instant typing (1ms delay)
				sink.SendOutput(buffer)
				buffer = ""
			}

			if time.Since(lastOutput) > maxIdleTime {
				log.Printf("Session idle timeout for WebUI-%s\n", sessionID)
				sink.SendStatus("⏱️ Session timed out (30min idle)")
				return
			}
		}
	}
}

func (s *WebUIServer) cleanup(sessionID string) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	if exists && session.Active {
		session.Active = false
		delete(s.sessions, sessionID)
	} else {
		session = nil
	}
	s.mu.Unlock()

	if session != nil {
		session.safeCloseDone()
		session.lens.Dispose()
		session.Host.Close()
		s.notifier.SessionEnded(sessionID)
		log.Printf("Cleaned up session for WebUI-%s\n", sessionID)
	}
}

// findRemoteHost looks up a configured SSH destination by name.
func findRemoteHost(config *Config, name string) (RemoteHost, bool) {
	if config == nil {
		return RemoteHost{}, false
	}
	for _, h := range config.RemoteHosts {
		if h.Name == name {
			return h, true
		}
	}
	return RemoteHost{}, false
}

func (s *WebUIServer) Start(port int) {
	// Gate access behind a one-time code until a password hash exists.
	if s.config != nil && s.config.WebPasswordHash == "" {
		code, err := generateCode()
		if err == nil {
			s.setupCode = code
			log.Printf("\n🔐 Access code (first login sets the password): %s\n\n", code)
		}
	}

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/", serveHTML)

	addr := fmt.Sprintf("localhost:%d", port)
	log.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	log.Printf("🌐 WebUI started: http://%s\n", addr)
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("WebUI server error: %v\n", err)
	}
}

func serveHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, htmlContent)
}

const htmlContent = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Command Lens</title>
    <!-- xterm.js Terminal Emulator -->
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/xterm@5.3.0/css/xterm.css" />
    <script src="https://cdn.jsdelivr.net/npm/xterm@5.3.0/lib/xterm.js"></script>
    <script src="https://cdn.jsdelivr.net/npm/xterm-addon-fit@0.8.0/lib/xterm-addon-fit.js"></script>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: 'SF Mono', 'Monaco', 'Courier New', monospace;
            background: #1a1a1a;
            color: #00ff00;
            height: 100vh;
            max-height: 100vh;
            display: flex;
            flex-direction: column;
            overflow: hidden;
        }
        header {
            background: #0a0a0a;
            padding: 12px 20px;
            border-bottom: 2px solid #00ff00;
            display: flex;
            align-items: center;
            justify-content: space-between;
        }
        h1 { font-size: 18px; letter-spacing: 2px; }
        .status {
            font-size: 12px;
            color: #888;
            margin-top: 5px;
        }
        .status.connected { color: #00ff00; }
        .status.disconnected { color: #ff0000; }

        .toolbar button {
            background: #0a0a0a;
            color: #00ff00;
            border: 1px solid #00ff00;
            font-family: inherit;
            font-size: 12px;
            padding: 6px 12px;
            margin-left: 8px;
            cursor: pointer;
        }
        .toolbar button:hover { background: #003300; }

        main {
            flex: 1;
            display: flex;
            flex-direction: column;
            overflow: hidden;
        }

        #terminal {
            flex: 1;
            overflow: hidden;
            padding: 10px;
            background: #0a0a0a;
            cursor: text;
        }

        #lens {
            display: none;
            position: absolute;
            right: 20px;
            top: 70px;
            width: 480px;
            background: #0a0a0a;
            border: 1px solid #00ff00;
            padding: 12px;
            z-index: 10;
        }
        #lens.visible { display: block; }
        #lens h2 { font-size: 13px; margin-bottom: 8px; letter-spacing: 1px; }
        #lens .badge {
            font-size: 11px;
            padding: 1px 6px;
            border: 1px solid;
            margin-left: 8px;
        }
        #lens .badge.high { color: #00ff00; border-color: #00ff00; }
        #lens .badge.medium { color: #ffaa00; border-color: #ffaa00; }
        #lens .badge.low, #lens .badge.none { color: #ff0000; border-color: #ff0000; }
        #lens textarea {
            width: 100%;
            min-height: 80px;
            background: #1a1a1a;
            color: #00ff00;
            border: 1px solid #333;
            font-family: inherit;
            font-size: 13px;
            padding: 6px;
            resize: vertical;
        }
        #lens .actions { margin-top: 8px; text-align: right; }

        ::-webkit-scrollbar {
            width: 10px;
        }

        ::-webkit-scrollbar-track {
            background: #0a0a0a;
        }

        ::-webkit-scrollbar-thumb {
            background: #333;
        }

        ::-webkit-scrollbar-thumb:hover {
            background: #00ff00;
        }
    </style>
</head>
<body>
    <header>
        <div>
            <h1>COMMAND LENS</h1>
            <div class="status" id="status">Connecting...</div>
        </div>
        <div class="toolbar">
            <button id="btn-extract" title="Read the command typed at the prompt (Ctrl+Shift+E)">⌕ Extract</button>
            <button id="btn-mark" title="Mark the current prompt row">◎ Mark prompt</button>
        </div>
    </header>

    <main>
        <div id="terminal"></div>
    </main>

    <div id="lens">
        <h2>CAPTURED COMMAND<span class="badge" id="lens-badge"></span></h2>
        <textarea id="lens-text" spellcheck="false"></textarea>
        <div class="actions">
            <button id="btn-stage">Stage in session</button>
            <button id="btn-dismiss">Dismiss</button>
        </div>
    </div>

    <script>
        let ws = null;
        let term = null;
        let fitAddon = null;
        let lastCapture = null;
        let pendingCode = null;
        const statusEl = document.getElementById('status');
        const lensEl = document.getElementById('lens');
        const lensText = document.getElementById('lens-text');
        const lensBadge = document.getElementById('lens-badge');

        // Initialize xterm.js terminal
        function initTerminal() {
            term = new Terminal({
                cursorBlink: true,
                cursorStyle: 'block',
                fontSize: 14,
                fontFamily: "'SF Mono', 'Monaco', 'Courier New', monospace",
                theme: {
                    background: '#0a0a0a',
                    foreground: '#00ff00',
                    cursor: '#00ff00',
                    cursorAccent: '#1a1a1a',
                    selection: 'rgba(0, 255, 0, 0.3)',
                    black: '#000000',
                    brightBlack: '#808080',
                    red: '#ff0000',
                    brightRed: '#ff6666',
                    green: '#00ff00',
                    brightGreen: '#66ff66',
                    yellow: '#ffaa00',
                    brightYellow: '#ffdd66',
                    blue: '#0066ff',
                    brightBlue: '#6699ff',
                    magenta: '#ff00ff',
                    brightMagenta: '#ff66ff',
                    cyan: '#00ffff',
                    brightCyan: '#66ffff',
                    white: '#ffffff',
                    brightWhite: '#ffffff'
                },
                rows: 50,
                cols: 120,
                scrollback: 10000,
                allowTransparency: false,
                screenReaderMode: false,
                allowProposedApi: true,
                windowsMode: false,
                macOptionIsMeta: true,
                altClickMovesCursor: false
            });

            // Add FitAddon for responsive sizing
            fitAddon = new FitAddon.FitAddon();
            term.loadAddon(fitAddon);

            // Open terminal in container
            term.open(document.getElementById('terminal'));
            fitAddon.fit();

            // Handle window resize and communicate to backend
            window.addEventListener('resize', () => {
                if (fitAddon) {
                    fitAddon.fit();

                    // Send terminal size to backend
                    if (ws && ws.readyState === WebSocket.OPEN) {
                        ws.send(JSON.stringify({
                            type: 'resize',
                            rows: term.rows,
                            cols: term.cols
                        }));
                    }
                }
            });

            // Ctrl+Shift+E reads the command at the prompt
            term.attachCustomKeyEventHandler((e) => {
                if (e.type === 'keydown' && e.ctrlKey && e.shiftKey && e.code === 'KeyE') {
                    requestExtract();
                    return false;
                }
                return true;
            });

            // Enable direct keyboard input with buffering for smooth TUI experience
            let inputBuffer = '';
            let inputTimer = null;

            term.onData((data) => {
                if (ws && ws.readyState === WebSocket.OPEN) {
                    // Buffer rapid keystrokes to keep TUI apps in sync
                    inputBuffer += data;

                    // Clear existing timer
                    if (inputTimer) {
                        clearTimeout(inputTimer);
                    }

                    // Send buffered input after 10ms of no typing (or immediately for Enter/special keys)
                    const shouldSendImmediately = data === '\r' || data === '\n' || data.charCodeAt(0) < 32;

                    if (shouldSendImmediately) {
                        // Send immediately for Enter and control characters
                        ws.send(JSON.stringify({
                            type: 'input',
                            content: inputBuffer
                        }));
                        inputBuffer = '';
                    } else {
                        // Buffer regular typing for 10ms
                        inputTimer = setTimeout(() => {
                            if (inputBuffer) {
                                ws.send(JSON.stringify({
                                    type: 'input',
                                    content: inputBuffer
                                }));
                                inputBuffer = '';
                            }
                        }, 10);
                    }
                }
            });

            // Auto-focus terminal when clicked
            document.getElementById('terminal').addEventListener('click', () => {
                term.focus();
            });

            // Auto-focus terminal on load
            term.focus();
        }

        function requestExtract() {
            if (ws && ws.readyState === WebSocket.OPEN) {
                statusEl.textContent = '⌕ Reading prompt...';
                ws.send(JSON.stringify({ type: 'extract' }));
            }
        }

        function showCapture(msg) {
            lastCapture = msg;
            statusEl.textContent = '✅ Connected';
            lensBadge.textContent = msg.confidence || 'none';
            lensBadge.className = 'badge ' + (msg.confidence || 'none');
            lensText.value = msg.content || '';
            lensEl.className = 'visible';
            lensText.focus();
        }

        function stageCapture() {
            if (!ws || ws.readyState !== WebSocket.OPEN) return;
            // The edited text goes back to the prompt; the server stages it
            // without executing.
            ws.send(JSON.stringify({
                type: 'inject',
                content: lensText.value,
                multiline: !!(lastCapture && lastCapture.multiline)
            }));
            dismissCapture();
            term.focus();
        }

        function dismissCapture() {
            lensEl.className = '';
            lastCapture = null;
        }

        document.getElementById('btn-extract').addEventListener('click', requestExtract);
        document.getElementById('btn-mark').addEventListener('click', () => {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: 'mark' }));
            }
            term.focus();
        });
        document.getElementById('btn-stage').addEventListener('click', stageCapture);
        document.getElementById('btn-dismiss').addEventListener('click', () => {
            dismissCapture();
            term.focus();
        });

        function connect() {
            const params = new URLSearchParams(window.location.search);
            let wsUrl = 'ws://' + window.location.host + '/ws';
            if (params.get('host')) {
                wsUrl += '?host=' + encodeURIComponent(params.get('host'));
            }
            ws = new WebSocket(wsUrl);

            ws.onopen = () => {
                statusEl.textContent = '✅ Connected';
                statusEl.className = 'status connected';

                // Immediately sync terminal size with backend PTY so cursor
                // positioning is correct from the first byte
                if (term && fitAddon) {
                    fitAddon.fit();
                    ws.send(JSON.stringify({
                        type: 'resize',
                        rows: term.rows,
                        cols: term.cols
                    }));
                }
            };

            ws.onclose = () => {
                statusEl.textContent = '❌ Disconnected - Refresh to reconnect';
                statusEl.className = 'status disconnected';

                if (term) {
                    term.writeln('\r\n\x1b[31m❌ WebSocket disconnected - Refresh page\x1b[0m\r\n');
                }
            };

            ws.onerror = (error) => {
                console.error('WebSocket error:', error);
                if (term) {
                    term.writeln('\r\n\x1b[31m❌ WebSocket error\x1b[0m\r\n');
                }
            };

            ws.onmessage = (event) => {
                const msg = JSON.parse(event.data);

                if (msg.type === 'output') {
                    // Write raw ANSI output directly to xterm.js
                    term.write(msg.content);
                } else if (msg.type === 'command') {
                    // Extraction result for the lens panel
                    showCapture(msg);
                } else if (msg.type === 'status') {
                    if (msg.content === 'locked') {
                        pendingCode = sessionStorage.getItem('lens-code') || prompt('Access code:') || '';
                        ws.send(JSON.stringify({ type: 'auth', content: pendingCode }));
                    } else if (msg.content === 'authenticated') {
                        // Remember the accepted code for this tab
                        if (pendingCode) {
                            sessionStorage.setItem('lens-code', pendingCode);
                        }
                    } else {
                        // Status messages in yellow
                        term.writeln('\r\n\x1b[33m' + msg.content + '\x1b[0m\r\n');
                    }
                } else if (msg.type === 'error') {
                    // Error messages in red with newlines
                    term.writeln('\r\n\x1b[31m' + msg.content + '\x1b[0m\r\n');
                }
            };
        }

        // Initialize terminal and connect on load
        initTerminal();
        connect();
    </script>
</body>
</html>
`
