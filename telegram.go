package main

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink sends output to Telegram
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func (t *TelegramSink) SendOutput(output string) {
	// Trim whitespace and check if empty
	output = strings.TrimSpace(output)
	if output == "" {
		// Skip empty messages - Telegram rejects them
		return
	}

	// Choose format based on content:
	// - ASCII art → <pre> (monospace, preserves alignment)
	// - Markdown content → HTML formatting in <blockquote>
	// - Plain text → send as-is, no wrapping
	maxLen := 4000

	if needsMonospace(output) {
		// ASCII art: wrap in <pre>
		formatted := "<pre>" + html.EscapeString(output) + "</pre>"
		t.sendHTML(formatted, "pre", maxLen)
	} else if hasMarkdown(output) {
		// Markdown: convert and wrap in blockquote
		formatted := formatMarkdownToTelegramHTML(output)
		if len(output) > 500 {
			formatted = "<blockquote expandable>" + formatted + "</blockquote>"
			t.sendHTML(formatted, "blockquote expandable", maxLen)
		} else {
			formatted = "<blockquote>" + formatted + "</blockquote>"
			t.sendHTML(formatted, "blockquote", maxLen)
		}
	} else {
		// Plain text: send without formatting
		t.sendPlain(output, maxLen)
	}
}

// sendPlain sends a plain text message (no HTML parsing).
// Splits into chunks if the message exceeds maxLen.
func (t *TelegramSink) sendPlain(text string, maxLen int) {
	if len(text) <= maxLen {
		msg := tgbotapi.NewMessage(t.chatID, text)
		_, err := t.bot.Send(msg)
		if err != nil {
			log.Printf("❌ Failed to send message: %v\n", err)
		}
		return
	}
	// Split on newlines
	for i := 0; i < len(text); i += maxLen {
		end := i + maxLen
		if end > len(text) {
			end = len(text)
		}
		chunk := strings.TrimSpace(text[i:end])
		if chunk == "" {
			continue
		}
		msg := tgbotapi.NewMessage(t.chatID, chunk)
		_, err := t.bot.Send(msg)
		if err != nil {
			log.Printf("❌ Failed to send chunk: %v\n", err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// sendHTML sends an HTML-formatted message. Splits into chunks wrapped
// in the given tag if the message exceeds maxLen. The openTag parameter
// is the full opening tag (e.g., "blockquote expandable") to preserve
// attributes like expandable across chunks.
func (t *TelegramSink) sendHTML(formatted string, openTag string, maxLen int) {
	if len(formatted) <= maxLen {
		msg := tgbotapi.NewMessage(t.chatID, formatted)
		msg.ParseMode = "HTML"
		_, err := t.bot.Send(msg)
		if err != nil {
			log.Printf("❌ Failed to send message: %v\n", err)
		}
		return
	}

	// Derive the closing tag name (first word of openTag)
	closeTag := strings.Fields(openTag)[0]
	tagOverhead := len("<>") + len(openTag) + len("</>") + len(closeTag) + 100
	rawMaxLen := maxLen - tagOverhead

	var chunks []string
	if closeTag == "pre" {
		// Strip outer <pre>...</pre>, split with entity-safe boundaries
		inner := strings.TrimPrefix(formatted, "<pre>")
		inner = strings.TrimSuffix(inner, "</pre>")
		chunks = splitAtSafeBoundary(inner, rawMaxLen)
	} else {
		// Strip outer blockquote to get inner HTML
		inner := formatted
		inner = strings.TrimPrefix(inner, "<blockquote expandable>")
		inner = strings.TrimPrefix(inner, "<blockquote>")
		inner = strings.TrimSuffix(inner, "</blockquote>")
		chunks = splitFormattedMessage(inner, rawMaxLen)
	}

	for _, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		chunkFormatted := "<" + openTag + ">" + chunk + "</" + closeTag + ">"
		msg := tgbotapi.NewMessage(t.chatID, chunkFormatted)
		msg.ParseMode = "HTML"
		_, err := t.bot.Send(msg)
		if err != nil {
			log.Printf("❌ Failed to send chunk: %v\n", err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// needsMonospace returns true if content contains ASCII art or alignment
// that requires monospace <pre> formatting to display correctly.
func needsMonospace(s string) bool {
	for _, r := range s {
		switch r {
		case '▐', '▛', '█', '▜', '▌', '▝', '▘', '░', '▒', '▓':
			return true // Block drawing / ASCII art
		}
	}
	return false
}

// Notifier posts session lifecycle and capture events to a Telegram chat.
// Send-only: incoming bot updates are ignored entirely, so the bot can
// never drive the terminal. A nil Notifier is valid and does nothing,
// letting call sites skip the configured check.
type Notifier struct {
	sink *TelegramSink
}

// NewNotifier connects the bot API for the configured notification chat.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	log.Printf("🤖 Notifier connected: @%s\n", bot.Self.UserName)
	return &Notifier{sink: &TelegramSink{bot: bot, chatID: chatID}}, nil
}

// SessionStarted announces a new terminal session.
func (n *Notifier) SessionStarted(sessionID, command string) {
	if n == nil {
		return
	}
	n.sink.SendOutput(fmt.Sprintf("🟢 Session %s started (%s)", shortID(sessionID), command))
}

// SessionEnded announces that a session went away.
func (n *Notifier) SessionEnded(sessionID string) {
	if n == nil {
		return
	}
	n.sink.SendOutput(fmt.Sprintf("🔴 Session %s ended", shortID(sessionID)))
}

// CommandCaptured reports a successful prompt read. The command goes out
// in a code block so Telegram renders it monospace and copyable.
func (n *Notifier) CommandCaptured(sessionID string, res *ExtractionResult) {
	if n == nil || res == nil {
		return
	}
	text := fmt.Sprintf("⌕ Session %s, at the prompt (%s confidence):\n```\n%s\n```",
		shortID(sessionID), res.Confidence, res.Text)
	n.sink.SendOutput(text)
}

// shortID trims a session UUID down to something readable in a chat.
func shortID(sessionID string) string {
	if len(sessionID) > 8 {
		return sessionID[:8]
	}
	return sessionID
}
