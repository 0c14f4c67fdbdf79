package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunStandalone runs a console session without the web UI. Session output
// streams straight to stdout; lines starting with ':' are directives,
// everything else goes to the shell.
func RunStandalone() {
	fmt.Println("Command Lens Console")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("Directives:")
	fmt.Println("  :extract     read the command typed at the prompt")
	fmt.Println("  :mark        mark the current prompt row")
	fmt.Println("  :run <cmd>   one-shot run on a clean shell")
	fmt.Println("  :quit        exit")
	fmt.Println("Anything else is sent to the shell.")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	config, _ := loadConfig()

	term, err := NewTerminal(&ConsoleSink{})
	if err != nil {
		fmt.Printf("Error creating terminal: %v\n", err)
		return
	}
	defer term.Close()

	if config != nil && config.HistoryLimit > 0 {
		term.Screen().SetHistoryLimit(config.HistoryLimit)
	}

	extractor := NewExtractor()
	lens, err := extractor.Attach("console", term.Screen())
	if err != nil {
		fmt.Printf("Error attaching extractor: %v\n", err)
		return
	}
	defer lens.Dispose()

	// Live feed: the shell's own prompt and echo carry the conversation.
	go func() {
		for chunk := range term.Output() {
			os.Stdout.WriteString(chunk)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ":quit" || line == ":exit":
			fmt.Println("\nGoodbye!")
			return

		case line == ":extract":
			res := extractor.Extract("console", term.Screen(), term)
			if res == nil {
				fmt.Println("\n[lens] nothing readable at the prompt")
				continue
			}
			fmt.Printf("\n[lens] %s confidence, rows %d-%d:\n%s\n",
				res.Confidence, res.StartRow, res.EndRow, res.Text)

		case line == ":mark":
			if err := extractor.MarkCurrentPrompt("console"); err != nil {
				fmt.Printf("\n[lens] mark failed: %v\n", err)
				continue
			}
			fmt.Println("\n[lens] prompt marked")

		case strings.HasPrefix(line, ":run "):
			runOneShot(strings.TrimPrefix(line, ":run "))

		case line == "":
			continue

		default:
			term.SendCommand(line)
		}
	}
}

// runOneShot executes a single command on a clean shell and prints the
// settled output.
func runOneShot(command string) {
	fmt.Printf("\n→ Executing: %s\n\n", command)

	term, err := NewCommandTerminal(&ConsoleSink{})
	if err != nil {
		fmt.Printf("Error creating terminal: %v\n", err)
		return
	}
	defer term.Close()

	term.SendCommand(command)
	term.StreamOutput()

	fmt.Println("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}
