package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

// Version is set at build time via ldflags
var version = "dev"

type Config struct {
	// WebPasswordHash is the bcrypt hash of the web access code. Empty
	// until the first successful login sets it.
	WebPasswordHash string `json:"web_password_hash,omitempty"`

	// Optional Telegram notifier. Both fields must be set to enable it.
	BotToken     string `json:"bot_token,omitempty"`
	NotifyChatID int64  `json:"notify_chat_id,omitempty"`

	// Named SSH destinations selectable with ?host= in the web UI.
	RemoteHosts []RemoteHost `json:"remote_hosts,omitempty"`

	// HistoryLimit overrides the screen scrollback cap (rows).
	HistoryLimit int `json:"history_limit,omitempty"`
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("command-lens v%s\n", version)
		return
	}

	// --stop: stop running daemon
	if len(os.Args) > 1 && os.Args[1] == "--stop" {
		daemonStop()
		return
	}

	// --status: check daemon status
	if len(os.Args) > 1 && os.Args[1] == "--status" {
		daemonStatus()
		return
	}

	// --daemon: start as background daemon
	// --daemon-child: internal flag used by the daemon parent process
	// Check for --daemon or --daemon-child anywhere in args (can combine with --web)
	isDaemon := false
	isDaemonChild := false
	for _, arg := range os.Args[1:] {
		if arg == "--daemon" {
			isDaemon = true
		}
		if arg == "--daemon-child" {
			isDaemonChild = true
		}
	}

	if isDaemon {
		// Build extra args (everything except --daemon)
		var extraArgs []string
		for _, arg := range os.Args[1:] {
			if arg != "--daemon" {
				extraArgs = append(extraArgs, arg)
			}
		}
		daemonize(extraArgs)
		return
	}

	// If this is the daemon child process, set up logging and PID cleanup
	if isDaemonChild {
		// Remove --daemon-child from args for downstream parsing
		var cleanArgs []string
		cleanArgs = append(cleanArgs, os.Args[0])
		for _, arg := range os.Args[1:] {
			if arg != "--daemon-child" {
				cleanArgs = append(cleanArgs, arg)
			}
		}
		os.Args = cleanArgs

		// Set up log output to the log file
		logFile, err := os.OpenFile(logFilePath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(logFile)
		}

		// Set cleanup hook for signal-based shutdown (os.Exit bypasses defers)
		daemonCleanupHook = removePIDFile

		// Ensure PID file cleanup on normal exit (defer)
		defer removePIDFile()
	}

	// Check for standalone console mode
	if len(os.Args) > 1 && os.Args[1] == "--standalone" {
		RunStandalone()
		return
	}

	// Web UI is the default surface
	port := 8080
	if len(os.Args) > 1 && os.Args[1] == "--web" && len(os.Args) > 2 {
		fmt.Sscanf(os.Args[2], "%d", &port)
	}
	startWeb(port)
}

// configPathOverride allows tests to redirect config to a temp directory
var configPathOverride string

// daemonCleanupHook is set when running as daemon child so the PID file is
// removed on signal shutdown (os.Exit bypasses defers).
var daemonCleanupHook func()

func getConfigPath() string {
	if configPathOverride != "" {
		dir := filepath.Dir(configPathOverride)
		os.MkdirAll(dir, 0700)
		return configPathOverride
	}
	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".command-lens")
	os.MkdirAll(configDir, 0700)
	return filepath.Join(configDir, "config.json")
}

func loadConfig() (*Config, error) {
	data, err := os.ReadFile(getConfigPath())
	if err != nil {
		return nil, err
	}

	var config Config
	err = json.Unmarshal(data, &config)
	return &config, err
}

func saveConfig(config *Config) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(getConfigPath(), data, 0600)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000000))
	if err != nil {
		return "", fmt.Errorf("crypto/rand failed: %w", err)
	}
	return fmt.Sprintf("%08d", n.Int64()), nil
}

func startWeb(port int) {
	config, err := loadConfig()
	if err != nil {
		// First run: the web login will create the config.
		config = &Config{}
	}

	fmt.Printf("Command Lens v%s\n", version)

	server := NewWebUIServer(config)

	if config.BotToken != "" && config.NotifyChatID != 0 {
		notifier, err := NewNotifier(config.BotToken, config.NotifyChatID)
		if err != nil {
			log.Printf("Warning: notifier disabled: %v\n", err)
		} else {
			server.SetNotifier(notifier)
		}
	}

	// Graceful shutdown keeps daemon PID files honest.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("🛑 Shutting down...")
		if daemonCleanupHook != nil {
			daemonCleanupHook()
		}
		os.Exit(0)
	}()

	server.Start(port)
}
