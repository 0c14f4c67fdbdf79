//go:build !windows

package main

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// getShell returns the shell command and arguments for Unix systems. The
// user's own shell is preferred, rc files included: sessions should render
// the prompt the user actually has.
func getShell() (string, []string) {
	if shell := os.Getenv("SHELL"); shell != "" {
		if _, err := os.Stat(shell); err == nil {
			return shell, nil
		}
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash", nil
	}
	return "/bin/sh", nil
}

// getOneShotShell returns a shell stripped of rc files for clean one-shot
// command runs.
func getOneShotShell() (string, []string) {
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash", []string{"--norc", "--noprofile"}
	}
	return "/bin/sh", nil
}

// setProcAttr sets Unix-specific process attributes for TTY support
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,  // Create new session (TTY requirement)
		Setctty: true,  // Make this the controlling terminal
	}
}

// killProcessGroup terminates the process and its children using Unix signals.
// Since we used Setsid, killing the negative PID targets the entire session group.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil || cmd.Process.Pid <= 0 {
		return
	}

	// Send SIGHUP to the session group — proper TTY termination
	syscall.Kill(-cmd.Process.Pid, syscall.SIGHUP)

	// Give processes time to cleanup
	time.Sleep(100 * time.Millisecond)

	// Force kill if still alive
	cmd.Process.Signal(syscall.SIGTERM)
	time.Sleep(50 * time.Millisecond)
	cmd.Process.Kill()
}
