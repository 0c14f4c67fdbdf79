package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// RemoteHost describes an SSH destination from the config file.
type RemoteHost struct {
	Name     string `json:"name"`
	Addr     string `json:"addr"` // host:port
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	KeyFile  string `json:"key_file,omitempty"`
	// Insecure skips host key verification. Only for hosts that are not in
	// known_hosts and cannot be added.
	Insecure bool `json:"insecure,omitempty"`
}

// RemoteTerminal hosts a shell session on a remote machine over SSH. It
// mirrors the remote display exactly like the local Terminal does, so
// sessions on uncooperative remote shells are inspectable the same way.
type RemoteTerminal struct {
	client     *ssh.Client
	session    *ssh.Session
	stdin      io.WriteCloser
	screen     *Screen
	outputChan chan string
	done       chan struct{}
}

// NewRemoteTerminal dials the host and starts an interactive shell with a
// remote PTY.
func NewRemoteTerminal(host RemoteHost) (*RemoteTerminal, error) {
	auth, err := authMethods(host)
	if err != nil {
		return nil, err
	}

	hostKeys, err := hostKeyCallback(host)
	if err != nil {
		return nil, err
	}

	client, err := ssh.Dial("tcp", host.Addr, &ssh.ClientConfig{
		User:            host.User,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", host.Addr, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("session on %s: %w", host.Addr, err)
	}

	if err := session.RequestPty("xterm-256color", defaultRows, defaultCols, ssh.TerminalModes{}); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("request pty: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, err
	}

	if err := session.Shell(); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("start shell: %w", err)
	}

	r := &RemoteTerminal{
		client:     client,
		session:    session,
		stdin:      stdin,
		screen:     NewScreen(defaultRows, defaultCols),
		outputChan: make(chan string, 100),
		done:       make(chan struct{}),
	}

	r.screen.SetResponder(func(resp string) {
		r.stdin.Write([]byte(resp))
	})

	go r.readOutput(stdout)

	return r, nil
}

func authMethods(host RemoteHost) ([]ssh.AuthMethod, error) {
	var auth []ssh.AuthMethod
	if host.KeyFile != "" {
		data, err := os.ReadFile(host.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read key %s: %w", host.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse key %s: %w", host.KeyFile, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if host.Password != "" {
		auth = append(auth, ssh.Password(host.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("host %s: no key file or password configured", host.Name)
	}
	return auth, nil
}

func hostKeyCallback(host RemoteHost) (ssh.HostKeyCallback, error) {
	if host.Insecure {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	cb, err := knownhosts.New(filepath.Join(home, ".ssh", "known_hosts"))
	if err != nil {
		return nil, fmt.Errorf("known_hosts: %w", err)
	}
	return cb, nil
}

// readOutput pumps remote output into the mirror and on to the consumer.
// With a remote PTY, stderr arrives merged into stdout.
func (r *RemoteTerminal) readOutput(stdout io.Reader) {
	buf := make([]byte, 8192)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			r.screen.Write(buf[:n])
			select {
			case r.outputChan <- string(buf[:n]):
			case <-r.done:
				close(r.outputChan)
				return
			}
		}
		if err != nil {
			close(r.outputChan)
			return
		}
	}
}

// Screen returns the display mirror for this session.
func (r *RemoteTerminal) Screen() *Screen {
	return r.screen
}

// Output returns the raw output stream. Closed when the session ends.
func (r *RemoteTerminal) Output() <-chan string {
	return r.outputChan
}

// SendCommand sends a command line followed by Enter, as separate writes
// like the local host does.
func (r *RemoteTerminal) SendCommand(command string) {
	r.stdin.Write([]byte(command))
	time.Sleep(50 * time.Millisecond)
	r.stdin.Write([]byte("\r"))
}

// SendRawInput sends raw bytes to the remote shell without a newline.
func (r *RemoteTerminal) SendRawInput(input string) error {
	_, err := r.stdin.Write([]byte(input))
	return err
}

// Resize propagates a window size change to the remote PTY and the mirror.
func (r *RemoteTerminal) Resize(rows, cols int) error {
	if err := r.session.WindowChange(rows, cols); err != nil {
		return err
	}
	r.screen.Resize(rows, cols)
	return nil
}

// Close tears down the session and connection.
func (r *RemoteTerminal) Close() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
	r.session.Close()
	r.client.Close()
}
