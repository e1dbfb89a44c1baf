package services

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Older router firmware only speaks these
var (
	legacyKeyExchanges = []string{
		"curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256",
		"diffie-hellman-group14-sha1",
		"diffie-hellman-group1-sha1",
	}
	legacyCiphers = []string{
		"aes128-ctr",
		"aes192-ctr",
		"aes256-ctr",
		"aes128-cbc",
		"3des-cbc",
	}
)

// SSHOptions configures the router login
type SSHOptions struct {
	Host           string
	Port           int
	User           string
	Password       string
	KnownHostsFile string // empty accepts any host key
	Timeout        time.Duration
	Legacy         bool
}

// SSHExecutor runs commands over a single SSH connection, one session per command
type SSHExecutor struct {
	client *ssh.Client
	addr   string
}

// DialSSH opens the connection to the router
func DialSSH(opts SSHOptions, log *slog.Logger) (*SSHExecutor, error) {
	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if opts.KnownHostsFile != "" {
		cb, err := knownhosts.New(opts.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("load known hosts: %w", err)
		}
		hostKeyCallback = cb
	}

	password := opts.Password
	cfg := &ssh.ClientConfig{
		User: opts.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			// Some firmware only offers keyboard-interactive
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.Timeout,
	}
	if opts.Legacy {
		cfg.KeyExchanges = legacyKeyExchanges
		cfg.Ciphers = legacyCiphers
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	log.Debug("Connecting to router", "addr", addr, "user", opts.User)

	client, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	return &SSHExecutor{client: client, addr: addr}, nil
}

// Execute runs command in a new session and collects stdout and the exit status
func (e *SSHExecutor) Execute(command string) (*Result, error) {
	session, err := e.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	status := 0
	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("ssh run: %w", err)
		}
		status = exitErr.ExitStatus()
	}

	return &Result{
		Lines:      SplitLines(stdout.String()),
		ExitStatus: status,
	}, nil
}

// Close closes the connection
func (e *SSHExecutor) Close() error {
	return e.client.Close()
}

// Addr returns the router address this executor is connected to
func (e *SSHExecutor) Addr() string {
	return e.addr
}

// SplitLines splits command output into lines without the trailing newline
func SplitLines(output string) []string {
	output = strings.TrimRight(output, "\r\n")
	if output == "" {
		return nil
	}
	lines := strings.Split(output, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
