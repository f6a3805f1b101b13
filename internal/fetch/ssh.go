package fetch

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// remoteTmpPath is where the relay host stages the download.
const remoteTmpPath = "/tmp/ads2bib.pdf"

// SSHRelay downloads URLs on a remote host and copies the file back over
// the SSH channel. Authentication goes through the local SSH agent.
type SSHRelay struct {
	user    string
	host    string
	port    int
	timeout time.Duration
}

// NewSSHRelay creates a relay targeting user@host:port.
func NewSSHRelay(user, host string, port int) *SSHRelay {
	if port <= 0 {
		port = 22
	}
	return &SSHRelay{user: user, host: host, port: port, timeout: 10 * time.Second}
}

// Download runs wget on the relay host with the browser User-Agent, then
// streams the staged file back into dest.
func (r *SSHRelay) Download(ctx context.Context, url, dest string) error {
	client, closeAgent, err := r.dial()
	if err != nil {
		return err
	}
	defer client.Close()
	defer closeAgent()

	// Remote fetch; wget exit status is ignored like a local non-2xx
	// response, the content probe decides
	fetchCmd := fmt.Sprintf(
		"wget -q -O %s --header=%q --user-agent=%q %q",
		remoteTmpPath, "Accept: text/html", userAgent, url)
	sess, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("creating SSH session on %s: %w", r.host, err)
	}
	_ = sess.Run(fetchCmd)
	sess.Close()

	// Copy back over the secure channel
	sess, err = client.NewSession()
	if err != nil {
		return fmt.Errorf("creating SSH session on %s: %w", r.host, err)
	}
	defer sess.Close()

	data, err := sess.Output("cat " + remoteTmpPath)
	if err != nil {
		return fmt.Errorf("copying %s from %s: %w", remoteTmpPath, r.host, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// dial connects to the relay host using keys from the SSH agent.
func (r *SSHRelay) dial() (*ssh.Client, func(), error) {
	authSock := os.Getenv("SSH_AUTH_SOCK")
	if authSock == "" {
		return nil, nil, fmt.Errorf("SSH agent not running. Start with `eval $(ssh-agent)` and add keys with `ssh-add`")
	}

	conn, err := net.Dial("unix", authSock)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to SSH agent at %s: %w", authSock, err)
	}
	closeAgent := func() { conn.Close() }

	agentClient := agent.NewClient(conn)
	signers, err := agentClient.Signers()
	if err != nil {
		closeAgent()
		return nil, nil, fmt.Errorf("getting SSH agent signers: %w", err)
	}
	if len(signers) == 0 {
		closeAgent()
		return nil, nil, fmt.Errorf("SSH agent has no keys. Add keys with `ssh-add`")
	}

	// InsecureIgnoreHostKey disables host key verification. The relay is
	// a user-chosen trusted host; for untrusted networks, use a
	// known_hosts file instead.
	config := &ssh.ClientConfig{
		User:            r.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signers...)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.timeout,
	}

	addr := fmt.Sprintf("%s:%d", r.host, r.port)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		closeAgent()
		return nil, nil, r.wrapSSHError(err)
	}
	return client, closeAgent, nil
}

// wrapSSHError produces actionable error messages based on SSH error types.
func (r *SSHRelay) wrapSSHError(err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "no supported methods remain"):
		return fmt.Errorf("SSH authentication failed for %s. Check ~/.ssh/config and ensure your key is authorized", r.host)
	case strings.Contains(errStr, "i/o timeout") || strings.Contains(errStr, "connection timed out"):
		return fmt.Errorf("connection to %s timed out", r.host)
	case strings.Contains(errStr, "connection refused"):
		return fmt.Errorf("connection refused by %s — is SSH running on the server?", r.host)
	default:
		return fmt.Errorf("SSH error connecting to %s: %w", r.host, err)
	}
}
