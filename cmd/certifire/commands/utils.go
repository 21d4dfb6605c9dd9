package commands

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// readPasswordSecurely reads a password from the terminal without echoing.
// Prompts go to errOut so stdout stays clean for scripts.
func readPasswordSecurely(prompt string, errOut io.Writer) (string, error) {
	fmt.Fprintf(errOut, "%s", prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Fprintf(errOut, "\n")

	if err != nil {
		return "", err
	}

	return string(password), nil
}

// parseSSHURL parses username@hostname[:port]. IPv6 hosts need brackets
// when a port is given. A zero port means "use the default".
func parseSSHURL(sshURL string) (username, hostname string, port uint, err error) {
	username, hostPort, found := strings.Cut(sshURL, "@")

	if !found {
		return "", "", 0, fmt.Errorf("username is required in SSH URL format: username@hostname[:port]")
	}

	if username == "" {
		return "", "", 0, fmt.Errorf("username cannot be empty")
	}

	hostname = hostPort

	if h, p, splitErr := net.SplitHostPort(hostPort); splitErr == nil {
		parsed, parseErr := strconv.ParseUint(p, 10, 16)

		if parseErr != nil || parsed == 0 {
			return "", "", 0, fmt.Errorf("invalid port number: %s", p)
		}

		hostname, port = h, uint(parsed)
	} else if strings.Count(hostPort, ":") == 1 {
		return "", "", 0, fmt.Errorf("invalid SSH URL format: %s", sshURL)
	}

	hostname = strings.Trim(hostname, "[]")

	if hostname == "" {
		return "", "", 0, fmt.Errorf("hostname cannot be empty")
	}

	return username, hostname, port, nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid destination id %q", s)
	}

	return uint(id), nil
}
