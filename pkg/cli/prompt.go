package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// terminalFd returns the descriptor of in when it is an interactive terminal.
func terminalFd(in io.Reader) (int, bool) {
	f, ok := in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd()) //nolint:gosec // descriptors fit in int
	return fd, term.IsTerminal(fd)
}

// readSecret prompts on errOut and reads one line from in, without echo when
// in is a terminal.
func readSecret(in io.Reader, errOut io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(errOut, prompt)
	if fd, ok := terminalFd(in); ok {
		b, err := term.ReadPassword(fd)
		_, _ = fmt.Fprintln(errOut)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	r, ok := in.(*bufio.Reader)
	if !ok {
		r = bufio.NewReader(in)
	}
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptNewPassword reads a password and its confirmation.
func promptNewPassword(in io.Reader, errOut io.Writer) (password, verify string, err error) {
	if _, ok := terminalFd(in); !ok {
		in = bufio.NewReader(in)
	}
	if password, err = readSecret(in, errOut, "Password: "); err != nil {
		return "", "", err
	}
	if verify, err = readSecret(in, errOut, "Confirm password: "); err != nil {
		return "", "", err
	}
	return password, verify, nil
}
