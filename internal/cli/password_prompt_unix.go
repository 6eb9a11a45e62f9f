//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// readPasswordNoEcho reads one line from stdin with terminal echo turned
// off, restoring the termios state before returning.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	fd := int(stdin.Fd())
	state, err := unix.IoctlGetTermios(fd, termiosReadRequest)
	if err != nil {
		return nil, err
	}
	saved := *state
	quiet := saved
	quiet.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, termiosWriteRequest, &quiet); err != nil {
		return nil, err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, termiosWriteRequest, &saved)
	}()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
