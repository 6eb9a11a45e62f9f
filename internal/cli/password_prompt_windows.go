//go:build windows

package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	handle := windows.Handle(stdin.Fd())
	var saved uint32
	if err := windows.GetConsoleMode(handle, &saved); err != nil {
		return nil, err
	}

	if err := windows.SetConsoleMode(handle, saved&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, err
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, saved)
	}()

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
