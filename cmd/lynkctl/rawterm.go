package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// rawTerm puts stdin into non-canonical, unechoed mode so single
// keystrokes (T/L/G/W/F/Q) are delivered to the program without
// waiting for Enter, restoring the original settings on Restore.
type rawTerm struct {
	fd       int
	original unix.Termios
	active   bool
}

func newRawTerm(fd int) (*rawTerm, error) {
	orig, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("rawterm: get termios: %w", err)
	}
	return &rawTerm{fd: fd, original: *orig}, nil
}

// Enable switches stdin to raw mode: no canonical line buffering, no
// local echo, one byte at a time.
func (r *rawTerm) Enable() error {
	raw := r.original
	raw.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	raw.Iflag &^= unix.IXON | unix.ICRNL
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(r.fd, unix.TCSETS, &raw); err != nil {
		return fmt.Errorf("rawterm: set raw: %w", err)
	}
	r.active = true
	return nil
}

// Restore returns stdin to whatever mode it was in before Enable.
func (r *rawTerm) Restore() error {
	if !r.active {
		return nil
	}
	r.active = false
	if err := unix.IoctlSetTermios(r.fd, unix.TCSETS, &r.original); err != nil {
		return fmt.Errorf("rawterm: restore: %w", err)
	}
	return nil
}
