//go:build unix

package espeak

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func suspend(p *os.Process) error {
	if err := unix.Kill(p.Pid, unix.SIGSTOP); err != nil {
		return fmt.Errorf("suspend espeak-ng: %w", err)
	}
	return nil
}

func resume(p *os.Process) error {
	if err := unix.Kill(p.Pid, unix.SIGCONT); err != nil {
		return fmt.Errorf("resume espeak-ng: %w", err)
	}
	return nil
}
