//go:build unix

package pipeline

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// checkUnlocked opens path read-write and tries a non-blocking exclusive
// flock. The lock is released before returning.
func checkUnlocked(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return fmt.Errorf("flock: %w", err)
	}
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
