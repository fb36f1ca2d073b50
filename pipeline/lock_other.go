//go:build !unix

package pipeline

import "os"

// checkUnlocked opens path read-write. On Windows the open fails while
// another process holds the file without write sharing.
func checkUnlocked(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	return f.Close()
}
