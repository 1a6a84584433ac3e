//go:build !windows

package intercept

import (
	"errors"

	"golang.org/x/sys/unix"
)

// errnoCode extracts the OS error number included in the diagnostic line
// when a local source file cannot be opened.
func errnoCode(err error) int {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return -1
}
