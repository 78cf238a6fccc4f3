//go:build linux

package recordgen

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel that f, and the mapping m of it, are
// about to be scanned once from front to back. Hints only; errors are
// ignored.
func adviseSequential(f *os.File, m []byte) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
	if len(m) > 0 {
		_ = unix.Madvise(m, unix.MADV_SEQUENTIAL)
	}
}
