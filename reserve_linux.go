//go:build linux

package recordgen

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// reserveSpace allocates size bytes of disk blocks behind file without
// changing its length, so writes still append from offset 0 and a crash
// never leaves a zero-filled tail. ENOSPC is returned as is; filesystems
// without fallocate support (some NFS and FUSE mounts) are skipped.
func reserveSpace(file *os.File, size int64) error {
	err := unix.Fallocate(int(file.Fd()), unix.FALLOC_FL_KEEP_SIZE, 0, size)
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOSYS) {
		return nil
	}
	return err
}
