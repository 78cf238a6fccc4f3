//go:build darwin

package recordgen

import (
	"os"

	"golang.org/x/sys/unix"
)

// reserveSpace allocates size bytes of disk blocks behind file with
// F_PREALLOCATE. A contiguous extent is tried first. F_PREALLOCATE never
// changes the file length.
func reserveSpace(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATECONTIG | unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	if err := unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst); err == nil {
		return nil
	}
	fst.Flags = unix.F_ALLOCATEALL
	return unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
}
