//go:build !linux

package recordgen

import "os"

func adviseSequential(*os.File, []byte) {}
