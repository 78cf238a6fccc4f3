//go:build !linux && !darwin

package recordgen

import "os"

// reserveSpace is a no-op here. Growing the file with Truncate would only
// create a sparse file and would not surface a full disk any earlier.
func reserveSpace(*os.File, int64) error { return nil }
