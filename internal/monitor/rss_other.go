//go:build !unix

package monitor

// maxRSS is unavailable on this platform.
func maxRSS() uint64 { return 0 }
