//go:build !windows

package wsconfig

// defaultSymlinkSupport reports whether a freshly opened workspace should
// default core.symlinks to true. Every non-Windows platform this engine
// targets can create real filesystem symlinks without special privilege.
func defaultSymlinkSupport() bool { return true }
