//go:build windows

package wsconfig

import "golang.org/x/sys/windows"

// defaultSymlinkSupport reports whether a freshly opened workspace should
// default core.symlinks to true. Windows only grants SeCreateSymbolicLinkPrivilege
// to an elevated process unless the host has Developer Mode enabled, and
// there is no portable way to probe the latter through x/sys/windows alone
// — so an unprivileged token conservatively falls back to the plain-file
// symlink materialization (spec §4.4/§7 UnsupportedKind) rather than
// failing checkout partway through.
func defaultSymlinkSupport() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
