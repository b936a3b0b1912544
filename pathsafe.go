package workcopy

import (
	"os"

	"github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-billy/v5"

	"github.com/jjgo/workcopy/path"
)

// rooted matches filesystems that report a root directory. Every
// billy.Filesystem does (through billy.Chroot); memfs reports "/".
type rooted interface {
	Root() string
}

// checkNoEscape resolves p against the filesystem's Root() on the host
// with securejoin.SecureJoin and returns ErrInvalidPath only when that
// call itself fails (for example on a symlink loop or an Lstat error).
// SecureJoin clamps a symlink that points outside the root back inside it
// rather than failing, and the joined path is not used, so a symlink that
// leads out of the workspace is not reported here. It is a no-op when
// Root() does not exist on the host. RepoPath itself already rejects ".."
// components (path package, FromComponents).
func checkNoEscape(fs billy.Filesystem, p path.RepoPath) error {
	r, ok := fs.(rooted)
	if !ok {
		return nil
	}

	root := r.Root()
	if _, err := os.Stat(root); err != nil {
		return nil
	}

	_, err := securejoin.SecureJoin(root, p.String())
	if err != nil {
		return &ErrInvalidPath{Path: p, Reason: err.Error()}
	}
	return nil
}
