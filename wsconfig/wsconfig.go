// Package wsconfig parses the small slice of git's [core] configuration
// the working-copy engine reads (spec §4.7): whether to materialize
// symlinks as real filesystem symlinks, and the name of an external
// filesystem-monitor hook, which is parsed and stored but not consulted by
// the snapshot walk. Parsing follows go-git's own config
// decoder in spirit, reading the gcfg/INI dialect git uses for
// .git/config.
package wsconfig

import (
	"io"
	"strconv"

	"github.com/go-git/gcfg"
)

// Config is the subset of git's config the engine reads.
type Config struct {
	Core struct {
		// Symlinks controls whether Symlink-kind entries are materialized as
		// real symlinks (true, the default) or as plain files containing the
		// link target (false — used on filesystems without symlink support).
		Symlinks bool `gcfg:"symlinks"`
		// FSMonitor names an external filesystem-monitor hook command. It
		// is parsed and kept here only; the snapshot engine does not
		// consult it and always performs a full directory walk.
		FSMonitor string `gcfg:"fsmonitor"`
	}
}

// Default returns the configuration the engine assumes when no config
// file is present: symlinks on, no monitor.
func Default() Config {
	var c Config
	c.Core.Symlinks = defaultSymlinkSupport()
	return c
}

// Decode reads an INI-formatted config body from r into a Config seeded
// with Default values.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	if err := gcfg.ReadInto(&c, r); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseBool mirrors git's tolerant boolean parsing (spec §4.7): "true",
// "yes", "on", "1" are true; "false", "no", "off", "0" are false.
func ParseBool(s string) (bool, error) {
	switch s {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return strconv.ParseBool(s)
	}
}
