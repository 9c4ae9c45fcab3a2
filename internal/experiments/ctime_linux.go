//go:build linux

package experiments

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// changeTime returns the inode change time of path, which is what cluster
// tooling treats as the experiment creation time. Falls back to the mtime.
func changeTime(path string, info fs.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec)
}
