//go:build linux

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// diskUsage reads filesystem usage for path via statfs.
func diskUsage(path string) (Disk, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Disk{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	frsize := uint64(st.Frsize)
	if frsize == 0 {
		frsize = uint64(st.Bsize)
	}
	return diskFromStat(st.Blocks, st.Bavail, frsize), nil
}
