//go:build !linux

package sysinfo

import "errors"

// diskUsage is not implemented on non-Linux platforms.
func diskUsage(path string) (Disk, error) {
	return Disk{}, errors.New("sysinfo: not supported on this platform (requires Linux)")
}
