//go:build linux || darwin

package sysinfo

import "golang.org/x/sys/unix"

func platformInfo(info *SysInfo) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return
	}

	info.Release = unix.ByteSliceToString(uts.Release[:])
	info.Version = unix.ByteSliceToString(uts.Version[:])
	info.Machine = unix.ByteSliceToString(uts.Machine[:])
}
