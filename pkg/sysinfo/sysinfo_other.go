//go:build !linux && !darwin

package sysinfo

import (
	"os/exec"
	"runtime"
	"strings"
)

func platformInfo(info *SysInfo) {
	if runtime.GOOS != "windows" {
		return
	}

	output, err := exec.Command("cmd", "/c", "ver").Output()
	if err != nil {
		return
	}
	info.Release = "Windows"
	info.Version = strings.TrimSpace(string(output))
}
