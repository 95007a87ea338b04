// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package sysinfo

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

// Unknown is returned for any field that cannot be determined.
const Unknown = "unknown"

// SysInfo describes the host a report was produced on.
type SysInfo struct {
	Name    string // runtime.GOOS, e.g. "linux"
	Release string // distribution or kernel release, e.g. "Ubuntu 24.04"
	Version string // kernel build string
	Machine string // hardware name, e.g. "x86_64"
}

// Stat never fails: missing details are reported as Unknown.
func Stat() SysInfo {
	info := SysInfo{
		Name:    runtime.GOOS,
		Release: Unknown,
		Version: Unknown,
		Machine: runtime.GOARCH,
	}
	platformInfo(&info)

	if runtime.GOOS == "linux" {
		if pretty := osReleaseName("/etc/os-release"); pretty != "" {
			info.Release = pretty
		}
	}
	return info
}

// osReleaseName returns PRETTY_NAME (or NAME) from an os-release file.
func osReleaseName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var name, pretty string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)

		switch key {
		case "PRETTY_NAME":
			pretty = value
		case "NAME":
			name = value
		}
	}

	if pretty != "" {
		return pretty
	}
	return name
}
