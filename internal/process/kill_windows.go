//go:build windows

// Package process terminates the browser processes launched for PDF output.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills the process tree rooted at pid with taskkill.
// Errors are ignored: the launcher's own Kill runs afterwards.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
