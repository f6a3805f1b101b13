// Package notify delivers fire-and-forget desktop notifications via
// platform shell tools.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Desktop posts notifications to the system notification center.
// Delivery failures are swallowed: a missed notification must never
// fail the caller.
type Desktop struct{}

// IsAvailable checks whether a notification tool exists on this system.
func IsAvailable() bool {
	switch runtime.GOOS {
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err == nil
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err == nil
	default:
		return false
	}
}

// Notify posts a (title, subtitle, body) notification.
func (Desktop) Notify(title, subtitle, body string) {
	if !IsAvailable() {
		return
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q subtitle %q",
			sanitize(body), sanitize(title), sanitize(subtitle))
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		if subtitle != "" {
			body = subtitle + ": " + body
		}
		cmd = exec.Command("notify-send", title, body)
	default:
		return
	}

	_ = cmd.Run()
}

// sanitize strips characters that would break the osascript literal.
func sanitize(s string) string {
	return strings.NewReplacer(`"`, "'", "\\", "").Replace(s)
}
