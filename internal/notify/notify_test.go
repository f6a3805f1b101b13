package notify

import (
	"os/exec"
	"runtime"
	"testing"
)

func TestIsAvailable(t *testing.T) {
	var tool string
	switch runtime.GOOS {
	case "darwin":
		tool = "osascript"
	case "linux":
		tool = "notify-send"
	default:
		if IsAvailable() {
			t.Errorf("IsAvailable() = true on %s", runtime.GOOS)
		}
		return
	}

	_, err := exec.LookPath(tool)
	if got, want := IsAvailable(), err == nil; got != want {
		t.Errorf("IsAvailable() = %v, but LookPath(%q) err = %v", got, tool, err)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain title`, `plain title`},
		{`say "hi"`, `say 'hi'`},
		{`back\slash`, `backslash`},
	}

	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
