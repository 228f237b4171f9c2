// Package clipboard copies text to the system clipboard via shell commands.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard tool is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// lookPathFunc resolves a program name the way exec.LookPath does.
type lookPathFunc func(file string) (string, error)

// command returns the argv that writes stdin to the clipboard on goos.
func command(goos string, lookPath lookPathFunc) ([]string, error) {
	switch goos {
	case "darwin":
		if _, err := lookPath("pbcopy"); err == nil {
			return []string{"pbcopy"}, nil
		}
	case "linux":
		if _, err := lookPath("wl-copy"); err == nil {
			return []string{"wl-copy"}, nil
		}
		if _, err := lookPath("xclip"); err == nil {
			return []string{"xclip", "-selection", "clipboard"}, nil
		}
		if _, err := lookPath("xsel"); err == nil {
			return []string{"xsel", "--clipboard", "--input"}, nil
		}
	}
	return nil, ErrClipboardUnavailable
}

// IsAvailable reports whether Copy can work on this system.
func IsAvailable() bool {
	_, err := command(runtime.GOOS, exec.LookPath)
	return err == nil
}

// Copy writes text to the system clipboard.
func Copy(text string) error {
	argv, err := command(runtime.GOOS, exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
