package clipboard

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func fakeLookPath(installed ...string) lookPathFunc {
	return func(file string) (string, error) {
		for _, name := range installed {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		want      string
	}{
		{"macOS", "darwin", []string{"pbcopy"}, "pbcopy"},
		{"wayland first", "linux", []string{"xclip", "wl-copy"}, "wl-copy"},
		{"xclip", "linux", []string{"xclip", "xsel"}, "xclip -selection clipboard"},
		{"xsel fallback", "linux", []string{"xsel"}, "xsel --clipboard --input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, err := command(tt.goos, fakeLookPath(tt.installed...))
			if err != nil {
				t.Fatalf("command() error = %v", err)
			}
			if got := strings.Join(argv, " "); got != tt.want {
				t.Errorf("command() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommand_Unavailable(t *testing.T) {
	cases := []struct {
		goos      string
		installed []string
	}{
		{"linux", nil},
		{"darwin", nil},
		{"windows", []string{"pbcopy", "xclip"}},
	}
	for _, c := range cases {
		if _, err := command(c.goos, fakeLookPath(c.installed...)); !errors.Is(err, ErrClipboardUnavailable) {
			t.Errorf("command(%s) error = %v, want ErrClipboardUnavailable", c.goos, err)
		}
	}
}
