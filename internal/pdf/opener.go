package pdf

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ValidViewers lists the supported viewer settings.
var ValidViewers = []string{"system", "skim", "preview", "zathura", "evince", "okular"}

// Opener opens stamped PDFs in a desktop viewer.
type Opener struct {
	viewer string
}

// NewOpener creates an opener for the given viewer; empty means "system".
func NewOpener(viewer string) *Opener {
	if viewer == "" {
		viewer = "system"
	}
	return &Opener{viewer: viewer}
}

// Open starts the viewer on path without waiting for it to exit.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("PDF file does not exist: %s", path)
		}
		return fmt.Errorf("checking PDF file: %w", err)
	}

	cmd, err := o.Command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command returns the viewer command for the given platform.
func (o *Opener) Command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		switch o.viewer {
		case "skim":
			return exec.Command("open", "-a", "Skim", path), nil
		case "preview":
			return exec.Command("open", "-a", "Preview", path), nil
		default:
			return exec.Command("open", path), nil
		}
	case "linux":
		switch o.viewer {
		case "zathura", "evince", "okular":
			return exec.Command(o.viewer, path), nil
		default:
			return exec.Command("xdg-open", path), nil
		}
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
