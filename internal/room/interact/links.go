package interact

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches URLs in the system browser. The command runner is
// swappable so dispatch is testable without spawning processes.
type Opener struct {
	run func(name string, args ...string) error
}

// NewOpener creates an opener using the platform's URL handler.
func NewOpener() *Opener {
	return &Opener{
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open launches url externally. Only web URLs are accepted; prop links are
// always http(s) and anything else points at a broken manifest.
func (o *Opener) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-web url %q", url)
	}

	switch runtime.GOOS {
	case "darwin":
		return o.run("open", url)
	case "windows":
		return o.run("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return o.run("xdg-open", url)
	}
}
