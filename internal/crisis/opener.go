package crisis

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openURIFunc hands a URI to the platform handler. Tests replace it.
var openURIFunc = openURI

func openURI(uri string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", uri)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", uri)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", uri)
	default:
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", uri, err)
	}
	// Fire and forget: reap the child without waiting on it.
	go func() { _ = cmd.Wait() }()
	return nil
}
