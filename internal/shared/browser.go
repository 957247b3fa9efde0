package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Seam for platform-dependent tests.
var getRuntime = func() string { return runtime.GOOS }

// browserCommand maps a GOOS value to the launcher invocation for it.
func browserCommand(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	}
	return nil, fmt.Errorf("unsupported platform: %s", goos)
}

// OpenBrowser launches the system browser at url and returns without
// waiting for it to exit.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(getRuntime(), url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
