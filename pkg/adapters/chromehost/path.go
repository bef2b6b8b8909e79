package chromehost

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/playwright-community/playwright-go"
)

// installTimeout bounds the Chromium download.
const installTimeout = 5 * time.Minute

// ResolveChromePath resolves the Chrome executable path in the following order:
// 1. If explicitPath is non-empty, use it
// 2. If CHROME_PATH environment variable is set, use it
// 3. Fall back to system defaults (chromium → chrome order per platform)
func ResolveChromePath(explicitPath string) string {
	if explicitPath != "" {
		return explicitPath
	}

	if envPath := os.Getenv("CHROME_PATH"); envPath != "" {
		return envPath
	}

	return findSystemChrome()
}

// EnsureChrome returns a usable Chrome executable, installing Playwright's
// Chromium build when no browser can be found on the system.
func EnsureChrome(ctx context.Context, explicitPath string) (string, error) {
	if path := ResolveChromePath(explicitPath); path != "" {
		return path, nil
	}

	installCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	done := make(chan struct{})
	var path string
	var err error
	go func() {
		defer close(done)
		path, err = installChromium()
	}()

	select {
	case <-done:
		return path, err
	case <-installCtx.Done():
		return "", fmt.Errorf("install chromium: %w", installCtx.Err())
	}
}

// installChromium downloads Chromium through Playwright and returns its executable.
func installChromium() (string, error) {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return "", fmt.Errorf("install chromium: %w", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("start playwright driver: %w", err)
	}
	defer pw.Stop()

	path := pw.Chromium.ExecutablePath()
	if path == "" {
		return "", fmt.Errorf("install chromium: no executable reported")
	}
	return path, nil
}

// findSystemChrome searches for Chrome/Chromium in system default locations.
// Chromium is preferred over Chrome.
func findSystemChrome() string {
	var candidates []string

	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "linux":
		candidates = []string{
			"chromium",
			"chromium-browser",
			"google-chrome-stable",
			"google-chrome",
		}
	case "windows":
		for _, env := range []string{"PROGRAMFILES", "PROGRAMFILES(X86)", "LOCALAPPDATA"} {
			root := os.Getenv(env)
			if root == "" {
				continue
			}
			candidates = append(candidates,
				root+"\\Chromium\\Application\\chrome.exe",
				root+"\\Google\\Chrome\\Application\\chrome.exe",
			)
		}
	}

	for _, candidate := range candidates {
		if path := resolveExecutable(candidate); path != "" {
			return path
		}
	}
	return ""
}

// resolveExecutable checks if the given path/name exists as an executable.
// Full paths are checked with os.Stat, command names with exec.LookPath.
func resolveExecutable(nameOrPath string) string {
	if len(nameOrPath) > 0 && (nameOrPath[0] == '/' || (len(nameOrPath) > 1 && nameOrPath[1] == ':')) {
		if _, err := os.Stat(nameOrPath); err == nil {
			return nameOrPath
		}
		return ""
	}

	if path, err := exec.LookPath(nameOrPath); err == nil {
		return path
	}
	return ""
}
