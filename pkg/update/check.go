// Package update checks GitHub for newer codeview releases.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const latestReleaseURL = "https://api.github.com/repos/codeview/cli/releases/latest"

// InstallMethod is how the running binary was installed.
type InstallMethod string

const (
	InstallMethodBrew    InstallMethod = "brew"
	InstallMethodGo      InstallMethod = "go"
	InstallMethodUnknown InstallMethod = "unknown"
)

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// FetchLatest returns the tag and page URL of the latest release.
func FetchLatest(ctx context.Context) (string, string, error) {
	return fetchLatest(ctx, http.DefaultClient, latestReleaseURL)
}

func fetchLatest(ctx context.Context, client *http.Client, endpoint string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("release request failed: %s", resp.Status)
	}

	var r release
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", "", fmt.Errorf("invalid response: %w", err)
	}
	if r.TagName == "" {
		return "", "", fmt.Errorf("latest release has no tag")
	}
	return r.TagName, r.HTMLURL, nil
}

// IsNewerVersion reports whether latest is a higher semantic version than current.
func IsNewerVersion(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	lat, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid latest version %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}

type installRule struct {
	method InstallMethod
	check  func(path string) bool
}

func installMethodRules() []installRule {
	return []installRule{
		{InstallMethodGo, pathMatchesGoBin},
		{InstallMethodBrew, pathMatchesHomebrew},
	}
}

// DetectInstallMethod inspects the executable path. It also returns the path.
func DetectInstallMethod() (InstallMethod, string) {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodUnknown, ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	for _, r := range installMethodRules() {
		if r.check(exe) {
			return r.method, exe
		}
	}
	return InstallMethodUnknown, exe
}

// SuggestUpgradeCommand returns the command that upgrades an installation.
func SuggestUpgradeCommand() string {
	method, _ := DetectInstallMethod()
	return suggestUpgradeCommandForMethod(method)
}

func suggestUpgradeCommandForMethod(method InstallMethod) string {
	switch method {
	case InstallMethodGo:
		return "go install github.com/codeview/cli@latest"
	default:
		return "brew upgrade codeview"
	}
}

func pathMatchesGoBin(path string) bool {
	p := filepath.ToSlash(path)
	if gobin := os.Getenv("GOBIN"); gobin != "" && strings.HasPrefix(p, filepath.ToSlash(gobin)+"/") {
		return true
	}
	return strings.Contains(p, "/go/bin/")
}

func pathMatchesHomebrew(path string) bool {
	p := filepath.ToSlash(path)
	return strings.Contains(p, "/Cellar/") ||
		strings.HasPrefix(p, "/opt/homebrew/") ||
		strings.Contains(p, "/.linuxbrew/")
}
