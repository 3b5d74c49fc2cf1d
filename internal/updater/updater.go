// Package updater talks to the GitHub Releases API to discover newer otk
// builds and can swap the running executable for the latest one. The swap
// is atomic: the new binary lands next to the old one and a rename makes
// it live. Nothing here restarts the process.
package updater

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	githubRepo = "otk-tools/otk"
	binaryName = "otk"

	apiTimeout = 10 * time.Second
)

// UpdateResult reports the outcome of a version check.
type UpdateResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// ReleaseInfo mirrors the fields of a GitHub release we care about.
type ReleaseInfo struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// client wraps the release endpoint and HTTP client so tests can point
// at an httptest server instead of mutating package state.
type client struct {
	endpoint string
	http     *http.Client
}

func defaultClient() *client {
	return &client{
		endpoint: "https://api.github.com/repos/" + githubRepo + "/releases/latest",
		http:     &http.Client{Timeout: apiTimeout},
	}
}

// CheckVersion compares the running version against the newest GitHub
// release. It is best-effort: any network or API failure produces a
// result with UpdateAvailable false rather than an error, so callers can
// fire it from a goroutine without caring whether it worked.
func CheckVersion(currentVersion string) *UpdateResult {
	return defaultClient().checkVersion(currentVersion)
}

func (c *client) checkVersion(currentVersion string) *UpdateResult {
	result := &UpdateResult{CurrentVersion: strings.TrimPrefix(currentVersion, "v")}

	release, err := c.latest(currentVersion)
	if err != nil {
		return result
	}

	result.LatestVersion = strings.TrimPrefix(release.TagName, "v")
	result.ReleaseURL = release.HTMLURL
	result.UpdateAvailable = isNewer(result.CurrentVersion, result.LatestVersion)
	return result
}

// latest fetches release metadata, retrying transient failures. A non-OK
// status below 500 is treated as final; GitHub rate limiting (403) does
// not resolve on the retry timescale we use here.
func (c *client) latest(currentVersion string) (*ReleaseInfo, error) {
	var release ReleaseInfo

	attempt := func() error {
		req, err := http.NewRequest(http.MethodGet, c.endpoint, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building release request: %w", err))
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("User-Agent", binaryName+"/"+currentVersion)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("fetching latest release: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("github API returned %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("github API returned %d", resp.StatusCode))
		}
		if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding release payload: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	if err := backoff.Retry(attempt, backoff.WithMaxRetries(bo, 2)); err != nil {
		return nil, err
	}
	return &release, nil
}

// SelfUpdate downloads the release archive for this OS/arch and replaces
// the current executable. The caller is expected to restart afterwards.
func SelfUpdate(currentVersion string) error {
	return defaultClient().selfUpdate(currentVersion)
}

func (c *client) selfUpdate(currentVersion string) error {
	release, err := c.latest(currentVersion)
	if err != nil {
		return err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if !isNewer(strings.TrimPrefix(currentVersion, "v"), latest) {
		return fmt.Errorf("already at latest version (%s)", currentVersion)
	}

	wantAsset := assetFor(latest)
	var url string
	for _, a := range release.Assets {
		if a.Name == wantAsset {
			url = a.BrowserDownloadURL
			break
		}
	}
	if url == "" {
		return fmt.Errorf("release has no asset %s for %s/%s", wantAsset, runtime.GOOS, runtime.GOARCH)
	}

	archive, err := c.download(url)
	if err != nil {
		return err
	}

	binary, err := extractBinary(archive, wantAsset)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", wantAsset, err)
	}

	return replaceExecutable(binary)
}

func (c *client) download(url string) ([]byte, error) {
	resp, err := c.http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("downloading release asset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// replaceExecutable writes the new binary beside the running one and
// renames it into place. Windows cannot rename over a running binary,
// so the old one is parked as .old first.
func replaceExecutable(binary []byte) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current executable: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	staged := execPath + ".new"
	if err := os.WriteFile(staged, binary, 0o755); err != nil {
		return fmt.Errorf("staging new binary: %w", err)
	}

	if runtime.GOOS == "windows" {
		parked := execPath + ".old"
		_ = os.Remove(parked)
		if err := os.Rename(execPath, parked); err != nil {
			_ = os.Remove(staged)
			return fmt.Errorf("parking current binary: %w", err)
		}
	}

	if err := os.Rename(staged, execPath); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("activating new binary: %w", err)
	}
	return nil
}

// extractBinary pulls the otk executable out of a release archive,
// dispatching on the asset's extension.
func extractBinary(archive []byte, assetName string) ([]byte, error) {
	if strings.HasSuffix(assetName, ".zip") {
		return extractFromZip(archive)
	}
	return extractFromTarGz(archive)
}

func extractFromTarGz(archive []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}
		if isBinaryEntry(hdr.Name) {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", binaryName)
}

func extractFromZip(archive []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}

	for _, f := range zr.File {
		if !isBinaryEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening zip entry: %w", err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading zip entry: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%s not found in archive", binaryName)
}

func isBinaryEntry(name string) bool {
	base := filepath.Base(name)
	return base == binaryName || base == binaryName+".exe"
}

// assetFor builds the archive name GoReleaser publishes for this
// OS and architecture.
func assetFor(version string) string {
	ext := "tar.gz"
	if runtime.GOOS == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", binaryName, version, runtime.GOOS, runtime.GOARCH, ext)
}

// isNewer reports whether latest is a strictly higher semver than
// current. Development builds never see updates.
func isNewer(current, latest string) bool {
	if current == "" || latest == "" || current == "dev" {
		return false
	}

	cur := semverParts(current)
	lat := semverParts(latest)
	for i := 0; i < 3; i++ {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

// semverParts splits "major.minor.patch" into ints, padding missing
// segments with zero. Trailing non-digits (pre-release tags) are cut.
func semverParts(v string) [3]int {
	var parts [3]int
	for i, seg := range strings.SplitN(v, ".", 3) {
		end := 0
		for end < len(seg) && seg[end] >= '0' && seg[end] <= '9' {
			end++
		}
		n, _ := strconv.Atoi(seg[:end])
		parts[i] = n
	}
	return parts
}
