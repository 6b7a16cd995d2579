package pdfium

import (
	"archive/tar"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/klauspost/compress/gzip"
)

const githubAPIURL = "https://api.github.com/repos/bblanchon/pdfium-binaries/releases/latest"

// LibraryDownloader fetches prebuilt pdfium binaries from the
// pdfium-binaries GitHub releases.
type LibraryDownloader struct {
	client      *grab.Client
	targetDir   string
	releasesURL string
}

// NewLibraryDownloader creates a new library downloader
func NewLibraryDownloader(targetDir string) *LibraryDownloader {
	return &LibraryDownloader{
		client:      grab.NewClient(),
		targetDir:   targetDir,
		releasesURL: githubAPIURL,
	}
}

// GetLatestRelease fetches the latest release info from GitHub
func (d *LibraryDownloader) GetLatestRelease() (*ReleaseInfo, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(d.releasesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release info: %w", err)
	}

	return &release, nil
}

// ReleaseInfo represents GitHub release information
type ReleaseInfo struct {
	TagName string `json:"tag_name"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
	} `json:"assets"`
}

// LibraryAsset represents a downloadable library archive
type LibraryAsset struct {
	Name     string
	URL      string
	Size     int64
	Variant  string
	Platform *PlatformInfo
}

// SelectBestLibrary selects the release asset matching the platform.
// The plain build is preferred over the V8/XFA-enabled one: it is a
// fraction of the size and this loader only hands out symbols.
func (d *LibraryDownloader) SelectBestLibrary(release *ReleaseInfo, platform *PlatformInfo) (*LibraryAsset, error) {
	label, err := AssetLabel(platform.OS, platform.Arch)
	if err != nil {
		return nil, err
	}

	var candidates []LibraryAsset
	for _, asset := range release.Assets {
		if !matchesPlatform(asset.Name, label) {
			continue
		}
		candidates = append(candidates, LibraryAsset{
			Name:     asset.Name,
			URL:      asset.BrowserDownloadURL,
			Size:     asset.Size,
			Variant:  detectVariant(asset.Name),
			Platform: platform,
		})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no suitable pdfium build found for platform %s/%s", platform.OS, platform.Arch)
	}

	for _, c := range candidates {
		if c.Variant == "vanilla" {
			return &c, nil
		}
	}
	return &candidates[0], nil
}

// matchesPlatform reports whether a release asset is a pdfium archive
// for the given os-arch label. Archives for other C runtimes (musl)
// carry an extra label segment and are excluded.
func matchesPlatform(filename, label string) bool {
	return strings.HasPrefix(filename, "pdfium-") &&
		strings.HasSuffix(filename, "-"+label+".tgz") &&
		!strings.Contains(filename, "-musl-")
}

func detectVariant(filename string) string {
	if strings.Contains(filename, "-v8-") {
		return "v8"
	}
	return "vanilla"
}

// ProgressCallback is called during download to report progress
type ProgressCallback func(bytesComplete, totalBytes int64, mbps float64, done bool)

// Download downloads and unpacks the library archive, returning the
// path to the extracted shared library.
func (d *LibraryDownloader) Download(asset *LibraryAsset) (string, error) {
	return d.DownloadWithProgress(asset, nil)
}

// DownloadWithProgress downloads the library with progress callback
func (d *LibraryDownloader) DownloadWithProgress(asset *LibraryAsset, progress ProgressCallback) (string, error) {
	if err := os.MkdirAll(d.targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create target directory: %w", err)
	}

	httpReq, err := http.NewRequest("GET", asset.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	archivePath := filepath.Join(d.targetDir, asset.Name)

	req := &grab.Request{
		HTTPRequest: httpReq,
		Filename:    archivePath,
	}

	// A partial archive left by an interrupted run is auto-resumed
	if info, err := os.Stat(archivePath); err == nil {
		fmt.Printf("Resuming download from %d bytes\n", info.Size())
	}

	resp := d.client.Do(req)

	if progress != nil {
		startTime := time.Now()
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()

	monitor:
		for {
			select {
			case <-t.C:
				bytesComplete := resp.BytesComplete()
				totalBytes := resp.Size()
				elapsed := time.Since(startTime).Seconds()
				var mbps float64
				if elapsed > 0 {
					mbps = float64(bytesComplete) / (1024 * 1024) / elapsed
				}
				progress(bytesComplete, totalBytes, mbps, false)
			default:
				if resp.IsComplete() {
					bytesComplete := resp.BytesComplete()
					progress(bytesComplete, bytesComplete, 0, true)
					break monitor
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}

	if err := resp.Err(); err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	libPath, err := extractLibrary(archivePath, d.targetDir, asset.Platform.OS)
	if err != nil {
		return "", fmt.Errorf("failed to unpack %s: %w", asset.Name, err)
	}
	_ = os.Remove(archivePath)

	return libPath, nil
}

// extractLibrary pulls the shared library member out of a pdfium-binaries
// .tgz archive (lib/libpdfium.so, lib/libpdfium.dylib or bin/pdfium.dll)
// and writes it into targetDir.
func extractLibrary(archivePath, targetDir, goos string) (string, error) {
	want := LibraryName(goos)

	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != want {
			continue
		}

		outPath := filepath.Join(targetDir, want)
		out, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return "", err
		}
		if err := out.Close(); err != nil {
			return "", err
		}
		return outPath, nil
	}

	return "", errors.New(want + " not found in archive")
}

// DownloadLatest downloads the latest library for the current platform
func (d *LibraryDownloader) DownloadLatest() (string, error) {
	return d.DownloadLatestWithProgress(nil)
}

// DownloadLatestWithProgress downloads with progress callback
func (d *LibraryDownloader) DownloadLatestWithProgress(progress ProgressCallback) (string, error) {
	platform := DetectPlatform()
	fmt.Printf("Detected platform: %s\n", platform)

	release, err := d.GetLatestRelease()
	if err != nil {
		return "", err
	}
	fmt.Printf("Latest release: %s\n", release.TagName)

	asset, err := d.SelectBestLibrary(release, platform)
	if err != nil {
		return "", err
	}
	fmt.Printf("Selected library: %s (%s variant, %d bytes)\n",
		asset.Name, asset.Variant, asset.Size)

	path, err := d.DownloadWithProgress(asset, progress)
	if err != nil {
		return "", err
	}

	fmt.Printf("Library extracted to: %s\n", path)
	return path, nil
}
