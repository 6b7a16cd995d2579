package pdfium

import (
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// PlatformInfo holds platform-specific information
type PlatformInfo struct {
	OS             string
	Arch           string
	Extension      string
	Prefix         string
	SupportsAVX    bool
	SupportsAVX2   bool
	SupportsAVX512 bool
}

// DetectPlatform detects the current platform and returns library info
func DetectPlatform() *PlatformInfo {
	info := &PlatformInfo{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	switch runtime.GOOS {
	case "darwin":
		info.Extension = ".dylib"
		info.Prefix = "lib"
	case "windows":
		info.Extension = ".dll"
		info.Prefix = ""
	default: // Linux
		info.Extension = ".so"
		info.Prefix = "lib"
	}

	info.SupportsAVX = cpuid.CPU.Supports(cpuid.AVX)
	info.SupportsAVX2 = cpuid.CPU.Supports(cpuid.AVX2)
	info.SupportsAVX512 = cpuid.CPU.Supports(cpuid.AVX512F)

	return info
}

// String renders the platform for diagnostics, including the CPU features
// that matter when picking a prebuilt binary.
func (p *PlatformInfo) String() string {
	return fmt.Sprintf("%s/%s (avx=%t avx2=%t avx512=%t)",
		p.OS, p.Arch, p.SupportsAVX, p.SupportsAVX2, p.SupportsAVX512)
}

// AssetLabel maps a GOOS/GOARCH pair to the os-arch label used in
// pdfium-binaries release asset names (e.g. "win-x64", "linux-arm64").
func AssetLabel(goos, goarch string) (string, error) {
	var osLabel string
	switch goos {
	case "darwin":
		osLabel = "mac"
	case "windows":
		osLabel = "win"
	case "linux":
		osLabel = "linux"
	default:
		return "", fmt.Errorf("no prebuilt pdfium for GOOS=%s", goos)
	}

	var archLabel string
	switch goarch {
	case "amd64":
		archLabel = "x64"
	case "arm64":
		archLabel = "arm64"
	case "386":
		archLabel = "x86"
	case "arm":
		archLabel = "arm"
	default:
		return "", fmt.Errorf("no prebuilt pdfium for GOARCH=%s", goarch)
	}

	// 32-bit builds only exist for windows and linux.
	if osLabel == "mac" && (archLabel == "x86" || archLabel == "arm") {
		return "", fmt.Errorf("no prebuilt pdfium for %s/%s", goos, goarch)
	}

	return osLabel + "-" + archLabel, nil
}
