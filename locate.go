package pdfium

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PathEnvVar overrides the search entirely when set. It may name the
// library file itself or a directory containing it.
const PathEnvVar = "PDFIUM_PATH"

// LibraryName returns the platform-specific library file name for the given OS.
func LibraryName(goos string) string {
	switch goos {
	case "darwin":
		return "libpdfium.dylib"
	case "windows":
		return "pdfium.dll"
	default: // Linux and other unixes
		return "libpdfium.so"
	}
}

// Locate resolves the path to the pdfium shared library.
// If libPath is a file, that file is used.
// If libPath is a directory, the platform library name is probed inside it.
// If libPath is empty, a chain of conventional locations is probed:
// the PDFIUM_PATH environment variable, the executable directory (and its
// lib/ subdirectory, plus ../Frameworks on macOS), the working directory,
// the loader search path environment variables, and the usual system
// library directories. The first candidate that exists on disk wins.
func Locate(libPath string) (string, error) {
	name := LibraryName(runtime.GOOS)

	var candidates []string
	if env := os.Getenv(PathEnvVar); env != "" {
		candidates = append(candidates, expandCandidate(env, name))
	}
	if libPath != "" {
		candidates = append(candidates, expandCandidate(libPath, name))
	}

	if execPath, err := os.Executable(); err == nil {
		dir := filepath.Dir(execPath)
		candidates = append(candidates, filepath.Join(dir, name), filepath.Join(dir, "lib", name))
		if runtime.GOOS == "darwin" {
			candidates = append(candidates, filepath.Join(dir, "..", "Frameworks", name))
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, name))
	}

	candidates = append(candidates, searchPathCandidates(name)...)
	candidates = append(candidates, systemCandidates(name)...)

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}

	if runtime.GOOS == "windows" {
		// Fall back to the bare DLL name so the OS applies its own
		// search order (application dir, System32, PATH).
		return name, nil
	}

	return "", fmt.Errorf("%s not found, probed: %s", name, strings.Join(candidates, ", "))
}

// expandCandidate turns a user-supplied path into a concrete file
// candidate: directories are joined with the library name, anything else
// is taken as the file itself.
func expandCandidate(path, name string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, name)
	}
	return path
}

func searchPathCandidates(name string) []string {
	var env string
	switch runtime.GOOS {
	case "linux":
		env = "LD_LIBRARY_PATH"
	case "darwin":
		env = "DYLD_LIBRARY_PATH"
	default:
		return nil
	}

	var candidates []string
	for _, dir := range strings.Split(os.Getenv(env), ":") {
		if dir == "" {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return candidates
}

func systemCandidates(name string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join("/usr/local/lib", name),
			filepath.Join("/opt/homebrew/lib", name),
		}
	case "windows":
		return nil
	default:
		return []string{
			filepath.Join("/usr/local/lib", name),
			filepath.Join("/usr/lib", name),
		}
	}
}
