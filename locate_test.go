package pdfium

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLibraryName(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "libpdfium.so"},
		{"freebsd", "libpdfium.so"},
		{"darwin", "libpdfium.dylib"},
		{"windows", "pdfium.dll"},
	}

	for _, tt := range tests {
		if got := LibraryName(tt.goos); got != tt.want {
			t.Errorf("LibraryName(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
}

func TestLocateExplicitFile(t *testing.T) {
	dir := t.TempDir()
	libFile := filepath.Join(dir, LibraryName(runtime.GOOS))
	if err := os.WriteFile(libFile, []byte("stub"), 0755); err != nil {
		t.Fatalf("Failed to create stub library: %v", err)
	}

	path, err := Locate(libFile)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if path != libFile {
		t.Errorf("Expected %s, got %s", libFile, path)
	}
}

func TestLocateDirectory(t *testing.T) {
	dir := t.TempDir()
	libFile := filepath.Join(dir, LibraryName(runtime.GOOS))
	if err := os.WriteFile(libFile, []byte("stub"), 0755); err != nil {
		t.Fatalf("Failed to create stub library: %v", err)
	}

	path, err := Locate(dir)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if path != libFile {
		t.Errorf("Expected %s, got %s", libFile, path)
	}
}

func TestLocateEnvOverride(t *testing.T) {
	dir := t.TempDir()
	libFile := filepath.Join(dir, LibraryName(runtime.GOOS))
	if err := os.WriteFile(libFile, []byte("stub"), 0755); err != nil {
		t.Fatalf("Failed to create stub library: %v", err)
	}

	t.Setenv(PathEnvVar, dir)

	path, err := Locate("")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if path != libFile {
		t.Errorf("Expected env override to win, got %s", path)
	}
}

func TestLocateEnvOverrideFile(t *testing.T) {
	dir := t.TempDir()
	libFile := filepath.Join(dir, LibraryName(runtime.GOOS))
	if err := os.WriteFile(libFile, []byte("stub"), 0755); err != nil {
		t.Fatalf("Failed to create stub library: %v", err)
	}

	t.Setenv(PathEnvVar, libFile)

	path, err := Locate("")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if path != libFile {
		t.Errorf("Expected env override to win, got %s", path)
	}
}

func TestLocateEnvOutranksExplicitPath(t *testing.T) {
	// An explicit directory outranks everything except the env var.
	envDir := t.TempDir()
	explicitDir := t.TempDir()

	name := LibraryName(runtime.GOOS)
	for _, dir := range []string{envDir, explicitDir} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0755); err != nil {
			t.Fatalf("Failed to create stub library: %v", err)
		}
	}

	t.Setenv(PathEnvVar, envDir)

	path, err := Locate(explicitDir)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if path != filepath.Join(envDir, name) {
		t.Errorf("Expected env var to outrank explicit path, got %s", path)
	}
}

func TestLocateNotFound(t *testing.T) {
	t.Setenv(PathEnvVar, "")

	path, err := Locate(t.TempDir())

	if runtime.GOOS == "windows" {
		// Windows defers to the OS search order via the bare DLL name.
		if err != nil {
			t.Fatalf("Locate should not fail on windows: %v", err)
		}
		if filepath.Base(path) != "pdfium.dll" {
			t.Errorf("Expected bare DLL name fallback, got %s", path)
		}
		return
	}

	if err == nil {
		t.Skipf("pdfium is installed at %s, cannot test the miss path", path)
	}
	if !strings.Contains(err.Error(), LibraryName(runtime.GOOS)) {
		t.Errorf("Error should name the library searched for: %v", err)
	}
	if !strings.Contains(err.Error(), "probed") {
		t.Errorf("Error should list the probed paths: %v", err)
	}
}
