package pdfium

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// pdfium keeps global state behind FPDF_InitLibrary and is not safe to
// initialize or tear down concurrently.
var initMu sync.Mutex

// Library is an open handle to the native pdfium engine.
type Library struct {
	// Lifecycle entry points loaded from the shared library
	fpdfInitLibrary    func()
	fpdfDestroyLibrary func()
	fpdfGetLastError   func() uintptr

	handle uintptr
	path   string
	closed bool
}

// New resolves and loads the pdfium shared library.
// If libPath is a file, it loads that file.
// If libPath is a directory, it probes for the platform library inside it.
// If libPath is empty, it probes the conventional locations (see Locate).
// If no library is found and libPath named a directory (or nothing), the
// latest prebuilt release is downloaded into it before loading.
// The engine is initialized before New returns; call Close to release it.
func New(libPath string) (*Library, error) {
	path, err := Locate(libPath)
	if err != nil {
		if path, err = autoDownload(libPath, err); err != nil {
			return nil, err
		}
	}

	path, err = absolutize(path)
	if err != nil {
		return nil, err
	}

	handle, loadErr := loadLibrary(path)
	if loadErr != nil && path == LibraryName(runtime.GOOS) {
		// Locate fell back to the bare DLL name (windows) and the OS
		// search order came up empty; fetch the prebuilt release the
		// same way the unix path does.
		dlPath, dlErr := autoDownload(libPath, loadErr)
		if dlErr == nil {
			if dlPath, dlErr = absolutize(dlPath); dlErr == nil {
				path = dlPath
				handle, loadErr = loadLibrary(path)
			}
		}
	}
	if loadErr != nil {
		return nil, fmt.Errorf("failed to open library at %s: %w", path, loadErr)
	}

	// Probe before registering: RegisterLibFunc panics on a missing
	// symbol, and a library without FPDF_InitLibrary is not pdfium.
	if _, err := getSymbol(handle, "FPDF_InitLibrary"); err != nil {
		_ = closeLibrary(handle)
		return nil, fmt.Errorf("%s is not a pdfium library: %w", path, err)
	}

	l := &Library{handle: handle, path: path}
	registerLibFunc(&l.fpdfInitLibrary, handle, "FPDF_InitLibrary")
	registerLibFunc(&l.fpdfDestroyLibrary, handle, "FPDF_DestroyLibrary")
	registerLibFunc(&l.fpdfGetLastError, handle, "FPDF_GetLastError")

	initMu.Lock()
	l.fpdfInitLibrary()
	initMu.Unlock()

	return l, nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Symbol resolves the address of an exported pdfium entry point.
func (l *Library) Symbol(name string) (uintptr, error) {
	if l.closed {
		return 0, fmt.Errorf("library is closed")
	}
	addr, err := getSymbol(l.handle, name)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve symbol %s: %w", name, err)
	}
	return addr, nil
}

// Register binds fn, a pointer to a function value, to the named pdfium
// entry point. It follows purego.RegisterLibFunc conventions for
// argument and return types.
func (l *Library) Register(fn interface{}, name string) error {
	if l.closed {
		return fmt.Errorf("library is closed")
	}
	if _, err := getSymbol(l.handle, name); err != nil {
		return fmt.Errorf("failed to resolve symbol %s: %w", name, err)
	}
	registerLibFunc(fn, l.handle, name)
	return nil
}

// LastError returns pdfium's FPDF_GetLastError value.
func (l *Library) LastError() uintptr {
	return l.fpdfGetLastError()
}

// Close tears down the engine and unloads the library.
// Closing an already-closed Library is a no-op.
func (l *Library) Close() error {
	if l.closed || l.handle == 0 {
		return nil
	}
	l.closed = true

	initMu.Lock()
	l.fpdfDestroyLibrary()
	initMu.Unlock()

	return closeLibrary(l.handle)
}

// autoDownload fetches the latest prebuilt library when the caller gave
// us a directory (or nothing) to search. cause is returned unchanged
// when downloading is not applicable, so the resolver's error survives.
func autoDownload(libPath string, cause error) (string, error) {
	dir, err := downloadDir(libPath)
	if err != nil {
		return "", cause
	}

	fmt.Printf("pdfium library not found, attempting to download...\n")
	downloader := NewLibraryDownloader(dir)
	path, err := downloader.DownloadLatest()
	if err != nil {
		return "", fmt.Errorf("no pdfium library found and auto-download failed: %w", err)
	}
	fmt.Printf("Library downloaded to: %s\n", path)
	return path, nil
}

// downloadDir decides where an auto-download may place the library:
// only when the caller pointed at a directory (or at nothing).
func downloadDir(libPath string) (string, error) {
	if libPath == "" {
		return ".", nil
	}
	info, err := os.Stat(libPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", libPath)
	}
	return libPath, nil
}

// absolutize converts a resolved path to an absolute one so dlopen can
// find it regardless of the working directory. A bare DLL name that is
// not on disk is left alone for the OS search order.
func absolutize(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}
	return abs, nil
}
