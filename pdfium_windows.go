//go:build windows

package pdfium

import (
	"fmt"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

// loadLibrary loads a DLL on Windows
func loadLibrary(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load library: %w", err)
	}
	return uintptr(handle), nil
}

// getSymbol resolves the address of an exported symbol
func getSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}

// registerLibFunc is a wrapper around purego.RegisterLibFunc that works with Windows handles
func registerLibFunc(fn interface{}, lib uintptr, name string) {
	// On Windows, we need to get the procedure address first
	proc, err := windows.GetProcAddress(windows.Handle(lib), name)
	if err != nil {
		return
	}
	purego.RegisterFunc(fn, proc)
}

// closeLibrary unloads the DLL on Windows
func closeLibrary(handle uintptr) error {
	return windows.FreeLibrary(windows.Handle(handle))
}
