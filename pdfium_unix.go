//go:build linux || darwin || freebsd

package pdfium

import (
	"github.com/ebitengine/purego"
)

// loadLibrary loads a shared library on Unix-like systems
func loadLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// getSymbol resolves the address of an exported symbol
func getSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}

// registerLibFunc is a wrapper around purego.RegisterLibFunc for Unix
func registerLibFunc(fn interface{}, lib uintptr, name string) {
	purego.RegisterLibFunc(fn, lib, name)
}

// closeLibrary unloads the shared library on Unix systems
func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}
