//go:build !linux && !darwin && !freebsd && !windows

package pdfium

import (
	"fmt"
	"runtime"
)

var errUnsupported = fmt.Errorf("pdfium: unsupported os: %s", runtime.GOOS)

func loadLibrary(path string) (uintptr, error) {
	return 0, errUnsupported
}

func getSymbol(lib uintptr, name string) (uintptr, error) {
	return 0, errUnsupported
}

func registerLibFunc(fn interface{}, lib uintptr, name string) {
}

func closeLibrary(handle uintptr) error {
	return errUnsupported
}
