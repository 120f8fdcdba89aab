//go:build windows

package procs

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
)

type systemWindowTable struct{}

// Lookup enumerates visible top-level windows and maps each owning PID to
// its first titled window.
func (systemWindowTable) Lookup() (map[int32]Window, error) {
	table := make(map[int32]Window)

	callback := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		const continueEnum = 1

		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			return continueEnum
		}
		length, _, _ := procGetWindowTextLengthW.Call(hwnd)
		if length == 0 {
			return continueEnum
		}
		buf := make([]uint16, length+1)
		read, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if read == 0 {
			return continueEnum
		}

		var pid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid))) //nolint:errcheck
		if pid == 0 {
			return continueEnum
		}
		if _, exists := table[int32(pid)]; !exists {
			table[int32(pid)] = Window{Handle: hwnd, Title: windows.UTF16ToString(buf)}
		}
		return continueEnum
	})

	// EnumWindows failure leaves a partial table; callers treat window
	// metadata as best-effort.
	procEnumWindows.Call(callback, 0) //nolint:errcheck
	return table, nil
}
