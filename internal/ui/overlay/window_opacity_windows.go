//go:build windows

package overlay

import (
	"fmt"

	"blinkaway/internal/logger"

	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"
)

const (
	gwlExStyle  int32 = -20
	wsExLayered       = 0x00080000
	lwaAlpha          = 0x2
)

var (
	user32DLL                      = windows.NewLazySystemDLL("user32.dll")
	procGetWindowLongPtrW          = user32DLL.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW          = user32DLL.NewProc("SetWindowLongPtrW")
	procSetLayeredWindowAttributes = user32DLL.NewProc("SetLayeredWindowAttributes")
)

func (overlay *Window) applyNativeOpacity(alpha uint8) {
	nativeWindow, ok := overlay.window.(driver.NativeWindow)
	if !ok {
		return
	}

	nativeWindow.RunNative(func(context any) {
		hwnd := windowHandle(context)
		if hwnd == 0 {
			return
		}
		if err := setLayeredAlpha(hwnd, alpha); err != nil {
			logger.Warnf("overlay: %v", err)
		}
	})
}

func windowHandle(context any) uintptr {
	switch value := context.(type) {
	case driver.WindowsWindowContext:
		return value.HWND
	case *driver.WindowsWindowContext:
		if value != nil {
			return value.HWND
		}
	}
	return 0
}

func setLayeredAlpha(hwnd uintptr, alpha uint8) error {
	if err := procSetLayeredWindowAttributes.Find(); err != nil {
		return fmt.Errorf("set window opacity: %w", err)
	}
	style, _, _ := procGetWindowLongPtrW.Call(hwnd, int32ToUintptr(gwlExStyle))
	if style&wsExLayered == 0 {
		procSetWindowLongPtrW.Call(hwnd, int32ToUintptr(gwlExStyle), style|wsExLayered)
	}
	result, _, err := procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), uintptr(lwaAlpha))
	if result == 0 {
		return fmt.Errorf("set window opacity: %w", err)
	}
	return nil
}

func int32ToUintptr(value int32) uintptr {
	return uintptr(uint32(value))
}
