//go:build !windows

package overlay

// Opacity comes from the background alpha alone on this platform.
func (overlay *Window) applyNativeOpacity(uint8) {}
