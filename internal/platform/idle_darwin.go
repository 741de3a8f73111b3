//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"time"

	"blinkaway/internal/core/timekeeper"
)

type idleProvider struct {
	ioregPath string
}

func newIdleProvider() IdleProvider {
	path, err := exec.LookPath("ioreg")
	if err != nil {
		path = "/usr/sbin/ioreg"
	}
	return &idleProvider{ioregPath: path}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.ioregPath, "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, timekeeper.ErrIdleUnsupported
		}
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseHIDIdleTime(string(output))
}
