//go:build windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommandLine(t *testing.T) {
	line := runCommandLine(Launch{
		AppName:  "BlinkAway",
		ExecPath: `C:\Program Files\BlinkAway\blinkaway.exe`,
		Args:     []string{"-config-dir", `C:\Users\u\AppData\Roaming\blink away`, "-log-level", "warn"},
	})
	require.Equal(t, `"C:\Program Files\BlinkAway\blinkaway.exe" -config-dir "C:\Users\u\AppData\Roaming\blink away" -log-level warn`, line)

	require.Equal(t, `"C:\bin\blinkaway.exe"`, runCommandLine(Launch{ExecPath: `"C:\bin\blinkaway.exe"`}))
}
