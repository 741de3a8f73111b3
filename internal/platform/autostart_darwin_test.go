//go:build darwin

package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLaunchAgentPlist(t *testing.T) {
	require.Equal(t, "com.blinkaway.blink-away", launchAgentLabel("Blink Away"))

	plist := buildLaunchAgentPlist("com.blinkaway.blinkaway", Launch{
		AppName:  "BlinkAway",
		ExecPath: "/Applications/Blink & Away.app/Contents/MacOS/blinkaway",
		Args:     []string{"-config-dir", "/Users/u/Library/Application Support/blinkaway"},
	}.Command())

	require.Contains(t, plist, "\t<key>ProgramArguments</key>\n\t<array>\n"+
		"\t\t<string>/Applications/Blink &amp; Away.app/Contents/MacOS/blinkaway</string>\n"+
		"\t\t<string>-config-dir</string>\n"+
		"\t\t<string>/Users/u/Library/Application Support/blinkaway</string>\n"+
		"\t</array>\n")
	require.Contains(t, plist, "<string>com.blinkaway.blinkaway</string>")
	require.Contains(t, plist, "<key>RunAtLoad</key>\n\t<true/>")
}
