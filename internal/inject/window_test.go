package inject

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDescriptorIsAppCaseInsensitiveSubstring(t *testing.T) {
	d := Descriptor{AppName: "Google Chrome"}
	require.True(t, d.IsApp("chrome"))
	require.True(t, d.IsApp("CHROME"))
	require.True(t, d.IsApp("notepad", "google"))
	require.False(t, d.IsApp("firefox"))
}

func TestDescriptorTitleContains(t *testing.T) {
	d := Descriptor{Title: "main.go - dictate [Running]"}
	require.True(t, d.TitleContains("dictate"))
	require.True(t, d.TitleContains("RUNNING"))
	require.False(t, d.TitleContains("nope"))
}

func TestDescriptorIsTextInputContext(t *testing.T) {
	require.True(t, Descriptor{AppName: "Visual Studio Code"}.IsTextInputContext())
	require.True(t, Descriptor{AppName: "kitty"}.IsTextInputContext())
	require.False(t, Descriptor{AppName: "Some Random Game"}.IsTextInputContext())
}

func TestParseHexAddress(t *testing.T) {
	v, err := parseHexAddress("0x55ab12cd")
	require.NoError(t, err)
	require.Equal(t, uint64(0x55ab12cd), v)
}

func TestResolveExecPathInvalidPidReturnsEmpty(t *testing.T) {
	require.Equal(t, "", resolveExecPath(0))
	require.Equal(t, "", resolveExecPath(-1))
}
