package inject

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeArgsCaptureScript(t *testing.T) (binPath, argsFile string) {
	t.Helper()

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.log")
	binPath = filepath.Join(dir, "wtype")
	script := `#!/usr/bin/env bash
set -euo pipefail
printf '%s\n' "$*" >> "` + argsFile + `"
`
	require.NoError(t, os.WriteFile(binPath, []byte(script), 0o755))
	return binPath, argsFile
}

func writeFailingScript(t *testing.T, message string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "wtype")
	script := "#!/usr/bin/env bash\nset -euo pipefail\necho " + "\"" + message + "\"" + " >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestWtypeSimulatorTypeTextEmptyIsNoop(t *testing.T) {
	bin, argsFile := writeArgsCaptureScript(t)
	sim := WtypeSimulator{Bin: bin}

	require.NoError(t, sim.TypeText(context.Background(), ""))
	_, err := os.Stat(argsFile)
	require.True(t, os.IsNotExist(err))
}

func TestWtypeSimulatorTypeTextInvokesWtypeWithLiteralText(t *testing.T) {
	bin, argsFile := writeArgsCaptureScript(t)
	sim := WtypeSimulator{Bin: bin}

	require.NoError(t, sim.TypeText(context.Background(), "hello world"))
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "hello world\n", string(data))
}

func TestWtypeSimulatorPasteSendsCtrlV(t *testing.T) {
	bin, argsFile := writeArgsCaptureScript(t)
	sim := WtypeSimulator{Bin: bin}

	require.NoError(t, sim.Paste(context.Background()))
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "-M ctrl -k v -m ctrl\n", string(data))
}

func TestWtypeSimulatorPressEnterClicksReturn(t *testing.T) {
	bin, argsFile := writeArgsCaptureScript(t)
	sim := WtypeSimulator{Bin: bin}

	require.NoError(t, sim.PressEnter(context.Background()))
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "-k Return\n", string(data))
}

func TestWtypeSimulatorPressKeyAndReleaseKeyAreSeparateInvocations(t *testing.T) {
	bin, argsFile := writeArgsCaptureScript(t)
	sim := WtypeSimulator{Bin: bin}

	require.NoError(t, sim.PressKey(context.Background(), "shift"))
	require.NoError(t, sim.ReleaseKey(context.Background(), "shift"))
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "-P shift\n-p shift\n", string(data))
}

func TestWtypeSimulatorFailureWrapsKeyboardSimulationFailedError(t *testing.T) {
	sim := WtypeSimulator{Bin: writeFailingScript(t, "no display")}

	err := sim.TypeText(context.Background(), "hello")
	require.Error(t, err)
	var simErr *KeyboardSimulationFailedError
	require.ErrorAs(t, err, &simErr)
	require.Contains(t, err.Error(), "no display")
}
