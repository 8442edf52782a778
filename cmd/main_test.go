package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testMap = "testdata/two_rooms.json"

// runApp runs the CLI with the given arguments and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	stdout := &bytes.Buffer{}
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"tilecrunch"}, args...))
	return stdout.String(), err
}

func TestCompressAndVerify(t *testing.T) {
	base := filepath.Join(t.TempDir(), "level")

	for _, mode := range []string{"raw", "whole-rle", "whole-block", "rooms-rle", "rooms-block"} {
		t.Run(mode, func(t *testing.T) {
			stdout, err := runApp(t, "compress", "--mode", mode, "--output", base, testMap)
			require.NoError(t, err)
			assert.Contains(t, stdout, base+"_layer_background.bin")
			assert.Contains(t, stdout, base+"_layer_walls.bin")

			for _, layer := range []string{"background", "walls"} {
				stdout, err := runApp(t, "verify", "--layer", layer, base+"_layer_"+layer+".bin", testMap)
				require.NoError(t, err, layer)
				assert.Contains(t, stdout, "ok ("+mode)
			}
		})
	}
}

func TestCompress__SingleLayer(t *testing.T) {
	base := filepath.Join(t.TempDir(), "level")

	stdout, err := runApp(t, "compress", "--layer", "walls", "--output", base, testMap)
	require.NoError(t, err)
	assert.Contains(t, stdout, "_layer_walls.bin")
	assert.NotContains(t, stdout, "_layer_background.bin")
}

func TestCompress__Failures(t *testing.T) {
	base := filepath.Join(t.TempDir(), "level")

	tests := []struct {
		name string
		args []string
	}{
		{"bad mode", []string{"compress", "--mode", "zip", "--output", base, testMap}},
		{"bad room size", []string{"compress", "--room", "4by4", "--output", base, testMap}},
		{"room does not divide map", []string{"compress", "--room", "3x2", "--output", base, testMap}},
		{"over ceiling", []string{"compress", "--mode", "raw", "--ceiling", "4", "--output", base, testMap}},
		{"missing layer", []string{"compress", "--layer", "sky", "--output", base, testMap}},
		{"missing source", []string{"compress", "--output", base}},
		{"missing map", []string{"compress", "--output", base, "testdata/nope.json"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := runApp(t, test.args...)
			assert.Error(t, err)
		})
	}
}

func TestVerify__WrongLayer(t *testing.T) {
	base := filepath.Join(t.TempDir(), "level")
	_, err := runApp(t, "compress", "--mode", "raw", "--output", base, testMap)
	require.NoError(t, err)

	_, err = runApp(t, "verify", "--layer", "walls", base+"_layer_background.bin", testMap)
	assert.Error(t, err)

	_, err = runApp(t, "verify", base+"_layer_background.bin", testMap)
	assert.Error(t, err, "--layer is required")
}

func TestReport(t *testing.T) {
	stdout, err := runApp(t, "report", testMap)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 11, "expected a header and one line per mode per layer")
	assert.True(t, strings.HasPrefix(lines[0], "layer,mode,"))
	assert.True(t, strings.HasPrefix(lines[1], "background,raw,1,8,8,0,8,"))
}

func TestRoomSizeOverride(t *testing.T) {
	stdout, err := runApp(t, "report", "--room", "4x2", testMap)
	require.NoError(t, err)
	assert.Contains(t, stdout, "background,rooms-rle,1,")
}
