package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneFile = "../../scene/testdata/cluttered.json"

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"-ascii", "-algo", "astar", "-v", "scene.json"}, &stderr)
	require.NoError(t, err)
	assert.True(t, opts.ascii)
	assert.True(t, opts.verbose)
	assert.Equal(t, "astar", opts.algo)
	assert.Equal(t, "scene.json", opts.file)

	_, err = parseFlags(nil, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: routeview")
}

func TestRun_ASCII(t *testing.T) {
	var out bytes.Buffer
	err := run(options{ascii: true, scale: 10, file: sceneFile}, &out)
	require.NoError(t, err)

	text := out.String()
	for _, id := range []string{"sourc", "sink"} {
		assert.Contains(t, text, id)
	}
	assert.True(t, strings.ContainsAny(text, "▶◀▲▼"), "missing arrow head:\n%s", text)
}

func TestRun_GeoJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	var out bytes.Buffer
	require.NoError(t, run(options{geojson: path, algo: "orthogonal", file: sceneFile}, &out))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 5+3)
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(options{ascii: true, file: "missing.json"}, &out))
	assert.Error(t, run(options{ascii: true, algo: "bezier", file: sceneFile}, &out))
}
