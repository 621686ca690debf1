package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG only applies to unix")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "ps2usb"), dir)
}

func TestConfigCandidatePathsUserFirst(t *testing.T) {
	type testCase struct {
		name   string
		path   string
		format string
	}

	cases := []testCase{
		{name: "yaml", path: "/srv/kbd.yaml", format: "yaml"},
		{name: "yml", path: "/srv/kbd.yml", format: "yaml"},
		{name: "toml", path: "/srv/kbd.toml", format: "toml"},
		{name: "json", path: "/srv/kbd.json", format: "json"},
		{name: "no extension", path: "/srv/kbd", format: "json"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j, y, tm := ConfigCandidatePaths(tc.path)
			byFormat := map[string][]string{"json": j, "yaml": y, "toml": tm}
			require.NotEmpty(t, byFormat[tc.format])
			assert.Equal(t, tc.path, byFormat[tc.format][0])
		})
	}
}

func TestConfigCandidatePathsIncludeWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	j, y, tm := ConfigCandidatePaths("")
	assert.Contains(t, j, filepath.Join(wd, "ps2usb.json"))
	assert.Contains(t, y, filepath.Join(wd, "run.yml"))
	assert.Contains(t, tm, filepath.Join(wd, "replay.toml"))
}

func TestEnsureDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "run.yaml")
	require.NoError(t, EnsureDir(target))
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
