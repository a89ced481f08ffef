package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := New()
	assert.False(t, v.GetBool(KeyGPU))
	assert.Empty(t, v.GetStringSlice(KeyStages))
	assert.Equal(t, "#000000", v.GetString(KeyBackground))
}

func TestEnvironment(t *testing.T) {
	t.Setenv("VFRAME_GPU", "true")
	t.Setenv("VFRAME_TARGET_LUMINANCE", "400")

	v := New()
	assert.True(t, v.GetBool(KeyGPU))
	assert.Equal(t, 400.0, v.GetFloat64(KeyTargetLuminance))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gpu: true\nstages: [shader, cpu]\ncolor_range: full\n"), 0o644))

	v := New()
	require.NoError(t, Load(v, path))
	assert.True(t, v.GetBool(KeyGPU))
	assert.Equal(t, []string{"shader", "cpu"}, v.GetStringSlice(KeyStages))
	assert.Equal(t, "full", v.GetString(KeyColorRange))
}

func TestLoadMissingFile(t *testing.T) {
	v := New()
	assert.Error(t, Load(v, filepath.Join(t.TempDir(), "missing.yaml")))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)
	assert.NoError(t, Load(New(), ""))
}
