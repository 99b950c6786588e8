package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/selsync/internal/config"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[database]\npath = \"" + filepath.ToSlash(filepath.Join(dir, "data", "selsync.db")) + "\"\n\n[ui]\ndefault_preset = \"Weekend\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPresetsCommandListsSeededPresets(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, "presets", "--config", cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"Empty", "Favourites", "Weekend"}, strings.Fields(out))
}

func TestCreateCommandAddsPreset(t *testing.T) {
	cfg := writeConfig(t)

	_, err := execute(t, "create", "Picnic", "--config", cfg)
	require.NoError(t, err)

	_, err = execute(t, "create", "Picnic", "--config", cfg)
	require.ErrorContains(t, err, "already exists")

	out, err := execute(t, "presets", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, strings.Fields(out), "Picnic")
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := execute(t, "presets", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorContains(t, err, "config")
}

func TestUnknownPresetSuggestsNearest(t *testing.T) {
	cfg := writeConfig(t)

	err := runUI(context.Background(), flags{configPath: cfg, preset: "Weekedn"})
	require.EqualError(t, err, `preset "Weekedn" not found (did you mean "Weekend"?)`)
}

func TestDefaultCommandPersistsPreset(t *testing.T) {
	cfg := writeConfig(t)
	before, err := config.LoadFile(cfg)
	require.NoError(t, err)

	_, err = execute(t, "default", "Favourites", "--config", cfg)
	require.NoError(t, err)

	after, err := config.LoadFile(cfg)
	require.NoError(t, err)
	require.Equal(t, "Favourites", after.UI.DefaultPreset)
	require.Equal(t, before.Database.Path, after.Database.Path)

	_, err = execute(t, "default", "Favorites", "--config", cfg)
	require.EqualError(t, err, `preset "Favorites" not found (did you mean "Favourites"?)`)

	again, err := config.LoadFile(cfg)
	require.NoError(t, err)
	require.Equal(t, "Favourites", again.UI.DefaultPreset)
}
