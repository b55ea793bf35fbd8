package main

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes"
)

func TestRunHeadlessSoftware(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, run(context.Background(), "", "software", 2, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestRunHeadlessWithConfig(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scene, []byte("window: {width: 320, height: 200}\n"), 0o600))
	out := filepath.Join(dir, "frame.png")

	require.NoError(t, run(context.Background(), scene, "software", 1, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestRunHeadlessErrors(t *testing.T) {
	ctx := context.Background()
	assert.ErrorIs(t, run(ctx, "", "software", 0, ""), shapes.ErrDomain)
	assert.Error(t, run(ctx, "", "no-such-backend", 1, ""))
	assert.Error(t, run(ctx, filepath.Join(t.TempDir(), "missing.yaml"), "software", 1, ""))
}

func TestRunHeadlessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, run(ctx, "", "software", 1, ""), context.Canceled)
}

func TestStopSignals(t *testing.T) {
	assert.ElementsMatch(t, []os.Signal{os.Interrupt, syscall.SIGTERM}, stopSignals)
}
