package backend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shapes/internal/gputest"
)

type recorderBackend struct {
	*gputest.Recorder
	closed bool
}

func (r *recorderBackend) Close() error {
	r.closed = true
	return nil
}

func withRegistry(t *testing.T, entries map[string]Factory) {
	t.Helper()
	registryMu.Lock()
	saved := factories
	factories = entries
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		factories = saved
		registryMu.Unlock()
	})
}

func recorderFactory(cfg Config) (Backend, error) {
	return &recorderBackend{Recorder: gputest.New(uint32(cfg.Width), uint32(cfg.Height))}, nil
}

func TestRegisterAndOpen(t *testing.T) {
	withRegistry(t, map[string]Factory{})

	Register(NameSoftware, recorderFactory)
	assert.True(t, IsRegistered(NameSoftware))
	assert.Equal(t, []string{NameSoftware}, Available())

	b, err := Open(NameSoftware, Config{Width: 32, Height: 16})
	require.NoError(t, err)
	w, h := b.(*recorderBackend).ViewportSize()
	assert.Equal(t, uint32(32), w)
	assert.Equal(t, uint32(16), h)
	assert.NoError(t, Context(b).Validate())

	Unregister(NameSoftware)
	assert.False(t, IsRegistered(NameSoftware))
}

func TestOpenUnknown(t *testing.T) {
	withRegistry(t, map[string]Factory{})

	_, err := Open("vulkan", Config{})
	assert.ErrorIs(t, err, ErrBackendNotAvailable)
}

func TestOpenDefaultFallsBack(t *testing.T) {
	errNoGPU := errors.New("no adapter")
	withRegistry(t, map[string]Factory{
		NameWebGPU: func(Config) (Backend, error) { return nil, ErrNeedsWindow },
		NameNative: func(Config) (Backend, error) { return nil, errNoGPU },
		NameSoftware: func(cfg Config) (Backend, error) {
			return recorderFactory(cfg)
		},
	})

	b, err := Open("", Config{Width: 8, Height: 8})
	require.NoError(t, err)
	assert.IsType(t, &recorderBackend{}, b)
}

func TestOpenDefaultNothingWorks(t *testing.T) {
	errNoGPU := errors.New("no adapter")
	withRegistry(t, map[string]Factory{
		NameNative: func(Config) (Backend, error) { return nil, errNoGPU },
	})

	_, err := Open("", Config{})
	assert.ErrorIs(t, err, ErrBackendNotAvailable)
	assert.ErrorIs(t, err, errNoGPU)
}
