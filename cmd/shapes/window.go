//go:build !nogpu

package main

import (
	"context"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/backend"
	_ "github.com/gogpu/shapes/backend/native"
	_ "github.com/gogpu/shapes/backend/webgpu"
	"github.com/gogpu/shapes/internal/config"
	"github.com/gogpu/shapes/internal/platform"
)

// runWindow opens a window and renders until it is closed or ctx is done.
func runWindow(ctx context.Context, cfg *config.Config) error {
	win, err := platform.Open(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.FramebufferSize()
	b, err := backend.Open(backend.NameWebGPU, backend.Config{Width: w, Height: h, Window: win.GLFW()})
	if err != nil {
		return err
	}
	defer b.Close()

	r, err := shapes.NewRenderer(backend.Context(b), w, h, cfg.Options()...)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := cfg.Populate(r); err != nil {
		return err
	}

	for ctx.Err() == nil {
		for _, ev := range win.Poll() {
			stop, err := r.HandleEvent(ev)
			if err != nil {
				return err
			}
			if stop {
				shapes.Logger().Info("window closed", "stats", r.Stats().String())
				return nil
			}
		}
	}
	return nil
}
