// Command shapes draws a circle and two triangles with aspect-ratio
// correction, either in a window or headless into a PNG file.
//
// Usage:
//
//	shapes                                   # window, default scene
//	shapes -config scene.yaml                # window, scene from file
//	shapes -backend software -out frame.png  # headless, CPU
//	shapes -backend native -frames 3 -out frame.png
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/backend"
	_ "github.com/gogpu/shapes/backend/software"
	"github.com/gogpu/shapes/internal/config"
)

// stopSignals end the event loop and run the close protocol.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func init() {
	// Window system and GPU calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath  = flag.String("config", "", "YAML scene file (default: built-in scene)")
		backendName = flag.String("backend", backend.NameWebGPU, "backend: webgpu (window), native or software (headless)")
		frames      = flag.Int("frames", 1, "frames to render in headless mode")
		output      = flag.String("out", "", "PNG file for the last headless frame")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	shapes.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	defer stop()

	if err := run(ctx, *configPath, *backendName, *frames, *output); err != nil {
		logger.Error("shapes failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, backendName string, frames int, output string) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	if backendName == backend.NameWebGPU {
		return runWindow(ctx, cfg)
	}
	return runHeadless(ctx, cfg, backendName, frames, output)
}

// runHeadless renders frames into an offscreen backend and optionally
// saves the last one.
func runHeadless(ctx context.Context, cfg *config.Config, name string, frames int, output string) (err error) {
	if frames < 1 {
		return fmt.Errorf("%w: frames %d", shapes.ErrDomain, frames)
	}
	w, h := cfg.Window.Width, cfg.Window.Height

	b, err := backend.Open(name, backend.Config{Width: w, Height: h})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	r, err := shapes.NewRenderer(backend.Context(b), w, h, cfg.Options()...)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := cfg.Populate(r); err != nil {
		return err
	}
	for range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Frame(); err != nil {
			return err
		}
	}
	shapes.Logger().Info("rendered", "backend", name, "stats", r.Stats().String())

	if output == "" {
		return nil
	}
	src, ok := b.(interface{ Image() *image.RGBA })
	if !ok {
		return fmt.Errorf("backend %s cannot read back frames", name)
	}
	return writePNG(output, src.Image())
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	shapes.Logger().Info("saved", "path", path)
	return nil
}
