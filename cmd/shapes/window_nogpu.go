//go:build nogpu

package main

import (
	"context"
	"errors"

	"github.com/gogpu/shapes/internal/config"
)

var errNoWindow = errors.New("windowed mode not available in this build")

func runWindow(context.Context, *config.Config) error {
	return errNoWindow
}
