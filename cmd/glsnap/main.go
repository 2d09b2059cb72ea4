package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"go.uber.org/zap"

	"github.com/Prior99/windows-test/config"
	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
	"github.com/Prior99/windows-test/native"
	"github.com/Prior99/windows-test/renderer"
	"github.com/Prior99/windows-test/soft"
)

func main() {
	// Lock this goroutine to the current thread. This is required because
	// OpenGL contexts are bound to threads.
	runtime.LockOSThread()

	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	// Errors in the config itself are reported before it can pick a level.
	if err := logger.Init("info", ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flags.Watch {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		watch(ctx, flags, render)
		return
	}

	if _, err := render(flags); err != nil {
		printSource(err)
		logger.Fatal("render failed", zap.Error(err))
	}
	logger.Sync()
}

func loadConfig(flags *config.Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.Preset, flags.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

// render runs the pipeline once. It returns the files the result depends on,
// which are known as soon as the config could be read.
func render(flags *config.Flags) ([]string, error) {
	var files []string
	if flags.Config != "" {
		files = append(files, flags.Config)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return files, err
	}
	if err := initLogging(cfg.Logging); err != nil {
		return files, err
	}
	rc, sources, err := cfg.Renderer()
	if err != nil {
		return files, err
	}
	files = append(files, sources...)

	gl, err := newContext(cfg.Backend, rc.Alpha)
	if err != nil {
		return files, fmt.Errorf("could not initialize %s context: %w", cfg.Backend, err)
	}
	defer gl.Close()

	return files, renderer.Run(gl, rc)
}

func newContext(backend string, alpha bool) (glapi.Context, error) {
	switch backend {
	case "soft":
		return soft.NewContext(), nil
	case "egl":
		return native.NewEGL(alpha)
	case "glfw":
		return native.NewGLFW()
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}

// logging is the configuration the logger was last set up with.
var logging *config.LoggingConfig

// initLogging sets up the logger unless it already runs with cfg. Watch mode
// calls this for every render.
func initLogging(cfg config.LoggingConfig) error {
	if logging != nil && *logging == cfg {
		return nil
	}
	if err := logger.Init(cfg.Level, cfg.LogFile); err != nil {
		return err
	}
	logging = &cfg
	return nil
}

// printSource shows the offending source lines of a compile error.
func printSource(err error) {
	var cerr renderer.CompileError
	if errors.As(err, &cerr) {
		cerr.PrettyPrint(os.Stderr, isTerminal(os.Stderr))
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
