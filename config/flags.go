package config

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Flags holds command line overrides. Empty values leave the config as is.
type Flags struct {
	Config   string
	Preset   string
	Backend  string
	Output   string
	Geometry string
	Readback string
	Watch    bool
	Debug    bool
}

// RegisterFlags defines the command line flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to a YAML config file")
	fs.StringVar(&f.Preset, "preset", "clear", "The built-in configuration to start from: clear, canvas or gl")
	fs.StringVar(&f.Backend, "backend", "", "The rendering context to use: soft, egl or glfw")
	fs.StringVar(&f.Output, "o", "", "The file to write the PNG to")
	fs.StringVar(&f.Geometry, "g", "", "The geometry of the rendered image in WIDTHxHEIGHT format. If \"env\", look for the GLSNAP_GEOMETRY variable")
	fs.StringVar(&f.Readback, "readback", "", "How pixels are read back: canvas or raw")
	fs.BoolVar(&f.Watch, "w", false, "Watch the shader source files for changes")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	return f
}

// ApplyFlags applies command line overrides to the config.
func (c *Config) ApplyFlags(f *Flags) error {
	if f.Debug {
		c.Logging.Level = "debug"
	}
	if f.Backend != "" {
		c.Backend = f.Backend
	}
	if f.Output != "" {
		c.Output.Path = f.Output
	}
	if f.Readback != "" {
		c.Output.Readback = f.Readback
	}
	if f.Geometry != "" {
		w, h, err := ParseGeometry(f.Geometry)
		if err != nil {
			return err
		}
		c.Render.Width, c.Render.Height = w, h
	}
	return nil
}

var geometryRe = regexp.MustCompile(`^(\d+)x(\d+)$`)

// MaxSize is the largest accepted width or height, the common
// GL_MAX_RENDERBUFFER_SIZE of desktop and mobile drivers.
const MaxSize = 16384

// ParseGeometry parses a WIDTHxHEIGHT string. "env" reads the geometry from
// the GLSNAP_GEOMETRY environment variable.
func ParseGeometry(geom string) (int, int, error) {
	if geom == "env" {
		geom = os.Getenv("GLSNAP_GEOMETRY")
		if geom == "" {
			return 0, 0, fmt.Errorf("GLSNAP_GEOMETRY is empty while instructed to load the geometry from the environment")
		}
	}

	matches := geometryRe.FindStringSubmatch(geom)
	if matches == nil {
		return 0, 0, fmt.Errorf("invalid geometry: %q", geom)
	}
	w, err := strconv.ParseUint(matches[1], 10, 31)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid geometry width: %w", err)
	}
	h, err := strconv.ParseUint(matches[2], 10, 31)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid geometry height: %w", err)
	}
	if w == 0 || h == 0 {
		return 0, 0, fmt.Errorf("no geometry dimension can be 0, got (%d, %d)", w, h)
	}
	if w > MaxSize || h > MaxSize {
		return 0, 0, fmt.Errorf("geometry %dx%d exceeds the maximum of %dx%d", w, h, MaxSize, MaxSize)
	}
	return int(w), int(h), nil
}
