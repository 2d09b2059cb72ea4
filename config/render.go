package config

import (
	"errors"
	"fmt"

	"github.com/Prior99/windows-test/renderer"
)

// Backends lists the accepted values of Config.Backend.
var Backends = []string{"soft", "egl", "glfw"}

// Validate checks the config for values the pipeline would reject.
func (c *Config) Validate() error {
	var errs []error
	if !contains(Backends, c.Backend) {
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 || c.Render.Width > MaxSize || c.Render.Height > MaxSize {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Render.Width, c.Render.Height))
	}
	if len(c.Render.Vertices)%2 != 0 {
		errs = append(errs, fmt.Errorf("vertices hold %d floats, expected pairs", len(c.Render.Vertices)))
	}
	switch renderer.Readback(c.Output.Readback) {
	case renderer.ReadbackCanvas, renderer.ReadbackRaw:
	default:
		errs = append(errs, fmt.Errorf("unknown readback mode %q", c.Output.Readback))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("no output path"))
	}
	for name, v := range c.Render.Uniforms {
		if len(v) < 1 || len(v) > 4 {
			errs = append(errs, fmt.Errorf("uniform %q has %d components", name, len(v)))
		}
	}
	return errors.Join(errs...)
}

// Renderer converts the config to a renderer.Config. Shader files are
// resolved together with their includes, the resolved file names are
// returned so they can be watched.
func (c *Config) Renderer() (renderer.Config, []string, error) {
	if err := c.Validate(); err != nil {
		return renderer.Config{}, nil, err
	}
	vs, vsFiles, err := stageSources(c.Shaders.Vertex, c.Shaders.VertexFile)
	if err != nil {
		return renderer.Config{}, nil, err
	}
	fs, fsFiles, err := stageSources(c.Shaders.Fragment, c.Shaders.FragmentFile)
	if err != nil {
		return renderer.Config{}, nil, err
	}

	return renderer.Config{
		Width:           c.Render.Width,
		Height:          c.Render.Height,
		Alpha:           c.Render.Alpha,
		ClearColor:      c.Render.ClearColor,
		Draw:            c.Render.Draw,
		Vertices:        c.Render.Vertices,
		VertexSources:   vs,
		FragmentSources: fs,
		Uniforms:        c.Render.Uniforms,
		Attribute:       c.Render.Attribute,
		Readback:        renderer.Readback(c.Output.Readback),
		Output:          c.Output.Path,
		FlipY:           c.Output.FlipY,
	}, append(vsFiles, fsFiles...), nil
}

func stageSources(inline, file string) ([]renderer.Source, []string, error) {
	if file == "" {
		if inline == "" {
			return nil, nil, nil
		}
		return []renderer.Source{renderer.SourceBuf(inline)}, nil, nil
	}
	included, err := renderer.Includes(file)
	if err != nil {
		return nil, nil, err
	}
	files := make([]string, 0, len(included))
	for _, src := range included {
		if f, ok := src.(renderer.SourceFile); ok {
			files = append(files, f.Filename)
		}
	}
	return included, files, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
