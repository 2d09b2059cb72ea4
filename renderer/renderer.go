// Package renderer draws a shader pair into an offscreen framebuffer and
// writes the result to a PNG file.
package renderer

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
)

// DefaultAttribute is the name of the vertex position attribute.
const DefaultAttribute = "vertexPosition"

// Config describes a single render.
type Config struct {
	Width, Height int
	Alpha         bool
	ClearColor    [4]float32

	// Draw enables the draw stage. Without it the image only holds the
	// clear color, which is a supported mode of its own.
	Draw bool

	// Vertices are 2D positions drawn as a triangle list. Defaults to
	// QuadVertices.
	Vertices []float32

	VertexSources   []Source
	FragmentSources []Source
	Uniforms        map[string][]float32

	// Attribute receives the vertex positions. Defaults to DefaultAttribute.
	Attribute string

	Readback Readback
	Output   string

	// FlipY stores the top row of the framebuffer as the first row of the
	// image.
	FlipY bool
}

func (cfg Config) withDefaults() Config {
	if cfg.Vertices == nil {
		cfg.Vertices = QuadVertices
	}
	if cfg.Attribute == "" {
		cfg.Attribute = DefaultAttribute
	}
	if cfg.Readback == "" {
		cfg.Readback = ReadbackCanvas
	}
	return cfg
}

// Render runs the pipeline and returns the encoded PNG.
func Render(gl glapi.Context, cfg Config) ([]byte, error) {
	cfg = cfg.withDefaults()
	if !cfg.Readback.valid() {
		return nil, fmt.Errorf("unknown readback mode %q", cfg.Readback)
	}
	start := time.Now()

	target, err := NewRenderTarget(gl, cfg.Width, cfg.Height, cfg.Alpha)
	if err != nil {
		return nil, err
	}
	if err := SetupState(gl, target.Width, target.Height, cfg.ClearColor); err != nil {
		return nil, err
	}

	hasSources := len(cfg.VertexSources) > 0 || len(cfg.FragmentSources) > 0
	if cfg.Draw || hasSources {
		prog, err := BuildProgram(gl, map[Stage][]Source{
			StageVertex:   cfg.VertexSources,
			StageFragment: cfg.FragmentSources,
		})
		if err != nil {
			return nil, err
		}
		if err := SetUniforms(gl, prog, cfg.Uniforms); err != nil {
			return nil, err
		}
		loc := prog.AttribLocation(cfg.Attribute)
		if loc == -1 {
			logger.Warn("vertex attribute is not active", zap.String("attribute", cfg.Attribute))
		}
		if cfg.Draw {
			vb, err := NewVertexBuffer(gl, cfg.Vertices)
			if err != nil {
				return nil, err
			}
			if err := Draw(gl, prog, vb, loc); err != nil {
				return nil, err
			}
		}
	}

	pixels, err := ReadPixels(gl, target.Width, target.Height, cfg.Readback)
	if err != nil {
		return nil, err
	}
	if cfg.FlipY {
		pixels.FlipY()
	}
	buf, err := pixels.Encode()
	if err != nil {
		return nil, err
	}
	logger.Debug("rendered image",
		zap.Int("width", target.Width),
		zap.Int("height", target.Height),
		zap.Bool("draw", cfg.Draw),
		zap.String("readback", string(cfg.Readback)),
		zap.Duration("elapsed", time.Since(start)))
	return buf, nil
}

// Run renders the image described by cfg and writes it to cfg.Output,
// replacing any existing file. Nothing is written if a stage fails.
func Run(gl glapi.Context, cfg Config) error {
	if cfg.Output == "" {
		return fmt.Errorf("no output file")
	}
	buf, err := Render(gl, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Output, buf, 0o644); err != nil {
		return fmt.Errorf("error writing image: %w", err)
	}
	logger.Info("wrote image", zap.String("output", cfg.Output), zap.Int("bytes", len(buf)))
	return nil
}
