// Package config handles loading and management of render configurations.
package config

import "fmt"

// Config holds all settings of a single run.
type Config struct {
	Backend string        `yaml:"backend"` // soft, egl or glfw
	Render  RenderConfig  `yaml:"render"`
	Shaders ShaderConfig  `yaml:"shaders"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds the framebuffer and draw settings.
type RenderConfig struct {
	Width      int                  `yaml:"width"`
	Height     int                  `yaml:"height"`
	Alpha      bool                 `yaml:"alpha"`
	ClearColor [4]float32           `yaml:"clear_color"`
	Draw       bool                 `yaml:"draw"`
	Vertices   []float32            `yaml:"vertices,omitempty"`
	Attribute  string               `yaml:"attribute,omitempty"`
	Uniforms   map[string][]float32 `yaml:"uniforms,omitempty"`
}

// ShaderConfig holds the shader sources. A file replaces the inline source of
// its stage.
type ShaderConfig struct {
	Vertex       string `yaml:"vertex,omitempty"`
	Fragment     string `yaml:"fragment,omitempty"`
	VertexFile   string `yaml:"vertex_file,omitempty"`
	FragmentFile string `yaml:"fragment_file,omitempty"`
}

// OutputConfig holds the readback and file settings.
type OutputConfig struct {
	Path     string `yaml:"path"`
	Readback string `yaml:"readback"` // canvas or raw
	FlipY    bool   `yaml:"flip_y"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Shader texts must not start with a newline, YAML block scalars drop it and
// the compiler line numbers of a saved config would shift.
const quadVertexShader = `precision lowp float;

attribute vec2 vertexPosition;

varying vec2 textureCoords;

void main() {
    textureCoords = vertexPosition;
    gl_Position = vec4(vertexPosition, 0.0, 1.0);
}
`

const yellowFragmentShader = `precision mediump float;

varying vec2 textureCoords;

void main() {
    gl_FragColor = vec4(1, 1, 0, 0);
}
`

const redFragmentShader = `precision mediump float;

void main() {
    gl_FragColor = vec4(1.0, 0.0, 0.0, 1.0);
}
`

// Presets lists the names accepted by Preset.
var Presets = []string{"clear", "canvas", "gl"}

// Default returns the clear preset.
func Default() *Config {
	return &Config{
		Backend: "soft",
		Render: RenderConfig{
			Width:      320,
			Height:     240,
			Alpha:      true,
			ClearColor: [4]float32{1, 1, 0, 1},
			Draw:       false,
		},
		Shaders: ShaderConfig{
			Vertex:   quadVertexShader,
			Fragment: yellowFragmentShader,
		},
		Output: OutputConfig{
			Path:     "test.png",
			Readback: "canvas",
			FlipY:    true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Preset returns the named built-in configuration.
//
//	clear   clears to yellow and writes test.png through the canvas.
//	canvas  draws a red quad over black and writes canvas.png.
//	gl      draws the same quad and writes gl.png from raw 16 bit samples.
func Preset(name string) (*Config, error) {
	cfg := Default()
	switch name {
	case "", "clear":
		return cfg, nil
	case "canvas", "gl":
		cfg.Render.ClearColor = [4]float32{0, 0, 0, 1}
		cfg.Render.Draw = true
		cfg.Shaders.Fragment = redFragmentShader
		cfg.Output.Path = "canvas.png"
		if name == "gl" {
			cfg.Output.Path = "gl.png"
			cfg.Output.Readback = "raw"
		}
		return cfg, nil
	}
	return nil, fmt.Errorf("unknown preset %q", name)
}
