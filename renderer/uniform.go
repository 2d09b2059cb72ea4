package renderer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
)

// Uniform is a float, vec2, vec3 or vec4 uniform value resolved against a
// program.
type Uniform struct {
	Name     string
	Location int32
	Value    []float32
}

func (u Uniform) TypeLiteral() string {
	switch len(u.Value) {
	case 1:
		return "float"
	case 2:
		return "vec2"
	case 3:
		return "vec3"
	case 4:
		return "vec4"
	}
	return "unknown"
}

func (u Uniform) String() string {
	return fmt.Sprintf("uniform %s %s; // %v", u.TypeLiteral(), u.Name, u.Value)
}

// ListUniforms resolves the locations of the named values, sorted by name.
// Uniforms the program does not use have location -1.
func ListUniforms(prog *Program, values map[string][]float32) ([]Uniform, error) {
	uniforms := make([]Uniform, 0, len(values))
	for name, v := range values {
		u := Uniform{Name: name, Location: prog.UniformLocation(name), Value: v}
		if u.TypeLiteral() == "unknown" {
			return nil, fmt.Errorf("uniform %q has %d components, expected 1 to 4", name, len(v))
		}
		uniforms = append(uniforms, u)
	}
	sort.Slice(uniforms, func(i, j int) bool {
		return uniforms[i].Name < uniforms[j].Name
	})
	return uniforms, nil
}

// SetUniforms uploads values to the uniforms of prog, which is made current.
func SetUniforms(gl glapi.Context, prog *Program, values map[string][]float32) error {
	uniforms, err := ListUniforms(prog, values)
	if err != nil {
		return err
	}
	prog.Use()
	for _, u := range uniforms {
		if u.Location == -1 {
			logger.Debug("uniform is not active", zap.String("name", u.Name))
			continue
		}
		gl.Uniformfv(u.Location, u.Value)
		if err := glapi.Error(gl, "uniform "+u.Name); err != nil {
			return err
		}
	}
	return nil
}
