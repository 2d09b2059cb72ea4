package renderer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Prior99/windows-test/glapi"
	"github.com/Prior99/windows-test/logger"
)

const sourceSeparator = "\n\n"

type Stage string

const (
	StageVertex   Stage = "vert"
	StageFragment Stage = "frag"
)

func (stage Stage) glEnum() (glapi.Enum, error) {
	switch stage {
	case StageVertex:
		return glapi.VertexShader, nil
	case StageFragment:
		return glapi.FragmentShader, nil
	}
	return 0, fmt.Errorf("invalid pipeline stage: %q", stage)
}

func (stage Stage) String() string {
	switch stage {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return string(stage)
}

// CompileShader compiles the concatenation of sources as a shader of the
// given stage. A shader that fails to compile is deleted and a CompileError
// carrying the info log is returned.
func CompileShader(gl glapi.Context, stage Stage, sources ...Source) (uint32, error) {
	glStage, err := stage.glEnum()
	if err != nil {
		return 0, err
	}

	var src strings.Builder
	for _, s := range sources {
		c, err := s.Contents()
		if err != nil {
			return 0, err
		}
		src.Write(c)
		src.WriteString(sourceSeparator)
	}

	shader := gl.CreateShader(glStage)
	if shader == 0 {
		return 0, ObjectError{Object: stage.String() + " shader"}
	}
	gl.ShaderSource(shader, src.String())
	gl.CompileShader(shader)

	if gl.GetShaderParameter(shader, glapi.CompileStatus) == int32(glapi.False) {
		log := gl.GetShaderInfoLog(shader)
		logger.Error("shader compile failed", zap.Stringer("stage", stage), zap.String("log", log))
		gl.DeleteShader(shader)
		return 0, CompileError{
			sources: sources,
			Stage:   stage,
			Log:     log,
		}
	}
	return shader, glapi.Error(gl, "compileShader")
}

// Program is a linked shader program.
type Program struct {
	gl glapi.Context

	ID       uint32
	Vertex   uint32
	Fragment uint32
}

// LinkProgram links a vertex and a fragment shader into a program.
func LinkProgram(gl glapi.Context, vertex, fragment uint32) (*Program, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return nil, ObjectError{Object: "shader program"}
	}
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	if gl.GetProgramParameter(program, glapi.LinkStatus) == int32(glapi.False) {
		log := gl.GetProgramInfoLog(program)
		logger.Error("program link failed", zap.String("log", log))
		return nil, LinkError{Log: log}
	}
	if err := glapi.Error(gl, "linkProgram"); err != nil {
		return nil, err
	}
	return &Program{gl: gl, ID: program, Vertex: vertex, Fragment: fragment}, nil
}

// BuildProgram compiles the sources of both stages and links them.
func BuildProgram(gl glapi.Context, sources map[Stage][]Source) (*Program, error) {
	shaders := map[Stage]uint32{}
	for _, stage := range []Stage{StageVertex, StageFragment} {
		if len(sources[stage]) == 0 {
			return nil, fmt.Errorf("no %s shader sources", stage)
		}
		sh, err := CompileShader(gl, stage, sources[stage]...)
		if err != nil {
			return nil, err
		}
		shaders[stage] = sh
	}
	return LinkProgram(gl, shaders[StageVertex], shaders[StageFragment])
}

func (p *Program) Use() {
	p.gl.UseProgram(p.ID)
}

// AttribLocation returns the location of a vertex attribute, or -1 if the
// program has no active attribute by that name.
func (p *Program) AttribLocation(name string) int32 {
	return p.gl.GetAttribLocation(p.ID, name)
}

func (p *Program) UniformLocation(name string) int32 {
	return p.gl.GetUniformLocation(p.ID, name)
}

// ObjectError is returned when the context could not allocate an object.
type ObjectError struct {
	Object string
}

func (err ObjectError) Error() string {
	return fmt.Sprintf("unable to create %s", err.Object)
}

type CompileError struct {
	sources []Source

	Stage Stage
	Log   string
}

func (err CompileError) Error() string {
	return fmt.Sprintf("Unable to compile shader.\nError compiling %s shader:\n%s", err.Stage, err.Log)
}

// Marker points at a line in one of the sources of a shader that the
// compiler reported an error for.
type Marker struct {
	FileNo  int
	LineNo  int
	Message string
}

var markerRes = []*regexp.Regexp{
	// ANGLE, Mesa (GLES) and the software compiler.
	regexp.MustCompile(`^ERROR: \d+:(\d+): (.*)$`),
	// Mesa (desktop).
	regexp.MustCompile(`^\d+:(\d+)\(\d+\): (.*)$`),
	// NVIDIA.
	regexp.MustCompile(`^\d+\((\d+)\) : (.*)$`),
}

// Markers parses the compiler log and maps every reported line back to the
// source it came from.
func (err CompileError) Markers() []Marker {
	// The number of lines each source occupies in the compiled text.
	var lineCounts []int
	for _, s := range err.sources {
		c, cerr := s.Contents()
		if cerr != nil {
			return nil
		}
		lineCounts = append(lineCounts, strings.Count(string(c)+sourceSeparator, "\n"))
	}

	var markers []Marker
	for _, line := range strings.Split(err.Log, "\n") {
		line = strings.TrimRight(line, "\r\x00")
		for _, re := range markerRes {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			lineno, _ := strconv.Atoi(m[1])
			fileno := 0
			for fileno < len(lineCounts)-1 && lineno > lineCounts[fileno] {
				lineno -= lineCounts[fileno]
				fileno++
			}
			markers = append(markers, Marker{FileNo: fileno, LineNo: lineno, Message: m[2]})
			break
		}
	}
	return markers
}

// PrettyPrint writes every marker along with the offending source line.
func (err CompileError) PrettyPrint(out io.Writer, color bool) {
	red, reset := "", ""
	if color {
		red, reset = "\x1b[31m", "\x1b[0m"
	}
	for _, m := range err.Markers() {
		name := fmt.Sprintf("<source %d>", m.FileNo)
		var text string
		if m.FileNo < len(err.sources) {
			if f, ok := err.sources[m.FileNo].(SourceFile); ok {
				name = f.Filename
			}
			if c, cerr := err.sources[m.FileNo].Contents(); cerr == nil {
				lines := strings.Split(string(c), "\n")
				if m.LineNo > 0 && m.LineNo <= len(lines) {
					text = strings.TrimSpace(lines[m.LineNo-1])
				}
			}
		}
		fmt.Fprintf(out, "%s:%d: %s%s%s\n", name, m.LineNo, red, m.Message, reset)
		if text != "" {
			fmt.Fprintf(out, "    %s\n", text)
		}
	}
}

type LinkError struct {
	Log string
}

func (err LinkError) Error() string {
	return fmt.Sprintf("Unable to link shader program:\n%s", err.Log)
}
