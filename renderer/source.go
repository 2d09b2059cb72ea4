package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// A source file may pull in other files with `#pragma use "other.glsl"`.
// Paths are relative to the including file.
var ppIncludeRe = regexp.MustCompile(`(?im)^#pragma\s+use\s+"([^"]+)"$`)

// Source is a piece of shader text. The sources of a stage are concatenated
// before compilation.
type Source interface {
	Contents() ([]byte, error)
}

type SourceBuf string

func (s SourceBuf) Contents() ([]byte, error) {
	return []byte(s), nil
}

type SourceFile struct {
	Filename string
}

func (s SourceFile) Contents() ([]byte, error) {
	buf, err := os.ReadFile(s.Filename)
	if err != nil {
		return nil, fmt.Errorf("error reading shader source: %w", err)
	}
	return buf, nil
}

// Includes resolves the files included by the named files, recursively.
// Every file is listed once, after all files it depends on, so the result
// can be compiled in order. Include cycles are cut where they close.
func Includes(filenames ...string) ([]Source, error) {
	files, err := resolveIncludes(filenames, nil, nil)
	if err != nil {
		return nil, err
	}
	sources := make([]Source, len(files))
	for i, f := range files {
		sources[i] = f
	}
	return sources, nil
}

// resolveIncludes appends the files to resolved, dependencies first. stack
// holds the files that are currently being resolved.
func resolveIncludes(filenames, stack []string, resolved []SourceFile) ([]SourceFile, error) {
	for _, filename := range filenames {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return nil, err
		}
		current := SourceFile{Filename: abs}
		text, err := current.Contents()
		if err != nil {
			return nil, err
		}

		inner := append(stack[:len(stack):len(stack)], abs)
		var includes []string
		for _, m := range ppIncludeRe.FindAllSubmatch(text, -1) {
			inc := string(m[1])
			if filepath.IsAbs(inc) {
				inc = filepath.Clean(inc)
			} else {
				inc = filepath.Join(filepath.Dir(abs), inc)
			}
			if !contains(inner, inc) && !containsFile(resolved, inc) {
				includes = append(includes, inc)
			}
		}

		if resolved, err = resolveIncludes(includes, inner, resolved); err != nil {
			return nil, err
		}
		if !containsFile(resolved, abs) {
			resolved = append(resolved, current)
		}
	}
	return resolved, nil
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}

func containsFile(files []SourceFile, filename string) bool {
	for _, f := range files {
		if f.Filename == filename {
			return true
		}
	}
	return false
}
