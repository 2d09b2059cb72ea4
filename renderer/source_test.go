package renderer

import (
	"path/filepath"
	"testing"
)

func TestIncludes(t *testing.T) {
	cases := []struct {
		file     string
		expected []string
	}{
		{"include-none.glsl", []string{"include-none.glsl"}},
		{"include-single.glsl", []string{"lib/color.glsl", "include-single.glsl"}},
		{"include-recursive.glsl", []string{"lib/color.glsl", "include-single.glsl", "include-recursive.glsl"}},
		{"include-cycle.glsl", []string{"include-cycle.glsl"}},
		{"cycle-a.glsl", []string{"cycle-b.glsl", "cycle-a.glsl"}},
	}
	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			sources, err := Includes(filepath.Join("../testdata/preprocessor", c.file))
			if err != nil {
				t.Fatal(err)
			}
			if len(sources) != len(c.expected) {
				t.Fatalf("unexpected number of sources: exp %v, got %v", len(c.expected), len(sources))
			}
			for i, s := range sources {
				exp, err := filepath.Abs(filepath.Join("../testdata/preprocessor", c.expected[i]))
				if err != nil {
					t.Fatal(err)
				}
				if got := s.(SourceFile).Filename; got != exp {
					t.Errorf("source %d: exp %s, got %s", i, exp, got)
				}
			}
		})
	}
}

func TestIncludesMissingFile(t *testing.T) {
	if _, err := Includes("../testdata/preprocessor/does-not-exist.glsl"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
