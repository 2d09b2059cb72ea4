package glsl

import "strings"

// predefined macros of an OpenGL ES 2 implementation.
var predefined = map[string]bool{
	"GL_ES":                      true,
	"GL_FRAGMENT_PRECISION_HIGH": true,
}

// preprocess handles the directives the compiler understands. Lines that are
// directives or inside an excluded conditional block are blanked so that line
// numbers are preserved.
func preprocess(source string) (string, *Error) {
	lines := strings.Split(source, "\n")
	// Each entry tells whether the enclosing block is active and whether an
	// #else has been seen.
	type cond struct {
		active, parentActive, seenElse bool
	}
	var stack []cond
	active := true

	for i, line := range lines {
		lineno := i + 1
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if !active {
				lines[i] = ""
			}
			continue
		}
		lines[i] = ""

		fields := strings.Fields(strings.TrimSpace(trimmed[1:]))
		directive := ""
		if len(fields) > 0 {
			directive = fields[0]
		}
		switch directive {
		case "ifdef", "ifndef":
			if len(fields) < 2 {
				return "", errorf(lineno, "'#%s' : missing macro name", directive)
			}
			def := predefined[fields[1]]
			if directive == "ifndef" {
				def = !def
			}
			stack = append(stack, cond{active: def, parentActive: active})
			active = active && def
			continue
		case "else":
			if len(stack) == 0 {
				return "", errorf(lineno, "'#else' : #else without #if")
			}
			top := &stack[len(stack)-1]
			if top.seenElse {
				return "", errorf(lineno, "'#else' : #else after #else")
			}
			top.seenElse = true
			top.active = !top.active
			active = top.parentActive && top.active
			continue
		case "endif":
			if len(stack) == 0 {
				return "", errorf(lineno, "'#endif' : #endif without #if")
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
			continue
		}
		if !active {
			continue
		}
		switch directive {
		case "", "version", "extension", "pragma", "line":
		case "error":
			msg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(trimmed[1:]), "error"))
			return "", errorf(lineno, "'#error' : %s", msg)
		default:
			return "", errorf(lineno, "'#%s' : unsupported preprocessor directive", directive)
		}
	}
	if len(stack) > 0 {
		return "", errorf(len(lines), "'#endif' : missing #endif")
	}
	return strings.Join(lines, "\n"), nil
}
