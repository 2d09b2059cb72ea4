package glsl

// Type is the type of a GLSL value. Every value is stored in a mgl32.Vec4 at
// runtime; scalars use the first component, booleans are 0 or 1.
type Type int

const (
	TypeVoid Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeVec2
	TypeVec3
	TypeVec4
)

var typeNames = map[string]Type{
	"void":  TypeVoid,
	"bool":  TypeBool,
	"int":   TypeInt,
	"float": TypeFloat,
	"vec2":  TypeVec2,
	"vec3":  TypeVec3,
	"vec4":  TypeVec4,
}

// Size returns the number of components of t.
func (t Type) Size() int {
	switch t {
	case TypeBool, TypeInt, TypeFloat:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	}
	return 0
}

func (t Type) IsScalar() bool {
	return t == TypeBool || t == TypeInt || t == TypeFloat
}

// IsFloat reports whether t is float or a float vector.
func (t Type) IsFloat() bool {
	return t == TypeFloat || t.IsVector()
}

func (t Type) IsVector() bool {
	return t == TypeVec2 || t == TypeVec3 || t == TypeVec4
}

func (t Type) String() string {
	for name, typ := range typeNames {
		if typ == t {
			return name
		}
	}
	return "<invalid>"
}

func vecType(size int) Type {
	switch size {
	case 1:
		return TypeFloat
	case 2:
		return TypeVec2
	case 3:
		return TypeVec3
	case 4:
		return TypeVec4
	}
	return TypeVoid
}

// Qualifier is the storage qualifier of a variable.
type Qualifier int

const (
	QualLocal Qualifier = iota
	QualConst
	QualAttribute
	QualVarying
	QualUniform
	// QualBuiltinIn and QualBuiltinOut are the gl_ prefixed variables.
	QualBuiltinIn
	QualBuiltinOut
)

func (q Qualifier) String() string {
	switch q {
	case QualConst:
		return "const"
	case QualAttribute:
		return "attribute"
	case QualVarying:
		return "varying"
	case QualUniform:
		return "uniform"
	}
	return ""
}

// Variable is a declared variable. Slot is its index into the slots of an
// Invocation.
type Variable struct {
	Name      string
	Type      Type
	Qualifier Qualifier
	Line      int
	Slot      int

	// Used is set when main statically refers to the variable.
	Used bool
}
