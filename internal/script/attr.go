package script

import "fmt"

// AttrKind says whether a view-model attribute lookup found a value.
type AttrKind int

const (
	AttrAbsent AttrKind = iota
	AttrPresent
	AttrWrongType
)

func (k AttrKind) String() string {
	switch k {
	case AttrPresent:
		return "present"
	case AttrWrongType:
		return "wrong-type"
	default:
		return "absent"
	}
}

// Attr is the result of reading a named attribute from a view-model.
type Attr struct {
	Kind  AttrKind
	Value any
}

// Present wraps a found value.
func Present(v any) Attr { return Attr{Kind: AttrPresent, Value: v} }

// Absent is returned for unknown or unset attributes.
func Absent() Attr { return Attr{Kind: AttrAbsent} }

// As reads a typed value out of an attribute.
func As[T any](a Attr) (T, AttrKind) {
	var zero T
	if a.Kind != AttrPresent {
		return zero, a.Kind
	}
	v, ok := a.Value.(T)
	if !ok {
		return zero, AttrWrongType
	}
	return v, AttrPresent
}

func (a Attr) String() string {
	if a.Kind != AttrPresent {
		return a.Kind.String()
	}
	return fmt.Sprint(a.Value)
}
