package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeKind is the family of a field's wire type.
type TypeKind int

// Type families.
const (
	KindInvalid TypeKind = iota
	KindUint
	KindInt
	KindBool
	KindAddress
	KindFixedBytes
	KindBytes
	KindString
)

func (k TypeKind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindFixedBytes:
		return "bytesN"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Type is a parsed field type such as uint256, bytes8 or int8[].
type Type struct {
	Kind TypeKind
	// Size is the element width in bytes for static kinds.
	Size  int
	Array bool
}

// ParseType parses a type name. Arrays are only allowed over static
// element types.
func ParseType(s string) (Type, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return Type{}, fmt.Errorf("empty type")
	}

	array := strings.HasSuffix(name, "[]")
	elem := strings.TrimSuffix(name, "[]")

	t, err := parseElem(elem)
	if err != nil {
		return Type{}, fmt.Errorf("unknown type %q", s)
	}
	if array {
		if !t.Static() {
			return Type{}, fmt.Errorf("unsupported array of dynamic type %q", elem)
		}
		t.Array = true
	}
	return t, nil
}

// MustParseType is ParseType for known-good literals.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseElem(s string) (Type, error) {
	switch s {
	case "bool":
		return Type{Kind: KindBool, Size: 1}, nil
	case "address":
		return Type{Kind: KindAddress, Size: 20}, nil
	case "bytes":
		return Type{Kind: KindBytes}, nil
	case "string":
		return Type{Kind: KindString}, nil
	}

	switch {
	case strings.HasPrefix(s, "uint"):
		bits, err := parseWidth(strings.TrimPrefix(s, "uint"), 8, 256, 8)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindUint, Size: bits / 8}, nil
	case strings.HasPrefix(s, "int"):
		bits, err := parseWidth(strings.TrimPrefix(s, "int"), 8, 256, 8)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindInt, Size: bits / 8}, nil
	case strings.HasPrefix(s, "bytes"):
		n, err := parseWidth(strings.TrimPrefix(s, "bytes"), 1, 32, 1)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindFixedBytes, Size: n}, nil
	}
	return Type{}, fmt.Errorf("unknown type %q", s)
}

func parseWidth(s string, lo, hi, step int) (int, error) {
	if s == "" || strings.HasPrefix(s, "0") {
		return 0, fmt.Errorf("invalid width %q", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi || n%step != 0 {
		return 0, fmt.Errorf("width %d out of range", n)
	}
	return n, nil
}

// Static reports whether the type has a fixed encoded length.
func (t Type) Static() bool {
	if t.Array {
		return false
	}
	switch t.Kind {
	case KindUint, KindInt, KindBool, KindAddress, KindFixedBytes:
		return true
	}
	return false
}

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindUint:
		s = "uint" + strconv.Itoa(t.Size*8)
	case KindInt:
		s = "int" + strconv.Itoa(t.Size*8)
	case KindFixedBytes:
		s = "bytes" + strconv.Itoa(t.Size)
	default:
		s = t.Kind.String()
	}
	if t.Array {
		s += "[]"
	}
	return s
}
