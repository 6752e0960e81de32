package pregel

import (
	"fmt"
	"math"
	"strings"
)

type ValueType uint8

const (
	LONG ValueType = iota
	DOUBLE
	LONG_ARRAY
	DOUBLE_ARRAY
)

func (t ValueType) String() string {
	switch t {
	case LONG:
		return "LONG"
	case DOUBLE:
		return "DOUBLE"
	case LONG_ARRAY:
		return "LONG_ARRAY"
	case DOUBLE_ARRAY:
		return "DOUBLE_ARRAY"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

type Visibility uint8

const (
	PUBLIC  Visibility = iota // Part of the result snapshot.
	PRIVATE                   // Scratch state for the computation only.
)

type Element struct {
	Key        string
	Type       ValueType
	Visibility Visibility
	Default    any // int64 for LONG, float64 for DOUBLE; arrays have no default.
}

// Schema is the ordered set of per-vertex values a computation declares.
// Build with NewSchema().Add(...); errors from Add surface through Err and when the engine is constructed.
type Schema struct {
	elements []Element
	offsets  map[string]int
	err      error
}

type ElementOption func(*Element)

// Private hides the element from the result snapshot.
func Private() ElementOption {
	return func(e *Element) { e.Visibility = PRIVATE }
}

// WithDefault sets the value a vertex has before it is first written.
func WithDefault(v any) ElementOption {
	return func(e *Element) { e.Default = v }
}

func NewSchema() *Schema {
	return &Schema{offsets: make(map[string]int)}
}

func (s *Schema) Add(key string, valueType ValueType, opts ...ElementOption) *Schema {
	if s.err != nil {
		return s
	}
	if _, ok := s.offsets[key]; ok {
		s.err = fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		return s
	}
	if valueType > DOUBLE_ARRAY {
		s.err = fmt.Errorf("unknown value type %s for key %q", valueType, key)
		return s
	}
	element := Element{Key: key, Type: valueType}
	for _, opt := range opts {
		opt(&element)
	}
	if err := checkDefault(&element); err != nil {
		s.err = err
		return s
	}
	s.offsets[key] = len(s.elements)
	s.elements = append(s.elements, element)
	return s
}

func checkDefault(e *Element) error {
	switch e.Type {
	case LONG:
		switch v := e.Default.(type) {
		case nil:
			e.Default = int64(0)
		case int:
			e.Default = int64(v)
		case int64:
		default:
			return fmt.Errorf("default %v of key %q is not a LONG", v, e.Key)
		}
	case DOUBLE:
		switch v := e.Default.(type) {
		case nil:
			e.Default = math.NaN()
		case float64:
		case int:
			e.Default = float64(v)
		default:
			return fmt.Errorf("default %v of key %q is not a DOUBLE", v, e.Key)
		}
	default:
		if e.Default != nil {
			return fmt.Errorf("array key %q cannot have a default", e.Key)
		}
	}
	return nil
}

func (s *Schema) Err() error {
	return s.err
}

func (s *Schema) Elements() []Element {
	return s.elements
}

func (s *Schema) Len() int {
	return len(s.elements)
}

// Offset returns the column of key.
func (s *Schema) Offset(key string) (int, bool) {
	offset, ok := s.offsets[key]
	return offset, ok
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key + ": " + e.Type.String())
		if e.Visibility == PRIVATE {
			b.WriteString(" (private)")
		}
	}
	b.WriteByte('}')
	return b.String()
}
