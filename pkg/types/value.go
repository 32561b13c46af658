// pkg/types/value.go
package types

import "fmt"

// ValueType represents the type of a literal value carried by the AST.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInt
	TypeFloat
	TypeText
	TypeBlob
)

// Value represents a literal database value (like SQLite's Mem structure).
// It is only ever constructed by the parser layer and consumed by this
// package; the planner and WHERE compiler never compute with it, they only
// move it between registers.
type Value struct {
	typ      ValueType
	intVal   int64
	floatVal float64
	textVal  string
	blobVal  []byte
}

func NewNull() Value {
	return Value{typ: TypeNull}
}

func NewInt(i int64) Value {
	return Value{typ: TypeInt, intVal: i}
}

func NewFloat(f float64) Value {
	return Value{typ: TypeFloat, floatVal: f}
}

func NewText(s string) Value {
	return Value{typ: TypeText, textVal: s}
}

func NewBlob(b []byte) Value {
	if b == nil {
		return Value{typ: TypeBlob}
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	return Value{typ: TypeBlob, blobVal: copied}
}

func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool    { return v.typ == TypeNull }
func (v Value) Int() int64      { return v.intVal }
func (v Value) Float() float64  { return v.floatVal }
func (v Value) Text() string    { return v.textVal }
func (v Value) Blob() []byte {
	if v.blobVal == nil {
		return nil
	}
	copied := make([]byte, len(v.blobVal))
	copy(copied, v.blobVal)
	return copied
}

// Truthy reports whether the value counts as true for Boolean-context
// materialization (numeric literal coerced to a branch condition, see
// spec §4.5). NULL, zero, empty text and an empty blob are falsy;
// everything else is truthy.
func (v Value) Truthy() bool {
	switch v.typ {
	case TypeNull:
		return false
	case TypeInt:
		return v.intVal != 0
	case TypeFloat:
		return v.floatVal != 0
	case TypeText:
		return v.textVal != ""
	case TypeBlob:
		return len(v.blobVal) != 0
	default:
		return false
	}
}

// String renders the value the way the AST's textual form does, used by
// EXPLAIN and by error messages.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return fmt.Sprintf("%d", v.intVal)
	case TypeFloat:
		return fmt.Sprintf("%g", v.floatVal)
	case TypeText:
		return fmt.Sprintf("%q", v.textVal)
	case TypeBlob:
		return fmt.Sprintf("x'%x'", v.blobVal)
	default:
		return "?"
	}
}
