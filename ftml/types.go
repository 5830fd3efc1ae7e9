package ftml

// ScalarName enumerates the reserved scalar type names recognized in
// schema type position.
type ScalarName byte

const (
	TStr ScalarName = iota
	TInt
	TFloat
	TBool
	TNull
	TAny
	TDate
	TTime
	TDatetime
	TTimestamp
	// TCustom marks a scalar registered under a name outside the reserved
	// set; ScalarT.CustomName carries the registered name.
	TCustom
)

func (n ScalarName) String() string {
	switch n {
	case TStr:
		return "str"
	case TInt:
		return "int"
	case TFloat:
		return "float"
	case TBool:
		return "bool"
	case TNull:
		return "null"
	case TAny:
		return "any"
	case TDate:
		return "date"
	case TTime:
		return "time"
	case TDatetime:
		return "datetime"
	case TTimestamp:
		return "timestamp"
	case TCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// scalarNames maps the reserved bare identifiers to their ScalarName, the
// single source of truth consulted by the schema parser when deciding
// whether a type-position identifier is a built-in or must be looked up
// in the registry's custom scalar table.
var scalarNames = map[string]ScalarName{
	"str": TStr, "int": TInt, "float": TFloat, "bool": TBool, "null": TNull,
	"any": TAny, "date": TDate, "time": TTime, "datetime": TDatetime, "timestamp": TTimestamp,
}

// Type is the closed set of type-descriptor variants produced by the
// schema parser: a tagged variant over ScalarT, UnionT, ListT, and the
// two ObjectT shapes, not an "any" container.
type Type interface {
	isType()
}

// ScalarT describes a leaf scalar type, built-in or registered.
type ScalarT struct {
	Kind        ScalarName
	CustomName  string // set when Kind names a registered, non-built-in scalar
	Constraints map[string]ConstraintValue
	HasDefault  bool
	Default     *Value
	Optional    bool
}

func (*ScalarT) isType() {}

// UnionT describes an ordered set of alternative types, tried in source
// order at validation time: the first matching alternative wins.
type UnionT struct {
	Alts       []Type
	HasDefault bool
	Default    *Value
	Optional   bool
}

func (*UnionT) isType() {}

// ListT describes a homogeneous list type.
type ListT struct {
	Item        Type
	Constraints map[string]ConstraintValue
	HasDefault  bool
	Default     *Value
	Optional    bool
}

func (*ListT) isType() {}

// ObjectField is one member of an enumerated ObjectT.
type ObjectField struct {
	Name string
	Type Type
}

// ObjectT describes an object type, in one of two mutually exclusive
// shapes distinguished at parse time by whether the body reads as
// `name: type` pairs (enumerated) or a single bare type expression
// (pattern-typed).
type ObjectT struct {
	// Fields holds the enumerated shape's members in declaration order.
	// Nil when Pattern is set.
	Fields []ObjectField
	// Pattern holds the pattern-typed shape's single inner value type.
	// Nil when Fields is set (including the empty-enumerated-object case).
	Pattern Type

	Constraints map[string]ConstraintValue
	HasDefault  bool
	Default     *Value
	Optional    bool

	// Ext, when true on the enumerated shape, overrides strict-mode
	// rejection of unknown keys for this object only.
	Ext bool
}

func (*ObjectT) isType() {}

// IsPattern reports whether o is the pattern-typed shape.
func (o *ObjectT) IsPattern() bool { return o.Pattern != nil }

// FieldByName returns the named field's type, if declared.
func (o *ObjectT) FieldByName(name string) (Type, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}

	return nil, false
}

// ConstraintValue is the tagged payload of a single constraint argument,
// parsed from the subset of the data grammar constraints allow.
type ConstraintValue struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []ConstraintValue
}

// AsValue converts a scalar ConstraintValue into the value-tree
// [Value] shape, for constraint validators that compare against data
// values (e.g. enum).
func (c ConstraintValue) AsValue() *Value {
	switch c.Kind {
	case VString:
		return NewString(c.Str)
	case VInt:
		return NewInt(c.Int)
	case VFloat:
		return NewFloat(c.Float)
	case VBool:
		return NewBool(c.Bool)
	case VNull:
		return NewNull()
	default:
		return NewNull()
	}
}
