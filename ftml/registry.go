package ftml

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ConstraintValidator checks a single constraint against a scalar value,
// returning nil when it is satisfied. The validator consults these by
// name and never hardcodes constraint semantics itself.
type ConstraintValidator func(v *Value, arg ConstraintValue) error

// ListConstraintValidator checks a constraint against an entire list's
// elements (e.g. uniqueness, size).
type ListConstraintValidator func(items []*Value, arg ConstraintValue) error

// ObjectConstraintValidator checks a constraint against an object's
// member map (e.g. required_keys, size).
type ObjectConstraintValidator func(m *ValueMap, arg ConstraintValue) error

// ScalarDef is a registry entry for one scalar kind: a shape predicate
// plus its table of constraint validators, keyed by canonical name.
type ScalarDef struct {
	Name        string
	Match       func(v *Value) bool
	Constraints map[string]ConstraintValidator
	Aliases     map[string]string
}

// Registry holds the process-wide table of scalar kinds, built-in and
// registered, plus the shared list and object constraint
// tables. It is threaded through the schema parser and validator as an
// explicit, reference-passed configuration object, never global mutable
// state, so that a custom Registry can be swapped in per validation run.
type Registry struct {
	scalars map[string]*ScalarDef

	listConstraints   map[string]ListConstraintValidator
	listAliases       map[string]string
	objectConstraints map[string]ObjectConstraintValidator
	objectAliases     map[string]string
}

// NewRegistry returns an empty Registry with no scalar kinds registered.
// Most callers want [DefaultRegistry], which pre-populates the built-in
// scalar, list, and object constraints.
func NewRegistry() *Registry {
	return &Registry{
		scalars:           make(map[string]*ScalarDef),
		listConstraints:   make(map[string]ListConstraintValidator),
		listAliases:       make(map[string]string),
		objectConstraints: make(map[string]ObjectConstraintValidator),
		objectAliases:     make(map[string]string),
	}
}

// RegisterScalar installs or replaces a scalar kind's definition. name is
// the identifier schema authors use in type position.
func (r *Registry) RegisterScalar(name string, def *ScalarDef) {
	if def.Constraints == nil {
		def.Constraints = make(map[string]ConstraintValidator)
	}

	if def.Aliases == nil {
		def.Aliases = make(map[string]string)
	}

	def.Name = name
	r.scalars[name] = def
}

// Scalar looks up a scalar kind's definition by name.
func (r *Registry) Scalar(name string) (*ScalarDef, bool) {
	d, ok := r.scalars[name]

	return d, ok
}

// RegisterConstraint adds a constraint validator to an already-registered
// scalar kind under its canonical name, plus any aliases, which must all
// resolve to that same canonical name before storage.
func (r *Registry) RegisterConstraint(scalarName, canonical string, v ConstraintValidator, aliases ...string) error {
	def, ok := r.scalars[scalarName]
	if !ok {
		return fmt.Errorf("ftml: register constraint: unknown scalar %q", scalarName)
	}

	def.Constraints[canonical] = v
	def.Aliases[canonical] = canonical

	for _, a := range aliases {
		def.Aliases[a] = canonical
	}

	return nil
}

// ResolveScalarConstraint finds the validator for name (or one of its
// aliases) against scalarName, returning the canonical name too.
func (r *Registry) ResolveScalarConstraint(scalarName, name string) (string, ConstraintValidator, bool) {
	def, ok := r.scalars[scalarName]
	if !ok {
		return "", nil, false
	}

	canonical, ok := def.Aliases[name]
	if !ok {
		return "", nil, false
	}

	v, ok := def.Constraints[canonical]

	return canonical, v, ok
}

// RegisterListConstraint installs a list constraint validator under its
// canonical name plus aliases.
func (r *Registry) RegisterListConstraint(canonical string, v ListConstraintValidator, aliases ...string) {
	r.listConstraints[canonical] = v
	r.listAliases[canonical] = canonical

	for _, a := range aliases {
		r.listAliases[a] = canonical
	}
}

// ResolveListConstraint resolves name against the shared list constraint
// table.
func (r *Registry) ResolveListConstraint(name string) (string, ListConstraintValidator, bool) {
	canonical, ok := r.listAliases[name]
	if !ok {
		return "", nil, false
	}

	v, ok := r.listConstraints[canonical]

	return canonical, v, ok
}

// RegisterObjectConstraint installs an object constraint validator under
// its canonical name plus aliases.
func (r *Registry) RegisterObjectConstraint(canonical string, v ObjectConstraintValidator, aliases ...string) {
	r.objectConstraints[canonical] = v
	r.objectAliases[canonical] = canonical

	for _, a := range aliases {
		r.objectAliases[a] = canonical
	}
}

// ResolveObjectConstraint resolves name against the shared object
// constraint table.
func (r *Registry) ResolveObjectConstraint(name string) (string, ObjectConstraintValidator, bool) {
	canonical, ok := r.objectAliases[name]
	if !ok {
		return "", nil, false
	}

	v, ok := r.objectConstraints[canonical]

	return canonical, v, ok
}

// DefaultRegistry returns a Registry pre-populated with every built-in
// scalar kind and its constraints.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	registerStr(r)
	registerNumeric(r, "int")
	registerNumeric(r, "float")
	registerBool(r)
	registerNull(r)
	registerAny(r)
	registerTemporal(r, "date")
	registerTemporal(r, "time")
	registerTemporal(r, "datetime")
	registerTimestamp(r)

	r.RegisterListConstraint("min_items", listMinItems, "min")
	r.RegisterListConstraint("max_items", listMaxItems, "max")
	r.RegisterListConstraint("unique", listUnique)

	r.RegisterObjectConstraint("min_properties", objectMinProperties, "min")
	r.RegisterObjectConstraint("max_properties", objectMaxProperties, "max")
	r.RegisterObjectConstraint("required_keys", objectRequiredKeys)

	return r
}

func registerStr(r *Registry) {
	r.RegisterScalar("str", &ScalarDef{Match: func(v *Value) bool { return v.Kind == VString }})
	_ = r.RegisterConstraint("str", "min_length", strMinLength, "min")
	_ = r.RegisterConstraint("str", "max_length", strMaxLength, "max")
	_ = r.RegisterConstraint("str", "pattern", strPattern)
	_ = r.RegisterConstraint("str", "enum", strEnum)
	_ = r.RegisterConstraint("str", "format", strFormat)
}

func registerNumeric(r *Registry, name string) {
	kind := VInt
	if name == "float" {
		kind = VFloat
	}

	r.RegisterScalar(name, &ScalarDef{Match: func(v *Value) bool { return v.Kind == kind }})
	_ = r.RegisterConstraint(name, "min", numericMin)
	_ = r.RegisterConstraint(name, "max", numericMax)
	_ = r.RegisterConstraint(name, "enum", numericEnum)

	if name == "float" {
		_ = r.RegisterConstraint(name, "precision", floatPrecision)
	}
}

func registerBool(r *Registry) {
	r.RegisterScalar("bool", &ScalarDef{Match: func(v *Value) bool { return v.Kind == VBool }})
	_ = r.RegisterConstraint("bool", "enum", boolEnum)
}

func registerNull(r *Registry) {
	r.RegisterScalar("null", &ScalarDef{Match: func(v *Value) bool { return v.Kind == VNull }})
}

func registerAny(r *Registry) {
	r.RegisterScalar("any", &ScalarDef{Match: func(*Value) bool { return true }})
}

func registerTemporal(r *Registry, name string) {
	r.RegisterScalar(name, &ScalarDef{Match: func(v *Value) bool { return v.Kind == VString }})
	_ = r.RegisterConstraint(name, "min", temporalMin(name))
	_ = r.RegisterConstraint(name, "max", temporalMax(name))
	_ = r.RegisterConstraint(name, "format", temporalFormat(name))
}

func registerTimestamp(r *Registry) {
	r.RegisterScalar("timestamp", &ScalarDef{Match: func(v *Value) bool { return v.Kind == VInt }})
	_ = r.RegisterConstraint("timestamp", "min", numericMin)
	_ = r.RegisterConstraint("timestamp", "max", numericMax)
	_ = r.RegisterConstraint("timestamp", "precision", timestampPrecision)
}

// --- str constraints ---

func strMinLength(v *Value, arg ConstraintValue) error {
	if int64(len(v.Str)) < arg.Int {
		return fmt.Errorf("length %d is less than min_length %d", len(v.Str), arg.Int)
	}

	return nil
}

func strMaxLength(v *Value, arg ConstraintValue) error {
	if int64(len(v.Str)) > arg.Int {
		return fmt.Errorf("length %d is greater than max_length %d", len(v.Str), arg.Int)
	}

	return nil
}

func strPattern(v *Value, arg ConstraintValue) error {
	re, err := regexp.Compile(arg.Str)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", arg.Str, err)
	}

	if !re.MatchString(v.Str) {
		return fmt.Errorf("value %q does not match pattern %q", v.Str, arg.Str)
	}

	return nil
}

func strEnum(v *Value, arg ConstraintValue) error {
	for _, c := range arg.List {
		if c.Str == v.Str {
			return nil
		}
	}

	return fmt.Errorf("value %q is not one of the enumerated values", v.Str)
}

// strFormat implements the "format" constraint (semantic checks for
// email/uri; otherwise implementation-defined) with a minimal,
// dependency-free pair of checks.
func strFormat(v *Value, arg ConstraintValue) error {
	switch arg.Str {
	case "email":
		if !strings.Contains(v.Str, "@") || strings.HasPrefix(v.Str, "@") || strings.HasSuffix(v.Str, "@") {
			return fmt.Errorf("value %q is not a valid email address", v.Str)
		}

		return nil
	case "uri":
		if i := strings.Index(v.Str, "://"); i <= 0 {
			return fmt.Errorf("value %q is not a valid uri", v.Str)
		}

		return nil
	default:
		return fmt.Errorf("unknown format %q", arg.Str)
	}
}

// --- int/float constraints ---

func numericAsFloat(v *Value) float64 {
	if v.Kind == VInt {
		return float64(v.Int)
	}

	return v.Float
}

func constraintAsFloat(c ConstraintValue) float64 {
	if c.Kind == VInt {
		return float64(c.Int)
	}

	return c.Float
}

func numericMin(v *Value, arg ConstraintValue) error {
	if numericAsFloat(v) < constraintAsFloat(arg) {
		return fmt.Errorf("value is less than min %v", constraintAsFloat(arg))
	}

	return nil
}

func numericMax(v *Value, arg ConstraintValue) error {
	if numericAsFloat(v) > constraintAsFloat(arg) {
		return fmt.Errorf("value is greater than max %v", constraintAsFloat(arg))
	}

	return nil
}

func numericEnum(v *Value, arg ConstraintValue) error {
	f := numericAsFloat(v)

	for _, c := range arg.List {
		if constraintAsFloat(c) == f {
			return nil
		}
	}

	return fmt.Errorf("value %v is not one of the enumerated values", f)
}

func floatPrecision(v *Value, arg ConstraintValue) error {
	s := strconv.FormatFloat(v.Float, 'f', -1, 64)

	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return nil
	}

	if int64(len(s)-dot-1) > arg.Int {
		return fmt.Errorf("value %v exceeds precision %d", v.Float, arg.Int)
	}

	return nil
}

// --- bool constraints ---

func boolEnum(v *Value, arg ConstraintValue) error {
	for _, c := range arg.List {
		if c.Bool == v.Bool {
			return nil
		}
	}

	return fmt.Errorf("value %v is not one of the enumerated values", v.Bool)
}

// --- date/time/datetime constraints ---

func parseTemporal(kind string, s, format string) (timeOrdinal, error) {
	switch kind {
	case "date":
		t, err := ParseDate(s, format)

		return timeOrdinal(t.Unix()), err
	case "time":
		t, err := ParseTime(s, format)

		return timeOrdinal(t.Unix()), err
	default:
		t, err := ParseDatetime(s, format)

		return timeOrdinal(t.Unix()), err
	}
}

// timeOrdinal is a comparable projection of a parsed temporal value.
type timeOrdinal int64

func temporalMin(kind string) ConstraintValidator {
	return func(v *Value, arg ConstraintValue) error {
		got, err := parseTemporal(kind, v.Str, "")
		if err != nil {
			return err
		}

		bound, err := parseTemporal(kind, arg.Str, "")
		if err != nil {
			return fmt.Errorf("invalid min bound %q: %w", arg.Str, err)
		}

		if got < bound {
			return fmt.Errorf("%s %q is before min %q", kind, v.Str, arg.Str)
		}

		return nil
	}
}

func temporalMax(kind string) ConstraintValidator {
	return func(v *Value, arg ConstraintValue) error {
		got, err := parseTemporal(kind, v.Str, "")
		if err != nil {
			return err
		}

		bound, err := parseTemporal(kind, arg.Str, "")
		if err != nil {
			return fmt.Errorf("invalid max bound %q: %w", arg.Str, err)
		}

		if got > bound {
			return fmt.Errorf("%s %q is after max %q", kind, v.Str, arg.Str)
		}

		return nil
	}
}

func temporalFormat(kind string) ConstraintValidator {
	return func(v *Value, arg ConstraintValue) error {
		_, err := parseTemporal(kind, v.Str, arg.Str)
		if err != nil {
			return fmt.Errorf("%s %q does not match format %q: %w", kind, v.Str, arg.Str, err)
		}

		return nil
	}
}

func timestampPrecision(v *Value, arg ConstraintValue) error {
	return CheckTimestampPrecision(v.Int, arg.Str)
}

// --- list constraints ---

func listMinItems(items []*Value, arg ConstraintValue) error {
	if int64(len(items)) < arg.Int {
		return fmt.Errorf("list has %d items, less than min_items %d", len(items), arg.Int)
	}

	return nil
}

func listMaxItems(items []*Value, arg ConstraintValue) error {
	if int64(len(items)) > arg.Int {
		return fmt.Errorf("list has %d items, more than max_items %d", len(items), arg.Int)
	}

	return nil
}

// listUnique enforces structural, not reference, equality, including for
// nested mappings.
func listUnique(items []*Value, _ ConstraintValue) error {
	seen := make([]*Value, 0, len(items))

	for _, it := range items {
		for _, s := range seen {
			if valuesStructurallyEqual(it, s) {
				return fmt.Errorf("list contains duplicate values")
			}
		}

		seen = append(seen, it)
	}

	return nil
}

func valuesStructurallyEqual(a, b *Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case VString:
		return a.Str == b.Str
	case VInt:
		return a.Int == b.Int
	case VFloat:
		return a.Float == b.Float
	case VBool:
		return a.Bool == b.Bool
	case VNull:
		return true
	case VList:
		if len(a.List) != len(b.List) {
			return false
		}

		for i := range a.List {
			if !valuesStructurallyEqual(a.List[i], b.List[i]) {
				return false
			}
		}

		return true
	case VObject:
		if a.Map.Len() != b.Map.Len() {
			return false
		}

		for _, k := range a.Map.Keys() {
			av, _ := a.Map.Get(k)

			bv, ok := b.Map.Get(k)
			if !ok || !valuesStructurallyEqual(av, bv) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// --- object constraints ---

func objectMinProperties(m *ValueMap, arg ConstraintValue) error {
	if int64(m.Len()) < arg.Int {
		return fmt.Errorf("object has %d properties, less than min_properties %d", m.Len(), arg.Int)
	}

	return nil
}

func objectMaxProperties(m *ValueMap, arg ConstraintValue) error {
	if int64(m.Len()) > arg.Int {
		return fmt.Errorf("object has %d properties, more than max_properties %d", m.Len(), arg.Int)
	}

	return nil
}

func objectRequiredKeys(m *ValueMap, arg ConstraintValue) error {
	var missing []string

	for _, c := range arg.List {
		if _, ok := m.Get(c.Str); !ok {
			missing = append(missing, c.Str)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}

	return nil
}
