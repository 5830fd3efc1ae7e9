package ftml

// ValueKind discriminates the tagged payload of a Value.
type ValueKind byte

const (
	VString ValueKind = iota
	VInt
	VFloat
	VBool
	VNull
	VObject
	VList
)

func (k ValueKind) String() string {
	switch k {
	case VString:
		return "string"
	case VInt:
		return "int"
	case VFloat:
		return "float"
	case VBool:
		return "bool"
	case VNull:
		return "null"
	case VObject:
		return "object"
	case VList:
		return "list"
	default:
		return "unknown"
	}
}

// AstRef is the value tree's back-reference to the AST node it was
// extracted from: a weak relation by identity (a document plus a node id
// to look up in that document's table), never an owning pointer. A zero
// AstRef means "no back-reference" -- e.g. a value the host constructed
// from scratch rather than one extracted from a parsed document.
type AstRef struct {
	doc *Document
	id  nodeID
}

// Valid reports whether r resolves to a live AST node.
func (r AstRef) Valid() bool { return r.doc != nil && r.id != none }

// resolveObject returns the Object r points at, if any.
func (r AstRef) resolveObject() (*Object, bool) {
	if !r.Valid() {
		return nil, false
	}

	n, ok := r.doc.lookup(r.id)
	if !ok {
		return nil, false
	}

	o, ok := n.(*Object)

	return o, ok
}

// resolveList returns the List r points at, if any.
func (r AstRef) resolveList() (*List, bool) {
	if !r.Valid() {
		return nil, false
	}

	n, ok := r.doc.lookup(r.id)
	if !ok {
		return nil, false
	}

	l, ok := n.(*List)

	return l, ok
}

// resolveDocument returns the Document r points at, when r references the
// document's own root scope (its KeyValue items, not a nested Object).
func (r AstRef) resolveDocument() (*Document, bool) {
	if !r.Valid() || r.doc.id != r.id {
		return nil, false
	}

	return r.doc, true
}

// ValueEntry is a single key-value pair inside a ValueMap.
type ValueEntry struct {
	Key   string
	Value *Value
}

// ValueMap is an insertion-ordered string-keyed mapping, the host-facing
// shape of an Object or a Document's root scope.
type ValueMap struct {
	entries []*ValueEntry
	index   map[string]int
	ref     AstRef
}

// NewValueMap returns an empty ValueMap with no AST back-reference.
func NewValueMap() *ValueMap {
	return &ValueMap{}
}

// Len returns the number of entries.
func (m *ValueMap) Len() int { return len(m.entries) }

// Keys returns the keys in insertion order.
func (m *ValueMap) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.Key
	}

	return keys
}

// Get looks up key, returning (nil, false) if absent.
func (m *ValueMap) Get(key string) (*Value, bool) {
	if m.index == nil {
		return nil, false
	}

	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.entries[i].Value, true
}

// Set inserts or replaces the value for key, preserving the key's
// original position on replacement and appending on insertion.
func (m *ValueMap) Set(key string, v *Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v

		return
	}

	m.index[key] = len(m.entries)
	m.entries = append(m.entries, &ValueEntry{Key: key, Value: v})
}

// Delete removes key, if present, shifting later entries left by one to
// preserve insertion order.
func (m *ValueMap) Delete(key string) {
	i, ok := m.index[key]
	if !ok {
		return
	}

	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, key)

	for k, idx := range m.index {
		if idx > i {
			m.index[k] = idx - 1
		}
	}
}

// Entries returns the map's entries in insertion order. The returned
// slice must not be mutated by the caller.
func (m *ValueMap) Entries() []*ValueEntry { return m.entries }

// Ref returns the AST back-reference carried by this map, if any.
func (m *ValueMap) Ref() AstRef { return m.ref }

// Value is the tagged payload of the host-facing value tree: a sum type
// over the FTML scalar kinds plus ordered map and list, expressed as a
// discriminated struct rather than an "any" container.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Map   *ValueMap
	List  []*Value
	ref   AstRef
}

// NewString, NewInt, NewFloat, NewBool, and NewNull construct fresh
// scalar values with no AST back-reference, for hosts building or
// extending a value tree programmatically.
func NewString(s string) *Value { return &Value{Kind: VString, Str: s} }
func NewInt(n int64) *Value     { return &Value{Kind: VInt, Int: n} }
func NewFloat(f float64) *Value { return &Value{Kind: VFloat, Float: f} }
func NewBool(b bool) *Value     { return &Value{Kind: VBool, Bool: b} }
func NewNull() *Value           { return &Value{Kind: VNull} }

// NewObject wraps m as an object-kind Value.
func NewObject(m *ValueMap) *Value {
	if m == nil {
		m = NewValueMap()
	}

	return &Value{Kind: VObject, Map: m}
}

// NewList wraps items as a list-kind Value.
func NewList(items []*Value) *Value {
	return &Value{Kind: VList, List: items}
}

// Ref returns the AST back-reference carried by this value, if any.
func (v *Value) Ref() AstRef { return v.ref }

// ToValueTree extracts doc's host-facing value tree, attaching the AST
// back-reference to the root map and to every nested Object/List so a
// later call to Reconcile can recover comments for unchanged keys.
func ToValueTree(doc *Document) *ValueMap {
	m := &ValueMap{ref: AstRef{doc: doc, id: doc.id}}

	for _, kv := range doc.items {
		m.Set(kv.Key, valueFromNode(doc, kv.Value))
	}

	return m
}

func valueFromNode(doc *Document, v ValueNode) *Value {
	switch n := v.(type) {
	case *Scalar:
		return valueFromScalar(n.Value)
	case *Object:
		m := &ValueMap{ref: AstRef{doc: doc, id: n.id}}

		for _, kv := range n.items {
			m.Set(kv.Key, valueFromNode(doc, kv.Value))
		}

		return &Value{Kind: VObject, Map: m, ref: m.ref}
	case *List:
		items := make([]*Value, len(n.Items))
		for i, item := range n.Items {
			items[i] = valueFromNode(doc, item)
		}

		return &Value{Kind: VList, List: items, ref: AstRef{doc: doc, id: n.id}}
	default:
		return NewNull()
	}
}

func valueFromScalar(sv ScalarValue) *Value {
	switch sv.Kind {
	case ScalarString, ScalarSingleString:
		return NewString(sv.Str)
	case ScalarInt:
		return NewInt(sv.Int)
	case ScalarFloat:
		return NewFloat(sv.Float)
	case ScalarBool:
		return NewBool(sv.Bool)
	case ScalarNull:
		return NewNull()
	default:
		return NewNull()
	}
}
