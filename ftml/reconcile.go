package ftml

// Reconcile takes a mutated value tree rooted at root and produces a
// fresh Document that carries the tree's current data
// together with whatever comments survive from the AST it was extracted
// from (via each node's AstRef), without ever mutating that original AST.
//
// For each key still present in the original document, the owning
// KeyValue's leading, inline, and outer-doc comments are reused verbatim,
// regardless of whether the value itself changed. A nested object or list
// additionally carries forward its own inner-doc/leading/inline-end
// comments only when its value still carries a back-reference to an
// Object/List node -- a value rebuilt from scratch (no back-reference)
// gets a plain node with no comments at all. Keys present in the original
// but absent from root are dropped along with their comments. Scalar list
// items carry their own comments forward only when the item's value is
// unchanged and the original item was itself a scalar.
func Reconcile(root *ValueMap) *Document {
	d := &Document{}

	origDoc, ok := root.Ref().resolveDocument()
	if !ok {
		for _, e := range root.Entries() {
			d.set(reconcileKeyValue(e.Key, e.Value, nil))
		}

		return d
	}

	d.LeadingComments = origDoc.LeadingComments
	d.InlineComment = origDoc.InlineComment
	d.InnerDocComments = origDoc.InnerDocComments
	d.TrailingLeadingComments = origDoc.TrailingLeadingComments

	for _, e := range root.Entries() {
		origKV, _ := origDoc.Get(e.Key)
		d.set(reconcileKeyValue(e.Key, e.Value, origKV))
	}

	return d
}

// reconcileKeyValue builds a fresh KeyValue for key/val, reusing origKV's
// own comment slots when the key still existed in the source AST.
func reconcileKeyValue(key string, val *Value, origKV *KeyValue) *KeyValue {
	kv := &KeyValue{Key: key, Value: reconcileValue(val)}

	if origKV != nil {
		kv.LeadingComments = origKV.LeadingComments
		kv.InlineComment = origKV.InlineComment
		kv.OuterDocComments = origKV.OuterDocComments
		kv.KeyIsQuoted = origKV.KeyIsQuoted
		kv.KeyQuoteKind = origKV.KeyQuoteKind
		kv.Pos = origKV.Pos
	}

	return kv
}

// reconcileValue builds the AST node for val in a KeyValue-owned position
// (not a list item -- scalars here never carry their own comments, since
// any comment on a scalar KeyValue lives on the KeyValue itself).
func reconcileValue(val *Value) ValueNode {
	switch val.Kind {
	case VObject:
		return reconcileObject(val)
	case VList:
		return reconcileList(val)
	default:
		return reconcileScalar(val)
	}
}

func reconcileObject(val *Value) *Object {
	obj := &Object{}

	src, ok := val.Map.Ref().resolveObject()
	if !ok {
		for _, e := range val.Map.Entries() {
			obj.set(reconcileKeyValue(e.Key, e.Value, nil))
		}

		return obj
	}

	obj.InnerDocComments = src.InnerDocComments
	obj.InlineComment = src.InlineComment
	obj.InlineCommentEnd = src.InlineCommentEnd
	obj.LeadingComments = src.LeadingComments
	obj.EndLeadingComments = src.EndLeadingComments

	for _, e := range val.Map.Entries() {
		origKV, _ := src.Get(e.Key)
		obj.set(reconcileKeyValue(e.Key, e.Value, origKV))
	}

	return obj
}

func reconcileList(val *Value) *List {
	list := &List{}

	src, ok := val.Ref().resolveList()
	if ok {
		list.InnerDocComments = src.InnerDocComments
		list.InlineComment = src.InlineComment
		list.InlineCommentEnd = src.InlineCommentEnd
		list.LeadingComments = src.LeadingComments
		list.EndLeadingComments = src.EndLeadingComments
	}

	for i, item := range val.List {
		var origItem ValueNode
		if ok && i < len(src.Items) {
			origItem = src.Items[i]
		}

		list.Items = append(list.Items, reconcileListItem(item, origItem))
	}

	return list
}

// reconcileListItem additionally carries a scalar item's own
// leading/inline comments forward when the original item at the same
// position was itself a scalar of equal value -- list items have no
// owning KeyValue to hold that slot, unlike object members.
func reconcileListItem(val *Value, origItem ValueNode) ValueNode {
	switch val.Kind {
	case VObject:
		return reconcileObject(val)
	case VList:
		return reconcileList(val)
	default:
		s := reconcileScalar(val)

		if origScalar, ok := origItem.(*Scalar); ok && scalarEqualsValue(origScalar.Value, val) {
			s.LeadingComments = origScalar.LeadingComments
			s.InlineComment = origScalar.InlineComment
		}

		return s
	}
}

func reconcileScalar(val *Value) *Scalar {
	return &Scalar{Value: scalarValueFromValue(val)}
}

func scalarValueFromValue(val *Value) ScalarValue {
	switch val.Kind {
	case VString:
		return ScalarValue{Kind: ScalarString, Str: val.Str}
	case VInt:
		return ScalarValue{Kind: ScalarInt, Int: val.Int}
	case VFloat:
		return ScalarValue{Kind: ScalarFloat, Float: val.Float}
	case VBool:
		return ScalarValue{Kind: ScalarBool, Bool: val.Bool}
	default:
		return ScalarValue{Kind: ScalarNull}
	}
}

// scalarEqualsValue reports whether sv and val hold the same scalar data,
// used to decide whether an unchanged list item may keep its comments.
func scalarEqualsValue(sv ScalarValue, val *Value) bool {
	switch sv.Kind {
	case ScalarString, ScalarSingleString:
		return val.Kind == VString && sv.Str == val.Str
	case ScalarInt:
		return val.Kind == VInt && sv.Int == val.Int
	case ScalarFloat:
		return val.Kind == VFloat && sv.Float == val.Float
	case ScalarBool:
		return val.Kind == VBool && sv.Bool == val.Bool
	case ScalarNull:
		return val.Kind == VNull
	default:
		return false
	}
}
