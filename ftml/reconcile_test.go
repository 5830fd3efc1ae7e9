package ftml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
)

func TestReconcilePreservesKeyValueComments(t *testing.T) {
	t.Parallel()

	doc := load(t, "// about name\nname = \"alice\" // who\n")
	tree := ftml.ToValueTree(doc)

	tree.Set("name", ftml.NewString("bob"))

	out := ftml.Reconcile(tree)

	kv, ok := out.Get("name")
	require.True(t, ok)
	assert.Equal(t, []string{"about name"}, kv.LeadingComments)
	assert.Equal(t, "who", kv.InlineComment)
	assert.Equal(t, "bob", kv.Value.(*ftml.Scalar).Value.Str)
}

func TestReconcileDropsCommentsForNewKey(t *testing.T) {
	t.Parallel()

	doc := load(t, "name = \"alice\"\n")
	tree := ftml.ToValueTree(doc)

	tree.Set("age", ftml.NewInt(30))

	out := ftml.Reconcile(tree)

	kv, ok := out.Get("age")
	require.True(t, ok)
	assert.Empty(t, kv.LeadingComments)
	assert.Empty(t, kv.InlineComment)
}

func TestReconcileDropsRemovedKey(t *testing.T) {
	t.Parallel()

	doc := load(t, "name = \"alice\"\nage = 30\n")
	tree := ftml.ToValueTree(doc)
	tree.Delete("age")

	out := ftml.Reconcile(tree)

	_, ok := out.Get("age")
	assert.False(t, ok)
}

func TestReconcileObjectCommentsSurviveWhenRefIntact(t *testing.T) {
	t.Parallel()

	doc := load(t, "server = {\n  // host comment\n  host = \"localhost\"\n} // trailing\n")
	tree := ftml.ToValueTree(doc)

	server, ok := tree.Get("server")
	require.True(t, ok)
	server.Map.Set("host", ftml.NewString("example.com"))

	out := ftml.Reconcile(tree)

	kv, ok := out.Get("server")
	require.True(t, ok)
	obj := kv.Value.(*ftml.Object)
	assert.Equal(t, "trailing", obj.InlineCommentEnd)

	hostKV, ok := obj.Get("host")
	require.True(t, ok)
	assert.Equal(t, []string{"host comment"}, hostKV.LeadingComments)
	assert.Equal(t, "example.com", hostKV.Value.(*ftml.Scalar).Value.Str)
}

func TestReconcileFreshObjectHasNoComments(t *testing.T) {
	t.Parallel()

	doc := load(t, "server = {\n  // host comment\n  host = \"localhost\"\n}\n")
	tree := ftml.ToValueTree(doc)

	m := ftml.NewValueMap()
	m.Set("host", ftml.NewString("example.com"))
	tree.Set("server", ftml.NewObject(m))

	out := ftml.Reconcile(tree)

	kv, ok := out.Get("server")
	require.True(t, ok)
	obj := kv.Value.(*ftml.Object)
	assert.Empty(t, obj.InlineCommentEnd)

	hostKV, ok := obj.Get("host")
	require.True(t, ok)
	assert.Empty(t, hostKV.LeadingComments)
}

func TestReconcileListItemKeepsCommentWhenUnchanged(t *testing.T) {
	t.Parallel()

	doc := load(t, "items = [\n  1, // one\n  2, // two\n]\n")
	tree := ftml.ToValueTree(doc)

	out := ftml.Reconcile(tree)

	kv, ok := out.Get("items")
	require.True(t, ok)
	list := kv.Value.(*ftml.List)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "one", list.Items[0].(*ftml.Scalar).InlineComment)
	assert.Equal(t, "two", list.Items[1].(*ftml.Scalar).InlineComment)
}

func TestReconcileListItemDropsCommentWhenChanged(t *testing.T) {
	t.Parallel()

	doc := load(t, "items = [\n  1, // one\n  2, // two\n]\n")
	tree := ftml.ToValueTree(doc)

	itemsVal, ok := tree.Get("items")
	require.True(t, ok)
	itemsVal.List[0] = ftml.NewInt(99)

	out := ftml.Reconcile(tree)

	kv, ok := out.Get("items")
	require.True(t, ok)
	list := kv.Value.(*ftml.List)
	assert.Empty(t, list.Items[0].(*ftml.Scalar).InlineComment)
	assert.Equal(t, "two", list.Items[1].(*ftml.Scalar).InlineComment)
}

// TestRoundTripLoadMutateReconcileSerializeReparse exercises the full
// load -> mutate -> reconcile -> serialize -> reload cycle end to end,
// checking that an unrelated key's comments survive the round trip while
// the mutated key's new value appears in the reparsed document.
func TestRoundTripLoadMutateReconcileSerializeReparse(t *testing.T) {
	t.Parallel()

	src := "// top of file\nname = \"alice\" // the name\nserver = {\n  // nested\n  host = \"localhost\",\n  port = 8080\n}\n"

	doc := load(t, src)
	tree := ftml.ToValueTree(doc)
	tree.Set("name", ftml.NewString("bob"))

	reconciled := ftml.Reconcile(tree)
	out := ftml.Serialize(reconciled, ftml.DefaultSerializeConfig())

	doc2, errs := ftml.ParseDocument(out)
	require.Empty(t, errs)

	nameKV, ok := doc2.Get("name")
	require.True(t, ok)
	assert.Equal(t, "bob", nameKV.Value.(*ftml.Scalar).Value.Str)

	serverKV, ok := doc2.Get("server")
	require.True(t, ok)
	server := serverKV.Value.(*ftml.Object)
	hostKV, ok := server.Get("host")
	require.True(t, ok)
	assert.Equal(t, "localhost", hostKV.Value.(*ftml.Scalar).Value.Str)

	assert.Contains(t, out, "the name")
	assert.Contains(t, out, "nested")
	assert.Contains(t, out, "top of file")
}
