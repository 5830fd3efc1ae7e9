package ftml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
	"go.jacobcolvin.com/x/stringtest"
)

func TestSerializeScalars(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("name = \"alice\"\ncount = 3\npi = 3\nok = true\nnothing = null\n")
	require.Empty(t, errs)

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, `name = "alice"`)
	assert.Contains(t, out, "count = 3")
	assert.Contains(t, out, "ok = true")
	assert.Contains(t, out, "nothing = null")
}

func TestSerializeFloatAlwaysHasDecimalPoint(t *testing.T) {
	t.Parallel()

	doc := ftml.Reconcile(func() *ftml.ValueMap {
		m := ftml.NewValueMap()
		m.Set("pi", ftml.NewFloat(3))

		return m
	}())

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, "pi = 3.0")
}

func TestSerializeStringAlwaysDoubleQuoted(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("name = 'alice'\n")
	require.Empty(t, errs)

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, `name = "alice"`)
}

func TestSerializeVersionAndEncodingReordered(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("name = \"x\"\nftml_encoding = \"utf-8\"\nftml_version = \"1.0\"\n")
	require.Empty(t, errs)

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())

	versionIdx := indexOf(out, "ftml_version")
	encodingIdx := indexOf(out, "ftml_encoding")
	nameIdx := indexOf(out, "name")

	require.GreaterOrEqual(t, versionIdx, 0)
	require.GreaterOrEqual(t, encodingIdx, 0)
	require.GreaterOrEqual(t, nameIdx, 0)

	assert.Less(t, versionIdx, encodingIdx)
	assert.Less(t, encodingIdx, nameIdx)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}

	return -1
}

func TestSerializeInlinesShortCommentFreeContainers(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("point = {\nx = 1,\ny = 2\n}\n")
	require.Empty(t, errs)

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, "point = { x = 1, y = 2 }")
}

func TestSerializeGoesMultilineWithComments(t *testing.T) {
	t.Parallel()

	doc := load(t, "point = {\n  // leading\n  x = 1\n}\n")

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, "point = {\n")
	assert.Contains(t, out, "// leading")
}

func TestSerializeGoesMultilineAboveThreshold(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("list = [1, 2, 3, 4]\n")
	require.Empty(t, errs)

	out := ftml.Serialize(doc, ftml.SerializeConfig{IndentSpaces: 2, InlineThreshold: 3})
	assert.Contains(t, out, "list = [\n")
}

func TestSerializeEmptyContainer(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("obj = {}\nlist = []\n")
	require.Empty(t, errs)

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, "obj = {}")
	assert.Contains(t, out, "list = []")
}

func TestSerializeInlineCommentEndSameLineAsCloser(t *testing.T) {
	t.Parallel()

	doc := load(t, "obj = {\n  a = 1\n} // trailing\n")

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	assert.Contains(t, out, "}  // trailing")
}

func TestSerializeExactMultilineOutput(t *testing.T) {
	t.Parallel()

	doc := load(t, "//! top doc\nperson = {\n  // leading\n  name = \"alice\",\n  age = 30\n}\n")

	out := ftml.Serialize(doc, ftml.DefaultSerializeConfig())
	want := stringtest.JoinLF(
		"//! top doc",
		"person = {",
		"    // leading",
		"    name = \"alice\",",
		"    age = 30,",
		"}",
		"",
	)
	assert.Equal(t, want, out)
}
