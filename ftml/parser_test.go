package ftml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
)

func TestParseDocumentScalars(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("name = \"alice\"\ncount = 3\npi = 3.14\nok = true\nnothing = null\n")
	require.Empty(t, errs)

	kv, ok := doc.Get("name")
	require.True(t, ok)
	sc, ok := kv.Value.(*ftml.Scalar)
	require.True(t, ok)
	assert.Equal(t, ftml.ScalarString, sc.Value.Kind)
	assert.Equal(t, "alice", sc.Value.Str)

	kv, ok = doc.Get("count")
	require.True(t, ok)
	sc, ok = kv.Value.(*ftml.Scalar)
	require.True(t, ok)
	assert.Equal(t, int64(3), sc.Value.Int)

	kv, ok = doc.Get("pi")
	require.True(t, ok)
	sc, ok = kv.Value.(*ftml.Scalar)
	require.True(t, ok)
	assert.InEpsilon(t, 3.14, sc.Value.Float, 0.0001)

	kv, ok = doc.Get("ok")
	require.True(t, ok)
	sc, ok = kv.Value.(*ftml.Scalar)
	require.True(t, ok)
	assert.True(t, sc.Value.Bool)

	kv, ok = doc.Get("nothing")
	require.True(t, ok)
	sc, ok = kv.Value.(*ftml.Scalar)
	require.True(t, ok)
	assert.Equal(t, ftml.ScalarNull, sc.Value.Kind)
}

func TestParseDocumentNestedContainers(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("server = {\n  host = \"localhost\",\n  ports = [80, 443]\n}\n")
	require.Empty(t, errs)

	kv, ok := doc.Get("server")
	require.True(t, ok)

	obj, ok := kv.Value.(*ftml.Object)
	require.True(t, ok)

	hostKV, ok := obj.Get("host")
	require.True(t, ok)
	sc := hostKV.Value.(*ftml.Scalar)
	assert.Equal(t, "localhost", sc.Value.Str)

	portsKV, ok := obj.Get("ports")
	require.True(t, ok)
	list := portsKV.Value.(*ftml.List)
	require.Len(t, list.Items, 2)
	assert.Equal(t, int64(80), list.Items[0].(*ftml.Scalar).Value.Int)
	assert.Equal(t, int64(443), list.Items[1].(*ftml.Scalar).Value.Int)
}

func TestParseDocumentQuotedKeys(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument(`"my key" = 1` + "\n")
	require.Empty(t, errs)

	kv, ok := doc.Get("my key")
	require.True(t, ok)
	assert.True(t, kv.KeyIsQuoted)
	assert.Equal(t, ftml.KindString, kv.KeyQuoteKind)
}

func TestParseDocumentTrailingComma(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("list = [1, 2, 3,]\n")
	require.Empty(t, errs)

	kv, ok := doc.Get("list")
	require.True(t, ok)
	list := kv.Value.(*ftml.List)
	assert.Len(t, list.Items, 3)
}

func TestParseDocumentErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"reserved bare key": "null = 1\n",
		"duplicate key":     "a = 1\na = 2\n",
		"missing equal":     "a 1\n",
		"unterminated obj":  "a = {\n",
		"missing comma":     "a = [1 2]\n",
	}

	for name, src := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, errs := ftml.ParseDocument(src)
			assert.NotEmpty(t, errs)
		})
	}
}

func TestParseDocumentRecoversAfterError(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.ParseDocument("bad 1\ngood = 2\n")
	require.NotEmpty(t, errs)

	kv, ok := doc.Get("good")
	require.True(t, ok)
	assert.Equal(t, int64(2), kv.Value.(*ftml.Scalar).Value.Int)
}

func TestLoadAttachesComments(t *testing.T) {
	t.Parallel()

	doc, errs := ftml.Load("// leading\nname = \"x\" // inline\n")
	require.Empty(t, errs)

	kv, ok := doc.Get("name")
	require.True(t, ok)
	assert.Equal(t, []string{"leading"}, kv.LeadingComments)
	assert.Equal(t, "inline", kv.InlineComment)
}
