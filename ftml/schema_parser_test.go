package ftml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
)

func TestParseSchemaEnumeratedObject(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("name: str\nage: int\n", reg)
	require.NoError(t, err)

	assert.False(t, schema.IsPattern())

	nameT, ok := schema.FieldByName("name")
	require.True(t, ok)
	st, ok := nameT.(*ftml.ScalarT)
	require.True(t, ok)
	assert.Equal(t, ftml.TStr, st.Kind)
}

func TestParseSchemaOptionalField(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("name: str\nnickname?: str\n", reg)
	require.NoError(t, err)

	nicknameT, ok := schema.FieldByName("nickname")
	require.True(t, ok)
	st := nicknameT.(*ftml.ScalarT)
	assert.True(t, st.Optional)
}

func TestParseSchemaDefaultValue(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema(`level: int = 1` + "\n", reg)
	require.NoError(t, err)

	levelT, ok := schema.FieldByName("level")
	require.True(t, ok)
	st := levelT.(*ftml.ScalarT)
	require.True(t, st.HasDefault)
	assert.Equal(t, int64(1), st.Default.Int)
}

func TestParseSchemaDefaultFailsOwnType(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	_, err := ftml.ParseSchema(`level: int<min=10> = 1`+"\n", reg)
	require.Error(t, err)
}

func TestParseSchemaUnion(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("id: int | str\n", reg)
	require.NoError(t, err)

	idT, ok := schema.FieldByName("id")
	require.True(t, ok)
	ut, ok := idT.(*ftml.UnionT)
	require.True(t, ok)
	assert.Len(t, ut.Alts, 2)
}

func TestParseSchemaListType(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("tags: [str]\n", reg)
	require.NoError(t, err)

	tagsT, ok := schema.FieldByName("tags")
	require.True(t, ok)
	lt, ok := tagsT.(*ftml.ListT)
	require.True(t, ok)
	st, ok := lt.Item.(*ftml.ScalarT)
	require.True(t, ok)
	assert.Equal(t, ftml.TStr, st.Kind)
}

func TestParseSchemaNestedEnumeratedObject(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("server: {\n  host: str,\n  port: int\n}\n", reg)
	require.NoError(t, err)

	serverT, ok := schema.FieldByName("server")
	require.True(t, ok)
	ot, ok := serverT.(*ftml.ObjectT)
	require.True(t, ok)
	assert.False(t, ot.IsPattern())

	_, ok = ot.FieldByName("host")
	assert.True(t, ok)
}

func TestParseSchemaPatternTypedObject(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("labels: { str }\n", reg)
	require.NoError(t, err)

	labelsT, ok := schema.FieldByName("labels")
	require.True(t, ok)
	ot := labelsT.(*ftml.ObjectT)
	assert.True(t, ot.IsPattern())
}

func TestParseSchemaConstraints(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema(`name: str<min_length=1, max_length=10>`+"\n", reg)
	require.NoError(t, err)

	nameT, ok := schema.FieldByName("name")
	require.True(t, ok)
	st := nameT.(*ftml.ScalarT)
	require.Contains(t, st.Constraints, "min_length")
	assert.Equal(t, int64(1), st.Constraints["min_length"].Int)
}

func TestParseSchemaExtOnEnumeratedObject(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("config: { a: str }<ext=true>\n", reg)
	require.NoError(t, err)

	configT, ok := schema.FieldByName("config")
	require.True(t, ok)
	ot := configT.(*ftml.ObjectT)
	assert.True(t, ot.Ext)
}

func TestParseSchemaErrors(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()

	tcs := map[string]string{
		"unknown type":      "name: bogus\n",
		"missing colon":     "name str\n",
		"unterminated list": "tags: [str\n",
		"reserved key":      "null: str\n",
	}

	for name, src := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := ftml.ParseSchema(src, reg)
			assert.Error(t, err)
		})
	}
}
