package jsonschemaexport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
	"go.jacobcolvin.com/x/ftml/jsonschemaexport"
)

func parseSchema(t *testing.T, src string) *ftml.ObjectT {
	t.Helper()

	root, err := ftml.ParseSchema(src, ftml.DefaultRegistry())
	require.NoError(t, err)

	return root
}

func TestExportEnumeratedObject(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "name: str\nage: int\n")
	schema := jsonschemaexport.Export(root, jsonschemaexport.WithTitle("person"))

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, "person", schema.Title)
	assert.Equal(t, "http://json-schema.org/draft-07/schema#", schema.Schema)
	require.Contains(t, schema.Properties, "name")
	assert.Equal(t, "string", schema.Properties["name"].Type)
	assert.Equal(t, "integer", schema.Properties["age"].Type)
	assert.ElementsMatch(t, []string{"name", "age"}, schema.Required)
}

func TestExportOptionalFieldNotRequired(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "name: str\nnickname?: str\n")
	schema := jsonschemaexport.Export(root)

	assert.Equal(t, []string{"name"}, schema.Required)
}

func TestExportStrictRejectsAdditionalProperties(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "name: str\n")
	schema := jsonschemaexport.Export(root)

	require.NotNil(t, schema.AdditionalProperties)
	require.NotNil(t, schema.AdditionalProperties.Not)
}

func TestExportExtAllowsAdditionalProperties(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "inner: { name: str }<ext=true>\n")
	schema := jsonschemaexport.Export(root)

	inner := schema.Properties["inner"]
	require.NotNil(t, inner.AdditionalProperties)
	assert.Nil(t, inner.AdditionalProperties.Not)
}

func TestExportListType(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "tags: [str]<min_items=1>\n")
	schema := jsonschemaexport.Export(root)

	tags := schema.Properties["tags"]
	require.Equal(t, "array", tags.Type)
	require.NotNil(t, tags.Items)
	assert.Equal(t, "string", tags.Items.Type)
	require.NotNil(t, tags.MinItems)
	assert.Equal(t, 1, *tags.MinItems)
}

func TestExportUnionBecomesAnyOf(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "id: str | int\n")
	schema := jsonschemaexport.Export(root)

	id := schema.Properties["id"]
	require.Len(t, id.AnyOf, 2)
	assert.Equal(t, "string", id.AnyOf[0].Type)
	assert.Equal(t, "integer", id.AnyOf[1].Type)
}

func TestExportPatternTypedObject(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "counts: { int }\n")
	schema := jsonschemaexport.Export(root)

	counts := schema.Properties["counts"]
	assert.Equal(t, "object", counts.Type)
	require.NotNil(t, counts.AdditionalProperties)
	assert.Equal(t, "integer", counts.AdditionalProperties.Type)
}

func TestExportConstraintsAndDefault(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "name: str<min_length=1, max_length=10> = \"x\"\n")
	schema := jsonschemaexport.Export(root)

	name := schema.Properties["name"]
	require.NotNil(t, name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, 1, *name.MinLength)
	assert.Equal(t, 10, *name.MaxLength)
	assert.JSONEq(t, `"x"`, string(name.Default))
}

func TestExportTemporalFormats(t *testing.T) {
	t.Parallel()

	root := parseSchema(t, "created: datetime\n")
	schema := jsonschemaexport.Export(root)

	created := schema.Properties["created"]
	assert.Equal(t, "string", created.Type)
	assert.Equal(t, "date-time", created.Format)
}
