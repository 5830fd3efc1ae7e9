package ftml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
)

func validateSrc(t *testing.T, schemaSrc, docSrc string, cfg ftml.ValidateConfig) []error {
	t.Helper()

	reg := ftml.DefaultRegistry()

	schema, err := ftml.ParseSchema(schemaSrc, reg)
	require.NoError(t, err)

	doc, errs := ftml.ParseDocument(docSrc)
	require.Empty(t, errs)

	tree := ftml.ToValueTree(doc)

	return ftml.ValidateDocument(reg, schema, tree, cfg)
}

func TestValidateDocumentSuccess(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "name: str\nage: int\n", "name = \"alice\"\nage = 30\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)
}

func TestValidateDocumentTypeMismatch(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "age: int\n", "age = \"thirty\"\n", ftml.DefaultValidateConfig())
	require.Len(t, errs, 1)

	var ve *ftml.ValidationError
	require.ErrorAs(t, errs[0], &ve)
	assert.Equal(t, ftml.TypeMismatch, ve.Kind)
}

func TestValidateDocumentMissingRequiredField(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "name: str\n", "", ftml.DefaultValidateConfig())
	require.Len(t, errs, 1)

	var ve *ftml.ValidationError
	require.ErrorAs(t, errs[0], &ve)
	assert.Equal(t, ftml.MissingRequiredField, ve.Kind)
}

func TestValidateDocumentOptionalFieldMissingIsOK(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "nickname?: str\n", "", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)
}

func TestValidateDocumentUnknownFieldStrict(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "name: str\n", "name = \"a\"\nextra = 1\n", ftml.DefaultValidateConfig())
	require.Len(t, errs, 1)

	var ve *ftml.ValidationError
	require.ErrorAs(t, errs[0], &ve)
	assert.Equal(t, ftml.UnknownField, ve.Kind)
}

func TestValidateDocumentUnknownFieldNonStrictAllowed(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "name: str\n", "name = \"a\"\nextra = 1\n", ftml.ValidateConfig{Strict: false, ApplyDefaults: true})
	assert.Empty(t, errs)
}

func TestValidateDocumentExtOverridesStrict(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "config: { a: str }<ext=true>\n", "config = { a = \"x\", b = 1 }\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)
}

func TestValidateDocumentUnionFirstMatchWins(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "id: int | str\n", "id = \"abc\"\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)
}

func TestValidateDocumentUnionNoMatch(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "id: int | str\n", "id = true\n", ftml.DefaultValidateConfig())
	require.Len(t, errs, 1)

	var ve *ftml.ValidationError
	require.ErrorAs(t, errs[0], &ve)
	assert.Equal(t, ftml.UnionNoMatch, ve.Kind)
}

func TestValidateDocumentAppliesDefaults(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()
	schema, err := ftml.ParseSchema("level: int = 1\n", reg)
	require.NoError(t, err)

	doc, errs := ftml.ParseDocument("")
	require.Empty(t, errs)

	tree := ftml.ToValueTree(doc)

	valErrs := ftml.ValidateDocument(reg, schema, tree, ftml.ValidateConfig{Strict: true, ApplyDefaults: true})
	require.Empty(t, valErrs)

	v, ok := tree.Get("level")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Int)
}

func TestValidateDocumentConstraintViolation(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "age: int<min=18>\n", "age = 10\n", ftml.DefaultValidateConfig())
	require.Len(t, errs, 1)

	var ve *ftml.ValidationError
	require.ErrorAs(t, errs[0], &ve)
	assert.Equal(t, ftml.ConstraintViolation, ve.Kind)
	assert.Equal(t, "min", ve.Constraint)
}

func TestValidateDocumentListUniqueConstraint(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "tags: [str]<unique=true>\n", "tags = [\"a\", \"a\"]\n", ftml.DefaultValidateConfig())
	require.Len(t, errs, 1)
	assert.Equal(t, ftml.ConstraintViolation, errs[0].(*ftml.ValidationError).Kind)
}

func TestValidateDocumentPatternTypedObject(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "labels: { str }\n", "labels = { a = \"x\", b = \"y\" }\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)
}
