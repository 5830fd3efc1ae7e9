package ftml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/x/ftml"
)

func TestRegistryAliasesResolveToCanonicalName(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()

	canonical, validator, ok := reg.ResolveScalarConstraint("str", "min")
	require.True(t, ok)
	assert.Equal(t, "min_length", canonical)
	require.NotNil(t, validator)

	canonical, _, ok = reg.ResolveScalarConstraint("str", "min_length")
	require.True(t, ok)
	assert.Equal(t, "min_length", canonical)
}

func TestRegistryUnknownConstraint(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()

	_, _, ok := reg.ResolveScalarConstraint("str", "bogus")
	assert.False(t, ok)
}

func TestRegistryCustomScalar(t *testing.T) {
	t.Parallel()

	reg := ftml.NewRegistry()
	reg.RegisterScalar("ipv4", &ftml.ScalarDef{
		Match: func(v *ftml.Value) bool { return v.Kind == ftml.VString },
	})

	def, ok := reg.Scalar("ipv4")
	require.True(t, ok)
	assert.True(t, def.Match(ftml.NewString("127.0.0.1")))
}

func TestRegistryListConstraintAlias(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()

	canonical, validator, ok := reg.ResolveListConstraint("min")
	require.True(t, ok)
	assert.Equal(t, "min_items", canonical)

	err := validator([]*ftml.Value{ftml.NewInt(1)}, ftml.ConstraintValue{Kind: ftml.VInt, Int: 2})
	assert.Error(t, err)
}

func TestRegistryObjectConstraintAlias(t *testing.T) {
	t.Parallel()

	reg := ftml.DefaultRegistry()

	canonical, validator, ok := reg.ResolveObjectConstraint("min")
	require.True(t, ok)
	assert.Equal(t, "min_properties", canonical)

	m := ftml.NewValueMap()
	m.Set("a", ftml.NewInt(1))

	err := validator(m, ftml.ConstraintValue{Kind: ftml.VInt, Int: 2})
	assert.Error(t, err)
}

func TestConstraintValueAsValue(t *testing.T) {
	t.Parallel()

	cv := ftml.ConstraintValue{Kind: ftml.VString, Str: "hi"}
	v := cv.AsValue()
	assert.Equal(t, ftml.VString, v.Kind)
	assert.Equal(t, "hi", v.Str)
}

func TestStrFormatEmailAndURI(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "email: str<format=\"email\">\n", "email = \"a@b.com\"\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)

	errs = validateSrc(t, "email: str<format=\"email\">\n", "email = \"not-an-email\"\n", ftml.DefaultValidateConfig())
	assert.NotEmpty(t, errs)

	errs = validateSrc(t, "site: str<format=\"uri\">\n", "site = \"https://example.com\"\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)
}

func TestStrPatternConstraint(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, `code: str<pattern="^[A-Z]{3}$">`+"\n", "code = \"ABC\"\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)

	errs = validateSrc(t, `code: str<pattern="^[A-Z]{3}$">`+"\n", "code = \"abc\"\n", ftml.DefaultValidateConfig())
	assert.NotEmpty(t, errs)
}

func TestFloatPrecisionConstraint(t *testing.T) {
	t.Parallel()

	errs := validateSrc(t, "val: float<precision=2>\n", "val = 3.14\n", ftml.DefaultValidateConfig())
	assert.Empty(t, errs)

	errs = validateSrc(t, "val: float<precision=2>\n", "val = 3.14159\n", ftml.DefaultValidateConfig())
	assert.NotEmpty(t, errs)
}
