package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": { "type": "string", "minLength": 1 },
    "age": { "type": "integer", "minimum": 0 }
  },
  "required": ["name"],
  "additionalProperties": false
}`

func newTestValidator() *Validator {
	return NewValidator(map[string]string{"person": personSchema})
}

func TestValidateAccepts(t *testing.T) {
	v := newTestValidator()

	require.NoError(t, v.Validate("person", []byte(`{"name":"Ada","age":36}`)))
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	v := newTestValidator()

	err := v.Validate("person", []byte(`{"age":36}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")
}

func TestValidateRejectsExtraProperty(t *testing.T) {
	v := newTestValidator()

	require.Error(t, v.Validate("person", []byte(`{"name":"Ada","admin":true}`)))
}

func TestValidateRejectsEmptyBody(t *testing.T) {
	v := newTestValidator()

	require.Error(t, v.Validate("person", nil))
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	v := newTestValidator()

	require.Error(t, v.Validate("person", []byte(`{"name":`)))
}

func TestValidateUnknownSchema(t *testing.T) {
	v := newTestValidator()

	err := v.Validate("missing", []byte(`{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown schema")
}

func TestNewValidatorRequiresSources(t *testing.T) {
	require.Panics(t, func() {
		NewValidator(nil)
	})
}
