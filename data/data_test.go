package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	Object    `json:"-"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Age       int    `json:"age,omitempty"`
	Activated bool   `json:"activated,omitempty"`
}

func TestDecodePopulatesValueAndSource(t *testing.T) {
	payload := []byte(`{"username": "ada", "email": "ada@example.com", "age": 36}`)

	user, err := Decode[testUser](payload, SourceAPIRequest)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, 36, user.Age)
	assert.Equal(t, SourceAPIRequest, user.Source())
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	payload := []byte(`{"username": "ada", "emial": "typo@example.com"}`)

	user, err := Decode[testUser](payload, SourceAPIRequest)
	require.Error(t, err)

	var violation *ContractViolation
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.TargetType, "testUser")

	// a failed decode must not leave a partially filled value
	assert.Equal(t, testUser{}, user)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	user, err := Decode[testUser]([]byte(`{"username": `), SourceApp)
	require.Error(t, err)
	assert.Equal(t, testUser{}, user)
}

func TestDecodeToInterfaceTypeRejectsMalformedJSON(t *testing.T) {
	value, err := Decode[any]([]byte(`{"bad`), SourceApp)
	require.Error(t, err)
	assert.Nil(t, value)

	var violation *ContractViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "interface {}", violation.TargetType)
}

func TestDecodeValue(t *testing.T) {
	raw := map[string]interface{}{"username": "ada", "email": "ada@example.com"}

	user, err := DecodeValue[testUser](raw, SourceApp)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, SourceApp, user.Source())
}

func TestFields(t *testing.T) {
	user := testUser{Username: "ada", Email: "ada@example.com", Age: 36}
	user.SetSource(SourceAutomation)

	fields, err := Fields(user)
	require.NoError(t, err)
	assert.Equal(t, "ada", fields["username"])
	assert.Equal(t, float64(36), fields["age"])
	assert.NotContains(t, fields, "source", "the source marker must not serialize")
}

func TestEqualIgnoresSource(t *testing.T) {
	expected := testUser{Username: "ada", Email: "ada@example.com"}
	expected.SetSource(SourceAutomation)
	actual := testUser{Username: "ada", Email: "ada@example.com"}
	actual.SetSource(SourceApp)

	assert.True(t, Equal(expected, actual))

	actual.Email = "someone-else@example.com"
	assert.False(t, Equal(expected, actual))
}

func TestParseResponseErrorWithStandardPayload(t *testing.T) {
	respErr := ParseResponseError(404, []byte(`{"code": "not_found", "message": "no such user"}`))
	assert.Equal(t, 404, respErr.StatusCode)
	assert.Equal(t, "not_found", respErr.Code)
	assert.Equal(t, "no such user", respErr.Message)
	assert.Equal(t, SourceAPIRequest, respErr.Source())
	assert.Contains(t, respErr.Error(), "not_found")
	assert.Contains(t, respErr.Error(), "404")
}

func TestParseResponseErrorWithNonJSONBody(t *testing.T) {
	respErr := ParseResponseError(502, []byte("<html>Bad Gateway</html>"))
	assert.Equal(t, 502, respErr.StatusCode)
	assert.Equal(t, "", respErr.Code)
	assert.Equal(t, "<html>Bad Gateway</html>", respErr.RawBody)
	assert.Contains(t, respErr.Error(), "Bad Gateway")
}
