package testkit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code.
func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertJSONBody compares expected and actual after decoding both, so key
// order and whitespace do not matter. Arrays are compared as multisets
// because list endpoints make no ordering promise.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response is not valid JSON", s.Name)
	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", s.Name, string(actual)) {
		return
	}
	assertJSONEqual(t, s.Name, expVal, actVal)
}

func assertJSONEqual(t *testing.T, name string, expected, actual interface{}) {
	t.Helper()
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !assert.True(t, ok, "[%s] expected object, got %T", name, actual) {
			return
		}
		assert.Len(t, act, len(exp), "[%s] object keys differ: %v vs %v", name, exp, act)
		for k, ev := range exp {
			av, ok := act[k]
			if assert.True(t, ok, "[%s] missing key %q", name, k) {
				assertJSONEqual(t, name, ev, av)
			}
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !assert.True(t, ok, "[%s] expected array, got %T", name, actual) {
			return
		}
		assert.ElementsMatch(t, exp, act, "[%s] array mismatch", name)
	default:
		assert.Equal(t, expected, actual, "[%s] value mismatch", name)
	}
}

// AssertTextBody compares a plain-text body, ignoring surrounding whitespace.
func AssertTextBody(t *testing.T, s *Scenario, expected, actual string) {
	t.Helper()
	assert.Equal(t, strings.TrimSpace(expected), strings.TrimSpace(actual),
		"[%s] response text mismatch", s.Name)
}
