package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseCSV("a,b"))
	assert.Equal(t, []string{"a", "b"}, parseCSV(" a , b "))
	assert.Equal(t, []string{"a"}, parseCSV("a,,"))
	assert.Nil(t, parseCSV(""))
	assert.Nil(t, parseCSV("  "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("IGER_TEST_STR", "value")
	t.Setenv("IGER_TEST_INT", "42")
	t.Setenv("IGER_TEST_BAD_INT", "forty-two")

	assert.Equal(t, "value", envOr("IGER_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", envOr("IGER_TEST_MISSING", "fallback"))
	assert.Equal(t, 42, envOrInt("IGER_TEST_INT", 7))
	assert.Equal(t, 7, envOrInt("IGER_TEST_BAD_INT", 7))
	assert.Equal(t, 7, envOrInt("IGER_TEST_MISSING", 7))
}
