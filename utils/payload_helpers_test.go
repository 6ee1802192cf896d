package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFloat(t *testing.T) {
	payload := map[string]interface{}{
		"number":  87.5,
		"percent": " 91% ",
		"plain":   "12",
		"junk":    "n/a",
		"flag":    true,
	}

	assert.Equal(t, 87.5, ExtractFloat(payload, "number"))
	assert.Equal(t, 91.0, ExtractFloat(payload, "percent"))
	assert.Equal(t, 12.0, ExtractFloat(payload, "plain"))
	assert.Zero(t, ExtractFloat(payload, "junk"))
	assert.Zero(t, ExtractFloat(payload, "flag"))
	assert.Zero(t, ExtractFloat(payload, "missing"))
}

func TestExtractStringAndBool(t *testing.T) {
	payload := map[string]interface{}{
		"name":   "satoshi",
		"age":    float64(42),
		"active": "true",
		"online": false,
	}

	assert.Equal(t, "satoshi", ExtractString(payload, "name"))
	assert.Equal(t, "42", ExtractString(payload, "age"))
	assert.Equal(t, "", ExtractString(payload, "missing"))
	assert.True(t, ExtractBool(payload, "active"))
	assert.False(t, ExtractBool(payload, "online"))
}
