package random

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	a, err := Token(32)
	require.NoError(t, err)
	b, err := Token(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, base64.RawURLEncoding.EncodedLen(32))
	assert.NotContains(t, a, "=")
}
