package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray_Length(t *testing.T) {
	assert.Len(t, GenerateRandByteArray(24), 24)
}

func TestRandomString_UsesAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		s, err := RandomString(5, AlphaNumeric)
		require.NoError(t, err)
		require.Len(t, s, 5)
		for _, r := range s {
			require.True(t, strings.ContainsRune(AlphaNumeric, r), "unexpected rune %q", r)
		}
	}
}

func TestRandomString_SingleLetterAlphabet(t *testing.T) {
	s, err := RandomString(4, "x")
	require.NoError(t, err)
	assert.Equal(t, "xxxx", s)
}

func TestRandomString_EmptyAlphabet(t *testing.T) {
	_, err := RandomString(5, "")
	assert.Error(t, err)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
	WipeByteArray(nil)
}
