package roomcode

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueRoomCodeFormat(t *testing.T) {
	code, err := UniqueRoomCode(func(string) (bool, error) { return false, nil })
	require.NoError(t, err)

	assert.Len(t, code, codeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
	}
}

func TestUniqueRoomCodeRetriesCollisions(t *testing.T) {
	calls := 0
	code, err := UniqueRoomCode(func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})

	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, calls)
}

func TestUniqueRoomCodeExhaustsRetries(t *testing.T) {
	_, err := UniqueRoomCode(func(string) (bool, error) { return true, nil })

	assert.ErrorIs(t, err, ErrExhausted)
}

func TestUniqueRoomCodePropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := UniqueRoomCode(func(string) (bool, error) { return false, boom })

	assert.ErrorIs(t, err, boom)
}

func TestUniqueDisplayNameKeepsFreeBase(t *testing.T) {
	name, err := UniqueDisplayName("dana", func(string) (bool, error) { return false, nil })

	require.NoError(t, err)
	assert.Equal(t, "dana", name)
}

func TestUniqueDisplayNameSuffixesTakenBase(t *testing.T) {
	name, err := UniqueDisplayName("dana", func(candidate string) (bool, error) {
		return candidate == "dana", nil
	})

	require.NoError(t, err)
	assert.NotEqual(t, "dana", name)
	assert.True(t, strings.HasPrefix(name, "dana"))
}
