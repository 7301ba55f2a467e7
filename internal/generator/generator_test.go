package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_LowercaseOnly(t *testing.T) {
	pw, err := Generate(12, Policy{Lowercase: true})
	require.NoError(t, err)
	require.Len(t, pw, 12)
	for _, r := range pw {
		assert.True(t, r >= 'a' && r <= 'z', "unexpected character %q", r)
	}
}

func TestGenerate_NoClassSelected(t *testing.T) {
	pw, err := Generate(10, Policy{})
	assert.ErrorIs(t, err, ErrNoCharset)
	assert.Empty(t, pw)
}

func TestGenerate_BadLength(t *testing.T) {
	_, err := Generate(0, Policy{Lowercase: true})
	assert.ErrorIs(t, err, ErrBadLength)
	_, err = Generate(-5, Policy{Lowercase: true})
	assert.ErrorIs(t, err, ErrBadLength)
}

func TestGenerate_UnionCharset(t *testing.T) {
	pw, err := Generate(200, Policy{Uppercase: true, Digits: true})
	require.NoError(t, err)
	require.Len(t, pw, 200)
	allowed := uppercase + digits
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(allowed, r), "character %q outside charset", r)
	}
	// lowercase and symbols must never appear for this policy
	assert.NotRegexp(t, "[a-z]", pw)
}

func TestGenerate_SymbolsIncludedWhenSelected(t *testing.T) {
	// Long enough that at least one symbol is effectively certain.
	pw, err := Generate(500, Policy{Symbols: true})
	require.NoError(t, err)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(symbols, r))
	}
}

func TestGenerate_AnyPositiveLength(t *testing.T) {
	for _, n := range []int{1, 4, 24, 50} {
		pw, err := Generate(n, Policy{Uppercase: true, Lowercase: true, Digits: true, Symbols: true})
		require.NoError(t, err)
		assert.Len(t, pw, n)
	}
}
