package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum_Deterministic(t *testing.T) {
	first := Sum("secret1")
	second := Sum("secret1")
	require.Equal(t, first, second, "same input must yield the same digest")
	require.Len(t, first, 64, "SHA-256 hex digest length")
}

func TestSum_KnownVector(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Sum("abc"))
}

func TestSum_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, Sum("secret1"), Sum("secret2"))
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "fido", NormalizeAnswer("  Fido "))
	assert.Equal(t, "paris", NormalizeAnswer("PARIS"))
	assert.Equal(t, "", NormalizeAnswer("   "))
}

func TestSumAnswer_CaseAndWhitespaceInsensitive(t *testing.T) {
	want := SumAnswer("fido")
	assert.Equal(t, want, SumAnswer("Fido"))
	assert.Equal(t, want, SumAnswer("  FIDO  "))
	assert.NotEqual(t, want, SumAnswer("rex"))
}
