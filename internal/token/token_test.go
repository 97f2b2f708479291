package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueLengthAndAlphabet(t *testing.T) {
	issuer, err := NewIssuer()
	require.NoError(t, err)

	tok := issuer.Issue()
	require.Len(t, tok, Length)
	for _, r := range tok {
		require.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in token", r)
	}
}

func TestIssueNoCollisions(t *testing.T) {
	issuer, err := NewIssuer()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		tok := issuer.Issue()
		require.False(t, seen[tok], "token issued twice: %s", tok)
		seen[tok] = true
	}
}
