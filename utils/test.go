package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veloxlabs/velox/core/felt"
)

func HexToFelt(t testing.TB, hex string) *felt.Felt {
	t.Helper()

	f, err := new(felt.Felt).SetString(hex)
	require.NoError(t, err)
	return f
}

// RandomWord returns a random word for test fixtures.
func RandomWord(t testing.TB) felt.Word {
	t.Helper()

	var w felt.Word
	for i := range w {
		_, err := w[i].SetRandom()
		require.NoError(t, err)
	}
	return w
}
