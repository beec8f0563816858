package felt_test

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloxlabs/velox/core/felt"
	"github.com/veloxlabs/velox/utils"
)

func TestFromUint64(t *testing.T) {
	f := felt.FromUint64(42)
	assert.Equal(t, uint64(42), f.Uint64())
	assert.True(t, f.IsUint64())

	zero := felt.FromUint64(0)
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Equal(&felt.Zero))
}

func TestFeltCBOR(t *testing.T) {
	f := utils.HexToFelt(t, "0x1234567890abcdef1234567890abcdef")

	data, err := cbor.Marshal(f)
	require.NoError(t, err)

	var decoded felt.Felt
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.True(t, f.Equal(&decoded))
}

func TestWord(t *testing.T) {
	t.Run("zero word", func(t *testing.T) {
		var w felt.Word
		assert.True(t, w.IsZero())
		assert.True(t, w.Equal(&felt.ZeroWord))
	})

	t.Run("equality", func(t *testing.T) {
		a := felt.NewWordFromUint64(1, 2, 3, 4)
		b := felt.NewWordFromUint64(1, 2, 3, 4)
		c := felt.NewWordFromUint64(1, 2, 3, 5)
		assert.True(t, a.Equal(&b))
		assert.False(t, a.Equal(&c))
		assert.False(t, a.IsZero())
	})

	t.Run("cbor round trip", func(t *testing.T) {
		w := felt.NewWordFromUint64(9, 8, 7, 6)
		data, err := cbor.Marshal(w)
		require.NoError(t, err)

		var decoded felt.Word
		require.NoError(t, cbor.Unmarshal(data, &decoded))
		assert.True(t, w.Equal(&decoded))
	})
}
