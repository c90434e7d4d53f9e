package pointer

import (
	"testing"

	"github.com/sybel-io/settlement/internal/utils/testutil"
)

func TestRef(t *testing.T) {
	require := testutil.Require(t)

	p := Ref(uint64(42))
	require.Equal(uint64(42), *p)
	require.Equal(uint64(42), Deref(p))

	var nilPtr *uint64
	require.Equal(uint64(0), Deref(nilPtr))
}

func TestString(t *testing.T) {
	require := testutil.Require(t)

	require.Equal("0xabc", StringDeref(String("0xabc")))
	require.Equal("", StringDeref(nil))
	require.True(IsNilOrEmpty(nil))
	require.True(IsNilOrEmpty(String("")))
	require.False(IsNilOrEmpty(String("0xabc")))
}
