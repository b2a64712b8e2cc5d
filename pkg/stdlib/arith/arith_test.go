package arith

import (
	"testing"

	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
	"github.com/stretchr/testify/require"
)

func callMod(t *testing.T, a, b value.Value) (value.Value, error) {
	t.Helper()
	fn := Functions()["mod"]
	return fn.Native(nil, []value.Value{a, b})
}

func TestModBasic(t *testing.T) {
	v, err := callMod(t, value.Num(10), value.Num(3))
	require.NoError(t, err)
	require.Equal(t, value.Num(1), v)
}

func TestModNegativeDividend(t *testing.T) {
	v, err := callMod(t, value.Num(-10), value.Num(3))
	require.NoError(t, err)
	require.Equal(t, value.Num(-1), v)
}

func TestModZeroDividend(t *testing.T) {
	v, err := callMod(t, value.Num(0), value.Num(5))
	require.NoError(t, err)
	require.Equal(t, value.Num(0), v)
}

func TestModZeroDivisorIsError(t *testing.T) {
	_, err := callMod(t, value.Num(10), value.Num(0))
	require.Error(t, err)
}

func TestModInvalidType(t *testing.T) {
	_, err := callMod(t, value.Str("foo"), value.Num(3))
	require.Error(t, err)
}
