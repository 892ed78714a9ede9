package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dependency struct{}

func TestCheckInit(t *testing.T) {
	var typedNil *dependency
	require.NotPanics(t, func() { CheckInit("store", &dependency{}, "name", "value") })
	require.PanicsWithValue(t, "store dependency not initialized", func() { CheckInit("store", nil) })
	require.PanicsWithValue(t, "store dependency not initialized", func() { CheckInit("store", typedNil) })
	require.Panics(t, func() { CheckInit("store") })
}
