package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("create a enum of string", func(t *testing.T) {
		type EnumString string

		bar := New(EnumString("bar"))
		require.Equal(t, EnumString("bar"), bar)

		v, err := ToEnum[EnumString]("bar")
		require.NoError(t, err)
		require.Equal(t, bar, v)

		_, err = ToEnum[EnumString]("baz")
		require.Error(t, err)
	})

	t.Run("unregistered enum type", func(t *testing.T) {
		type EnumUnregistered string

		_, err := ToEnum[EnumUnregistered]("anything")
		require.Error(t, err)
	})
}
