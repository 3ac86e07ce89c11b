package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color string

var (
	red  = New(color("red"))
	blue = New(color("blue"))
)

func TestToEnum(t *testing.T) {
	got, err := ToEnum[color]("red")
	require.NoError(t, err)
	require.Equal(t, red, got)

	_, err = ToEnum[color]("green")
	require.Error(t, err)
}

func TestStrings(t *testing.T) {
	require.Equal(t, []string{"blue", "red"}, Strings[color]())
}

type unregistered string

func TestUnregisteredType(t *testing.T) {
	_, err := ToEnum[unregistered]("x")
	require.Error(t, err)
	require.Nil(t, Strings[unregistered]())
}
