package wirepdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allFileTypes = []FileType{
	TypeBlockSpecial,
	TypeCharSpecial,
	TypeDirectory,
	TypeRegular,
	TypeFifo,
	TypeSymlink,
	TypeSocket,
	TypeSolarisDoor,
}

func TestFileTypeRoundTrip(t *testing.T) {
	seen := map[string]bool{}
	for _, ft := range allFileTypes {
		c, err := ft.WireChar()
		require.NoError(t, err)
		require.Len(t, c, 1)
		assert.False(t, seen[c], "wire char %q mapped twice", c)
		seen[c] = true

		back, err := ParseFileType(c)
		require.NoError(t, err)
		assert.Equal(t, ft, back)
	}
	assert.Len(t, seen, 8)
}

func TestFileTypeWireChars(t *testing.T) {
	want := map[FileType]string{
		TypeBlockSpecial: "b",
		TypeCharSpecial:  "c",
		TypeDirectory:    "d",
		TypeRegular:      "f",
		TypeFifo:         "p",
		TypeSymlink:      "l",
		TypeSocket:       "s",
		TypeSolarisDoor:  "D",
	}
	for ft, c := range want {
		got, err := ft.WireChar()
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestFileTypeUnknownIsFatal(t *testing.T) {
	for _, s := range []string{"x", "F", "B", "", "dd", "?"} {
		_, err := ParseFileType(s)
		assert.ErrorIs(t, err, ErrUnknownFileType, "input %q", s)
	}

	var ft FileType
	assert.ErrorIs(t, ft.UnmarshalJSON([]byte(`"z"`)), ErrUnknownFileType)
}

func TestFileTypeJSON(t *testing.T) {
	data, err := Marshal(TypeSymlink)
	require.NoError(t, err)
	assert.Equal(t, `"l"`, string(data))

	var ft FileType
	require.NoError(t, Unmarshal([]byte(`"D"`), &ft))
	assert.Equal(t, TypeSolarisDoor, ft)

	_, err = FileType(99).MarshalJSON()
	assert.ErrorIs(t, err, ErrUnknownFileType)
}
