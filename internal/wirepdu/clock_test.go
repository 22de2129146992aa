package wirepdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockSpecConstructors(t *testing.T) {
	assert.Equal(t, "c:0:0", NullClockSpec().String())
	assert.Equal(t, "n:my-tool", NamedCursor("my-tool").String())
	assert.Equal(t, "1700000000", UnixTimestampClock(1700000000).String())
}

func TestClockSpecNullWireForm(t *testing.T) {
	data, err := Marshal(NullClockSpec())
	require.NoError(t, err)
	assert.Equal(t, `"c:0:0"`, string(data))
}

func TestClockSpecDecodeOpaqueToken(t *testing.T) {
	var spec ClockSpec
	require.NoError(t, Unmarshal([]byte(`"c:1692345678:42:1:1023"`), &spec))
	assert.Equal(t, "c:1692345678:42:1:1023", spec.String())
	assert.False(t, spec.IsZero())
}

func TestClockBareRoundTrip(t *testing.T) {
	c := NewClock(NullClockSpec())
	data, err := Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"c:0:0"`, string(data), "a bare clock is a bare token on the wire")

	var back Clock
	require.NoError(t, Unmarshal(data, &back))
	assert.Nil(t, back.ScmData())
	assert.Equal(t, "c:0:0", back.Spec().String())
}

func TestClockDecodePrefersBareShape(t *testing.T) {
	var c Clock
	require.NoError(t, Unmarshal([]byte(`"c:123:45"`), &c))
	assert.Nil(t, c.ScmData())

	require.NoError(t, Unmarshal([]byte(`{"clock":"c:123:45"}`), &c))
	require.NotNil(t, c.ScmData())
	assert.Equal(t, "c:123:45", c.Spec().String())
	assert.Nil(t, c.ScmData().Scm)
}

func TestClockScmAwareRoundTrip(t *testing.T) {
	c := NewScmClock(FatClockData{
		Clock: NullClockSpec(),
		Scm: &ScmAwareClockData{
			Mergebase:     "deadbeef",
			MergebaseWith: "main",
		},
	})

	data, err := Marshal(c)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, Unmarshal(data, &wire))
	assert.Equal(t, "c:0:0", wire["clock"])
	scm, ok := wire["scm"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "deadbeef", scm["mergebase"])
	assert.Equal(t, "main", scm["mergebase-with"])
	assert.NotContains(t, scm, "saved-state", "absent saved-state must be omitted, not null")

	var back Clock
	require.NoError(t, Unmarshal(data, &back))
	require.NotNil(t, back.ScmData())
	assert.Equal(t, "deadbeef", back.ScmData().Scm.Mergebase)
	assert.Equal(t, "main", back.ScmData().Scm.MergebaseWith)
	assert.Nil(t, back.ScmData().Scm.SavedState)
}

func TestClockSavedStateWireNames(t *testing.T) {
	c := NewScmClock(FatClockData{
		Clock: NullClockSpec(),
		Scm: &ScmAwareClockData{
			Mergebase: "deadbeef",
			SavedState: &SavedStateClockData{
				Storage: "local",
				Commit:  "cafe1234",
			},
		},
	})

	data, err := Marshal(c)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, Unmarshal(data, &wire))
	scm := wire["scm"].(map[string]any)
	saved, ok := scm["saved-state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "local", saved["storage"])
	assert.Equal(t, "cafe1234", saved["commit-id"])
	assert.NotContains(t, saved, "config")
	assert.NotContains(t, scm, "mergebase-with")
}

func TestClockDecodeRejectsOtherShapes(t *testing.T) {
	var c Clock
	assert.ErrorIs(t, c.UnmarshalJSON([]byte(`42`)), ErrBadClock)
	assert.ErrorIs(t, c.UnmarshalJSON([]byte(`[1,2]`)), ErrBadClock)
}
