package wirepdu

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireKeys(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, Unmarshal(data, &m))
	return m
}

func TestQueryParamsMinimalWireForm(t *testing.T) {
	m := wireKeys(t, QueryParams{Fields: []string{"name"}})

	// Every default flag and absent optional stays off the wire.
	require.Len(t, m, 1)
	assert.Equal(t, []any{"name"}, m["fields"])
}

func TestQueryParamsFieldsAlwaysSent(t *testing.T) {
	m := wireKeys(t, QueryParams{})
	require.Contains(t, m, "fields")
	assert.Equal(t, []any{}, m["fields"])
}

func TestQueryParamsSingleFlagAddsSingleKey(t *testing.T) {
	m := wireKeys(t, QueryParams{Fields: []string{"name"}, CaseSensitive: true})
	require.Len(t, m, 2)
	assert.Equal(t, true, m["case_sensitive"])
}

func TestQueryParamsBooleanKeys(t *testing.T) {
	m := wireKeys(t, QueryParams{
		Glob:                 []string{"**/*.go"},
		GlobNoEscape:         true,
		GlobIncludeDotFiles:  true,
		EmptyOnFreshInstance: true,
		CaseSensitive:        true,
		DedupResults:         true,
		Fields:               []string{"name"},
	})
	for _, key := range []string{
		"glob_noescape",
		"glob_includedotfiles",
		"empty_on_fresh_instance",
		"case_sensitive",
		"dedup_results",
	} {
		assert.Equal(t, true, m[key], "key %s", key)
	}
}

func TestQueryParamsSyncTimeoutOmittedWhenDefault(t *testing.T) {
	m := wireKeys(t, QueryParams{Fields: []string{"name"}})
	assert.NotContains(t, m, "sync_timeout", "query requests read a missing sync_timeout as the default")

	m = wireKeys(t, QueryParams{Fields: []string{"name"}, SyncTimeout: NoSyncCookie()})
	assert.Equal(t, float64(0), m["sync_timeout"], "disabled must be sent explicitly on a query")

	m = wireKeys(t, QueryParams{Fields: []string{"name"}, SyncTimeout: SyncTimeoutFor(1500 * time.Millisecond)})
	assert.Equal(t, float64(1500), m["sync_timeout"])
}

func TestClockParamsSyncTimeoutOmittedWhenDisabled(t *testing.T) {
	m := wireKeys(t, ClockParams{SyncTimeout: NoSyncCookie()})
	assert.NotContains(t, m, "sync_timeout", "clock requests read a missing sync_timeout as disabled")

	m = wireKeys(t, ClockParams{})
	assert.Equal(t, float64(60000), m["sync_timeout"], "the default must be sent explicitly on a clock request")

	m = wireKeys(t, ClockParams{SyncTimeout: SyncTimeoutFor(2 * time.Second)})
	assert.Equal(t, float64(2000), m["sync_timeout"])
}

func TestClockParamsDecodeDefaults(t *testing.T) {
	var p ClockParams
	require.NoError(t, Unmarshal([]byte(`{}`), &p))
	assert.True(t, p.SyncTimeout.IsDisabled())

	require.NoError(t, Unmarshal([]byte(`{"sync_timeout":60000}`), &p))
	assert.Equal(t, int64(60000), p.SyncTimeout.Millis())
}

func TestQueryParamsOptionalsOmitted(t *testing.T) {
	m := wireKeys(t, QueryParams{Fields: []string{"name"}})
	for _, key := range []string{
		"glob", "path", "suffix", "since", "relative_root",
		"expression", "lock_timeout", "request_id",
	} {
		assert.NotContains(t, m, key)
	}
}

func TestQueryParamsFullWireForm(t *testing.T) {
	since := NewClock(NullClockSpec())
	lock := int64(250)
	m := wireKeys(t, QueryParams{
		Glob:         []string{"*.go"},
		Path:         []PathGeneratorElement{DepthBoundedPath("vendor", 1)},
		Suffix:       []string{"go", "md"},
		Since:        &since,
		RelativeRoot: "sub/dir",
		Expression:   json.RawMessage(`["type","f"]`),
		Fields:       []string{"name", "type"},
		SyncTimeout:  SyncTimeoutFor(time.Second),
		LockTimeout:  &lock,
		RequestID:    "req-1",
	})

	assert.Equal(t, []any{"*.go"}, m["glob"])
	assert.Equal(t, []any{map[string]any{"path": "vendor", "depth": float64(1)}}, m["path"])
	assert.Equal(t, []any{"go", "md"}, m["suffix"])
	assert.Equal(t, "c:0:0", m["since"])
	assert.Equal(t, "sub/dir", m["relative_root"])
	assert.Equal(t, []any{"type", "f"}, m["expression"])
	assert.Equal(t, []any{"name", "type"}, m["fields"])
	assert.Equal(t, float64(1000), m["sync_timeout"])
	assert.Equal(t, float64(250), m["lock_timeout"])
	assert.Equal(t, "req-1", m["request_id"])
}

func TestPathGeneratorElementShapes(t *testing.T) {
	data, err := Marshal(RecursivePath("src"))
	require.NoError(t, err)
	assert.Equal(t, `"src"`, string(data))

	data, err = Marshal(DepthBoundedPath("src", 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"src","depth":2}`, string(data))
}

func TestPathGeneratorElementDecode(t *testing.T) {
	var el PathGeneratorElement
	require.NoError(t, Unmarshal([]byte(`"lib"`), &el))
	assert.Equal(t, "lib", el.Path())
	_, bounded := el.Depth()
	assert.False(t, bounded)

	require.NoError(t, Unmarshal([]byte(`{"path":"lib","depth":0}`), &el))
	depth, bounded := el.Depth()
	assert.True(t, bounded)
	assert.Equal(t, int64(0), depth)

	assert.ErrorIs(t, el.UnmarshalJSON([]byte(`42`)), ErrBadPathElement)
}

func TestQueryParamsValidate(t *testing.T) {
	q := &QueryParams{Glob: []string{"src/**/*.go"}, Fields: []string{"name"}}
	assert.NoError(t, q.Validate())

	q.Glob = append(q.Glob, "src/[") // unterminated character class
	assert.ErrorIs(t, q.Validate(), ErrBadGlob)
}

func TestQueryParamsGenerators(t *testing.T) {
	q := &QueryParams{Fields: []string{"name"}}
	assert.Empty(t, q.Generators(), "no generator means the all-files default")

	since := NewClock(NullClockSpec())
	q.Glob = []string{"*.go"}
	q.Suffix = []string{"go"}
	q.Since = &since
	q.Path = []PathGeneratorElement{RecursivePath("src")}
	assert.Equal(t, []string{"glob", "path", "suffix", "since"}, q.Generators())
}

func TestQueryParamsRoundTrip(t *testing.T) {
	since := NewClock(NamedCursor("tool"))
	orig := QueryParams{
		Glob:          []string{"*.c"},
		Since:         &since,
		Fields:        []string{"name", "exists"},
		CaseSensitive: true,
		SyncTimeout:   SyncTimeoutFor(3 * time.Second),
		RequestID:     "abc",
	}
	data, err := Marshal(orig)
	require.NoError(t, err)

	var back QueryParams
	require.NoError(t, Unmarshal(data, &back))
	assert.Equal(t, orig.Glob, back.Glob)
	assert.Equal(t, "n:tool", back.Since.Spec().String())
	assert.Equal(t, orig.Fields, back.Fields)
	assert.True(t, back.CaseSensitive)
	assert.Equal(t, int64(3000), back.SyncTimeout.Millis())
	assert.Equal(t, "abc", back.RequestID)

	// A round trip through the wire keeps a default sync timeout default.
	data, err = Marshal(QueryParams{Fields: []string{"name"}})
	require.NoError(t, err)
	require.NoError(t, Unmarshal(data, &back))
	assert.True(t, back.SyncTimeout.IsDefault())
}
