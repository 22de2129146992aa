package wirepdu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireArray(t *testing.T, v any) []any {
	t.Helper()
	data, err := Marshal(v)
	require.NoError(t, err)
	var arr []any
	require.NoError(t, Unmarshal(data, &arr))
	return arr
}

func TestGetSockNameEnvelope(t *testing.T) {
	arr := wireArray(t, GetSockNameRequest{})
	assert.Equal(t, []any{"get-sockname"}, arr)
}

func TestClockEnvelope(t *testing.T) {
	arr := wireArray(t, ClockRequest{Root: "/repo"})
	require.Len(t, arr, 3)
	assert.Equal(t, "clock", arr[0])
	assert.Equal(t, "/repo", arr[1])
	params, ok := arr[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(60000), params["sync_timeout"])
}

func TestWatchProjectEnvelope(t *testing.T) {
	arr := wireArray(t, WatchProjectRequest{Root: "/repo/sub"})
	assert.Equal(t, []any{"watch-project", "/repo/sub"}, arr)
}

func TestQueryEnvelope(t *testing.T) {
	arr := wireArray(t, QueryRequest{
		Root:   "/repo",
		Params: QueryParams{Fields: []string{"name"}},
	})
	require.Len(t, arr, 3)
	assert.Equal(t, "query", arr[0])
	assert.Equal(t, "/repo", arr[1])
	params, ok := arr[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"name"}, params["fields"])
}

func TestSubscribeEnvelope(t *testing.T) {
	arr := wireArray(t, SubscribeRequest{
		Root:   "/repo",
		Name:   "mysub",
		Params: SubscribeParams{Fields: []string{"name"}},
	})
	require.Len(t, arr, 4)
	assert.Equal(t, "subscribe", arr[0])
	assert.Equal(t, "/repo", arr[1])
	assert.Equal(t, "mysub", arr[2])
}

func TestUnsubscribeEnvelope(t *testing.T) {
	arr := wireArray(t, UnsubscribeRequest{Root: "/repo", Name: "mysub"})
	assert.Equal(t, []any{"unsubscribe", "/repo", "mysub"}, arr)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	data, err := Marshal(SubscribeRequest{
		Root:   "/repo",
		Name:   "mysub",
		Params: SubscribeParams{Fields: []string{"name"}, CaseSensitive: true},
	})
	require.NoError(t, err)

	var back SubscribeRequest
	require.NoError(t, Unmarshal(data, &back))
	assert.Equal(t, "/repo", back.Root)
	assert.Equal(t, "mysub", back.Name)
	assert.True(t, back.Params.CaseSensitive)
	assert.Equal(t, []string{"name"}, back.Params.Fields)
}

func TestEnvelopeDecodeErrors(t *testing.T) {
	var q QueryRequest
	assert.ErrorIs(t, q.UnmarshalJSON([]byte(`{"query":true}`)), ErrBadEnvelope)
	assert.ErrorIs(t, q.UnmarshalJSON([]byte(`["query","/repo"]`)), ErrBadEnvelope)
	assert.ErrorIs(t, q.UnmarshalJSON([]byte(`["clock","/repo",{}]`)), ErrBadEnvelope)

	var u UnsubscribeRequest
	assert.ErrorIs(t, u.UnmarshalJSON([]byte(`["unsubscribe","/repo"]`)), ErrBadEnvelope)
}
