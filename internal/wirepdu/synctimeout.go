package wirepdu

import "time"

const defaultSyncTimeoutMillis = 60_000

type syncTimeoutKind uint8

const (
	syncTimeoutDefault syncTimeoutKind = iota
	syncTimeoutDisabled
	syncTimeoutDuration
)

// SyncTimeout controls how long the server waits to observe its sync cookie
// before answering, i.e. how hard it tries to guarantee that the response
// reflects every filesystem notification up to the moment the request was
// issued.
//
// The zero value is the server default (one minute). Disabling the cookie
// saves roughly 15ms per request at the cost of possibly stale results; that
// is safe once you have done one synchronized clock or query call, since the
// server is then known to be at least as current as that call.
//
// On the wire the value is a signed 64-bit millisecond count. Whether the
// field may be omitted depends on the enclosing request: a clock request
// treats a missing sync_timeout as disabled, a query request treats it as the
// default. Each enclosing params type applies its own rule.
type SyncTimeout struct {
	kind syncTimeoutKind
	d    time.Duration
}

// DefaultSyncTimeout is the server's default cookie timeout (one minute).
func DefaultSyncTimeout() SyncTimeout {
	return SyncTimeout{}
}

// NoSyncCookie disables sync cookies for the request.
func NoSyncCookie() SyncTimeout {
	return SyncTimeout{kind: syncTimeoutDisabled}
}

// SyncTimeoutFor sets an explicit cookie timeout. The server has millisecond
// granularity. A zero duration means "no cookie" and collapses to
// NoSyncCookie, never to a zero-length timeout.
func SyncTimeoutFor(d time.Duration) SyncTimeout {
	if d.Milliseconds() == 0 {
		return NoSyncCookie()
	}
	return SyncTimeout{kind: syncTimeoutDuration, d: d}
}

func (t SyncTimeout) IsDefault() bool {
	return t.kind == syncTimeoutDefault
}

func (t SyncTimeout) IsDisabled() bool {
	return t.kind == syncTimeoutDisabled
}

// Millis is the wire encoding of the timeout.
func (t SyncTimeout) Millis() int64 {
	switch t.kind {
	case syncTimeoutDisabled:
		return 0
	case syncTimeoutDuration:
		return t.d.Milliseconds()
	default:
		return defaultSyncTimeoutMillis
	}
}

func (t SyncTimeout) MarshalJSON() ([]byte, error) {
	return jsonMarshal(t.Millis())
}

func (t *SyncTimeout) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := jsonUnmarshal(data, &ms); err != nil {
		return err
	}
	*t = SyncTimeoutFor(time.Duration(ms) * time.Millisecond)
	return nil
}
