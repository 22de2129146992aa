package wirepdu

import "encoding/json"

// GetSockNameResponse answers a get-sockname command.
type GetSockNameResponse struct {
	Version  string `json:"version"`
	SockName string `json:"sockname,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Err surfaces a server-reported failure, or nil.
func (r *GetSockNameResponse) Err() error {
	return serverErr(r.Error)
}

// ClockResponse answers a clock command.
type ClockResponse struct {
	Version string    `json:"version"`
	Clock   ClockSpec `json:"clock"`
	Error   string    `json:"error,omitempty"`
}

func (r *ClockResponse) Err() error {
	return serverErr(r.Error)
}

// WatchProjectResponse answers a watch-project command.
type WatchProjectResponse struct {
	Version string `json:"version"`

	// RelativePath is the queried path relative to the watched project root,
	// empty when the path is the root itself. Carry it into
	// QueryParams.RelativeRoot when querying under this watch.
	RelativePath string `json:"relative_path,omitempty"`

	// Watch is the root of the watched project.
	Watch string `json:"watch"`

	// Watcher names the mechanism the server uses to monitor this root.
	Watcher string `json:"watcher,omitempty"`

	Error string `json:"error,omitempty"`
}

func (r *WatchProjectResponse) Err() error {
	return serverErr(r.Error)
}

// QueryResult answers a query command, and is also the shape of every
// subscription push. F is the caller's per-file record type; it must decode
// from the field names the request listed in Fields (FileRecord pairs with
// FileRecordFields).
type QueryResult[F any] struct {
	Version string `json:"version"`

	// Clock is the point in history this result is current to. Thread it
	// into the Since of the next query to receive the changes after it.
	Clock *Clock `json:"clock,omitempty"`

	// IsFreshInstance marks Files as the complete current match set rather
	// than a delta. The caller must then discard every previously retained
	// file not present in Files; merging a fresh instance into old state
	// silently diverges from the server. filestate.Baseline implements the
	// required handling.
	IsFreshInstance bool `json:"is_fresh_instance,omitempty"`

	// Files holds the matching files. Nil when the server sent none, e.g.
	// for a state transition push or under empty_on_fresh_instance.
	Files []F `json:"files,omitempty"`

	// Subscription is the subscription name on push messages, empty on
	// direct query responses. Transport demultiplexing keys off it.
	Subscription string `json:"subscription,omitempty"`

	// SubscriptionCanceled marks the terminal push of a subscription's
	// stream: the subscription was torn down, by an unsubscribe or because
	// the watch was deleted. It is a marker, not an error.
	SubscriptionCanceled bool `json:"canceled,omitempty"`

	// StateEnter and StateLeave report source-control-aware state
	// transitions asserted by the server. A client subscribing mid-state
	// reconstructs the active set from SubscribeResponse.AssertedStates.
	StateEnter string `json:"state-enter,omitempty"`
	StateLeave string `json:"state-leave,omitempty"`

	Error string `json:"error,omitempty"`
}

func (r *QueryResult[F]) Err() error {
	return serverErr(r.Error)
}

// SubscribeResponse acknowledges a subscribe command with the server-known
// state at initiation time, before any push arrives.
type SubscribeResponse struct {
	Version string `json:"version"`

	// Subscribe echoes the subscription name.
	Subscribe string `json:"subscribe"`

	// Clock is the clock at initiation time.
	Clock ClockSpec `json:"clock"`

	// AssertedStates lists the states active at initiation time, for
	// clients that connect after a state-enter but before its state-leave.
	AssertedStates []string `json:"asserted-states,omitempty"`

	// SavedStateInfo carries saved-state storage metadata for
	// source-control-aware subscriptions, passed through unevaluated.
	SavedStateInfo json.RawMessage `json:"saved-state-info,omitempty"`

	Error string `json:"error,omitempty"`
}

func (r *SubscribeResponse) Err() error {
	return serverErr(r.Error)
}

// UnsubscribeResponse answers an unsubscribe command.
type UnsubscribeResponse struct {
	Version string `json:"version"`

	// Unsubscribe echoes the torn-down subscription's name.
	Unsubscribe string `json:"unsubscribe"`

	Error string `json:"error,omitempty"`
}

func (r *UnsubscribeResponse) Err() error {
	return serverErr(r.Error)
}
