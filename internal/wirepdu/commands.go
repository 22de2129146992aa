package wirepdu

import (
	"encoding/json"
	"fmt"
)

// Command names as they appear in the first slot of an envelope.
const (
	CmdGetSockName  = "get-sockname"
	CmdClock        = "clock"
	CmdWatchProject = "watch-project"
	CmdQuery        = "query"
	CmdSubscribe    = "subscribe"
	CmdUnsubscribe  = "unsubscribe"
)

// Command envelopes are positional JSON arrays: the command name, then the
// watched root, then any command-specific arguments.

func marshalEnvelope(parts ...any) ([]byte, error) {
	return jsonMarshal(parts)
}

func unmarshalEnvelope(data []byte, name string, args ...any) error {
	var raw []json.RawMessage
	if err := jsonUnmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrBadEnvelope, err)
	}
	if len(raw) != len(args)+1 {
		return fmt.Errorf("%w: %q takes %d argument(s), got %d", ErrBadEnvelope, name, len(args), len(raw)-1)
	}
	var got string
	if err := jsonUnmarshal(raw[0], &got); err != nil || got != name {
		return fmt.Errorf("%w: not a %q command", ErrBadEnvelope, name)
	}
	for i, arg := range args {
		if err := jsonUnmarshal(raw[i+1], arg); err != nil {
			return err
		}
	}
	return nil
}

// GetSockNameRequest asks the service for its socket path. It is the only
// command without a root argument.
type GetSockNameRequest struct{}

func (GetSockNameRequest) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(CmdGetSockName)
}

func (*GetSockNameRequest) UnmarshalJSON(data []byte) error {
	return unmarshalEnvelope(data, CmdGetSockName)
}

// ClockRequest reads the current clock of a watched root.
type ClockRequest struct {
	Root   string
	Params ClockParams
}

func (r ClockRequest) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(CmdClock, r.Root, r.Params)
}

func (r *ClockRequest) UnmarshalJSON(data []byte) error {
	return unmarshalEnvelope(data, CmdClock, &r.Root, &r.Params)
}

// WatchProjectRequest resolves a path to its enclosing watched project,
// starting a watch if needed. The response's relative path, when present,
// must be carried into QueryParams.RelativeRoot for queries under it.
type WatchProjectRequest struct {
	Root string
}

func (r WatchProjectRequest) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(CmdWatchProject, r.Root)
}

func (r *WatchProjectRequest) UnmarshalJSON(data []byte) error {
	return unmarshalEnvelope(data, CmdWatchProject, &r.Root)
}

// QueryRequest is a one-shot query against a watched root.
type QueryRequest struct {
	Root   string
	Params QueryParams
}

func (r QueryRequest) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(CmdQuery, r.Root, r.Params)
}

func (r *QueryRequest) UnmarshalJSON(data []byte) error {
	return unmarshalEnvelope(data, CmdQuery, &r.Root, &r.Params)
}

// SubscribeRequest opens a named standing subscription on a watched root.
// The name is echoed in every push for that subscription.
type SubscribeRequest struct {
	Root   string
	Name   string
	Params SubscribeParams
}

func (r SubscribeRequest) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(CmdSubscribe, r.Root, r.Name, r.Params)
}

func (r *SubscribeRequest) UnmarshalJSON(data []byte) error {
	return unmarshalEnvelope(data, CmdSubscribe, &r.Root, &r.Name, &r.Params)
}

// UnsubscribeRequest tears down a standing subscription by name.
type UnsubscribeRequest struct {
	Root string
	Name string
}

func (r UnsubscribeRequest) MarshalJSON() ([]byte, error) {
	return marshalEnvelope(CmdUnsubscribe, r.Root, r.Name)
}

func (r *UnsubscribeRequest) UnmarshalJSON(data []byte) error {
	return unmarshalEnvelope(data, CmdUnsubscribe, &r.Root, &r.Name)
}
