package wirepdu

import "encoding/json"

// SubscribeParams configures a standing subscription. It is the query bundle
// minus the generator selectors: a subscription always follows changes, so it
// implicitly uses the since generator, seeded from Since.
//
// The same omission rules apply as for QueryParams: absent optionals and
// false flags are left off the wire, Fields is always sent.
type SubscribeParams struct {
	// Since seeds the subscription. Unset means "from now".
	Since *Clock

	// RelativeRoot scopes input paths and output names to a subdirectory of
	// the project.
	RelativeRoot string

	// Expression filters the candidate files, passed through unevaluated.
	Expression json.RawMessage

	// Fields names the per-file fields rendered in each push.
	Fields []string

	// EmptyOnFreshInstance suppresses the file list on fresh-instance pushes.
	EmptyOnFreshInstance bool

	// CaseSensitive treats names as case sensitive even on filesystems that
	// report otherwise.
	CaseSensitive bool
}

type subscribeParamsWire struct {
	Since                *Clock          `json:"since,omitempty"`
	RelativeRoot         string          `json:"relative_root,omitempty"`
	Expression           json.RawMessage `json:"expression,omitempty"`
	Fields               []string        `json:"fields"`
	EmptyOnFreshInstance bool            `json:"empty_on_fresh_instance,omitempty"`
	CaseSensitive        bool            `json:"case_sensitive,omitempty"`
}

func (s SubscribeParams) MarshalJSON() ([]byte, error) {
	w := subscribeParamsWire{
		Since:                s.Since,
		RelativeRoot:         s.RelativeRoot,
		Expression:           s.Expression,
		Fields:               s.Fields,
		EmptyOnFreshInstance: s.EmptyOnFreshInstance,
		CaseSensitive:        s.CaseSensitive,
	}
	if w.Fields == nil {
		w.Fields = []string{}
	}
	return jsonMarshal(w)
}

func (s *SubscribeParams) UnmarshalJSON(data []byte) error {
	var w subscribeParamsWire
	if err := jsonUnmarshal(data, &w); err != nil {
		return err
	}
	*s = SubscribeParams{
		Since:                w.Since,
		RelativeRoot:         w.RelativeRoot,
		Expression:           w.Expression,
		Fields:               w.Fields,
		EmptyOnFreshInstance: w.EmptyOnFreshInstance,
		CaseSensitive:        w.CaseSensitive,
	}
	return nil
}
