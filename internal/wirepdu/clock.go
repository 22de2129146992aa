package wirepdu

import (
	"encoding/json"
	"strconv"
)

// ClockSpec is an opaque token naming a point in the service's internal
// change history. The contents are not a stable format: the client must never
// parse, compare or order tokens, and tokens from different server instances
// are not comparable at all. The only valid uses are the constructors below
// and threading a token returned by the server back into a later request.
type ClockSpec struct {
	spec string
}

// NullClockSpec is the clock before any recorded change. A since-query against
// it yields a fresh-instance result containing every possible match. Use it
// when starting from scratch with no saved clock.
func NullClockSpec() ClockSpec {
	return ClockSpec{spec: "c:0:0"}
}

// NamedCursor makes the server store the clock under the given name on the
// client's behalf. The name is scoped per watched project, so pick something
// unique to your tool.
//
// Named cursors take an exclusive per-project lock for the duration of the
// query, serializing it against every other client of that project. Prefer
// storing the clock yourself.
func NamedCursor(name string) ClockSpec {
	return ClockSpec{spec: "n:" + name}
}

// UnixTimestampClock is a clock at a unix timestamp, in seconds. The server
// never generates this form but accepts it in since-queries. One second
// granularity means events within the same second may be reported twice.
func UnixTimestampClock(timeT int64) ClockSpec {
	return ClockSpec{spec: strconv.FormatInt(timeT, 10)}
}

func (c ClockSpec) String() string {
	return c.spec
}

func (c ClockSpec) IsZero() bool {
	return c.spec == ""
}

func (c ClockSpec) MarshalJSON() ([]byte, error) {
	return jsonMarshal(c.spec)
}

func (c *ClockSpec) UnmarshalJSON(data []byte) error {
	return jsonUnmarshal(data, &c.spec)
}

// Clock is a point in the service's change history, optionally carrying
// source-control metadata for scm-aware queries.
//
// On the wire it is either the bare token string or a structured record
// embedding the token; there is no tag. Decoding tries the bare-token shape
// first, then the structured shape.
type Clock struct {
	spec ClockSpec
	fat  *FatClockData
}

// NewClock wraps a bare clock token.
func NewClock(spec ClockSpec) Clock {
	return Clock{spec: spec}
}

// NewScmClock wraps a clock carrying source-control metadata.
func NewScmClock(data FatClockData) Clock {
	return Clock{fat: &data}
}

// Spec returns the clock token, regardless of shape.
func (c Clock) Spec() ClockSpec {
	if c.fat != nil {
		return c.fat.Clock
	}
	return c.spec
}

// ScmData returns the structured clock data, or nil for a bare token.
func (c Clock) ScmData() *FatClockData {
	return c.fat
}

func (c Clock) IsZero() bool {
	return c.fat == nil && c.spec.IsZero()
}

func (c Clock) MarshalJSON() ([]byte, error) {
	if c.fat != nil {
		return jsonMarshal(c.fat)
	}
	return jsonMarshal(c.spec)
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var spec ClockSpec
	if err := jsonUnmarshal(data, &spec); err == nil {
		c.spec = spec
		c.fat = nil
		return nil
	}

	var fat FatClockData
	if err := jsonUnmarshal(data, &fat); err == nil {
		c.spec = ClockSpec{}
		c.fat = &fat
		return nil
	}
	return ErrBadClock
}

// FatClockData is the structured clock shape: the token plus optional
// source-control metadata.
type FatClockData struct {
	Clock ClockSpec          `json:"clock"`
	Scm   *ScmAwareClockData `json:"scm,omitempty"`
}

// ScmAwareClockData describes the source-control state a query should reason
// against. Absent fields are omitted from the wire, never encoded as null.
type ScmAwareClockData struct {
	Mergebase     string               `json:"mergebase,omitempty"`
	MergebaseWith string               `json:"mergebase-with,omitempty"`
	SavedState    *SavedStateClockData `json:"saved-state,omitempty"`
}

// SavedStateClockData configures saved-state lookups for scm-aware queries.
// Config is passed through to the storage engine unevaluated.
type SavedStateClockData struct {
	Storage string          `json:"storage,omitempty"`
	Commit  string          `json:"commit-id,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}
