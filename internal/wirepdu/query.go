package wirepdu

import (
	"encoding/json"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// PathGeneratorElement is one entry for the path generator: either a path
// walked recursively, or a path with a bounded walk depth. The two shapes are
// structurally disambiguated on the wire (bare string vs {path, depth}).
type PathGeneratorElement struct {
	path    string
	depth   int64
	bounded bool
}

// RecursivePath walks the whole subtree under path.
func RecursivePath(path string) PathGeneratorElement {
	return PathGeneratorElement{path: path}
}

// DepthBoundedPath walks at most depth levels under path. Depth 0 examines
// only the path itself.
func DepthBoundedPath(path string, depth int64) PathGeneratorElement {
	return PathGeneratorElement{path: path, depth: depth, bounded: true}
}

func (p PathGeneratorElement) Path() string {
	return p.path
}

// Depth returns the walk bound and whether one is set.
func (p PathGeneratorElement) Depth() (int64, bool) {
	return p.depth, p.bounded
}

type boundedPathWire struct {
	Path  string `json:"path"`
	Depth int64  `json:"depth"`
}

func (p PathGeneratorElement) MarshalJSON() ([]byte, error) {
	if p.bounded {
		return jsonMarshal(boundedPathWire{Path: p.path, Depth: p.depth})
	}
	return jsonMarshal(p.path)
}

func (p *PathGeneratorElement) UnmarshalJSON(data []byte) error {
	var path string
	if err := jsonUnmarshal(data, &path); err == nil {
		*p = PathGeneratorElement{path: path}
		return nil
	}

	var w boundedPathWire
	if err := jsonUnmarshal(data, &w); err == nil && w.Path != "" {
		*p = PathGeneratorElement{path: w.Path, depth: w.Depth, bounded: true}
		return nil
	}
	return ErrBadPathElement
}

// QueryParams is the full configuration of a one-shot query.
//
// A query runs in three phases: candidate generation (the glob, path, suffix
// and since selectors), filtration (the expression), and rendering (the
// fields list). Leaving every generator unset selects all known files.
// Setting more than one is legal and the server unions the candidates, but it
// is rarely what you want; see Generators.
//
// Absent optionals and false flags are omitted from the wire entirely, never
// sent as null, so that servers which distinguish "absent" from "null" keep
// working. Fields is the one field that is always sent.
type QueryParams struct {
	// Glob enables the glob generator.
	Glob []string

	// GlobNoEscape stops backslash acting as an escape character in globs.
	GlobNoEscape bool

	// GlobIncludeDotFiles makes globs match basenames starting with a dot,
	// which globs otherwise exclude.
	GlobIncludeDotFiles bool

	// Path enables the path generator.
	Path []PathGeneratorElement

	// Suffix enables the suffix generator with the given filename suffixes.
	// On virtualized filesystems this can walk the whole project; scope it
	// with RelativeRoot.
	Suffix []string

	// Since enables the since generator: results are the delta between this
	// clock and now. Thread the clock of each result into the next query's
	// Since to follow changes over time.
	Since *Clock

	// RelativeRoot scopes input paths and output names to a subdirectory of
	// the project. Leaving it unset on a large virtualized filesystem risks
	// an O(project) walk.
	RelativeRoot string

	// Expression filters the generated candidates. It is an opaque term in
	// the service's expression grammar, passed through unevaluated; unset
	// means "true" (keep everything).
	Expression json.RawMessage

	// Fields names the per-file fields the server should render. "name" is
	// the cheapest and should effectively always be present. FileRecordFields
	// matches the FileRecord shape.
	Fields []string

	// EmptyOnFreshInstance suppresses the file list on fresh-instance
	// results. Only set it if every consumer handles fresh instances
	// correctly; see the filestate package for what that entails.
	EmptyOnFreshInstance bool

	// CaseSensitive treats names as case sensitive even on filesystems that
	// report otherwise.
	CaseSensitive bool

	// SyncTimeout overrides the cookie synchronization timeout. The zero
	// value is the server default and is omitted from the wire.
	SyncTimeout SyncTimeout

	// DedupResults removes duplicate files when several generators match the
	// same name, at O(result-size) memory cost.
	DedupResults bool

	// LockTimeout bounds how long the server waits for its view lock, in
	// milliseconds. Nil uses the server default.
	LockTimeout *int64

	// RequestID tags the request in the server's performance sampling and is
	// exported to child source-control processes. NewRequestID generates one.
	RequestID string
}

// queryParamsWire fixes the wire field names and omission rules. A nil
// sync_timeout leaves the key off the wire; on a query request the server
// reads that as the default timeout.
type queryParamsWire struct {
	Glob                 []string               `json:"glob,omitempty"`
	GlobNoEscape         bool                   `json:"glob_noescape,omitempty"`
	GlobIncludeDotFiles  bool                   `json:"glob_includedotfiles,omitempty"`
	Path                 []PathGeneratorElement `json:"path,omitempty"`
	Suffix               []string               `json:"suffix,omitempty"`
	Since                *Clock                 `json:"since,omitempty"`
	RelativeRoot         string                 `json:"relative_root,omitempty"`
	Expression           json.RawMessage        `json:"expression,omitempty"`
	Fields               []string               `json:"fields"`
	EmptyOnFreshInstance bool                   `json:"empty_on_fresh_instance,omitempty"`
	CaseSensitive        bool                   `json:"case_sensitive,omitempty"`
	SyncTimeout          *SyncTimeout           `json:"sync_timeout,omitempty"`
	DedupResults         bool                   `json:"dedup_results,omitempty"`
	LockTimeout          *int64                 `json:"lock_timeout,omitempty"`
	RequestID            string                 `json:"request_id,omitempty"`
}

func (q QueryParams) MarshalJSON() ([]byte, error) {
	w := queryParamsWire{
		Glob:                 q.Glob,
		GlobNoEscape:         q.GlobNoEscape,
		GlobIncludeDotFiles:  q.GlobIncludeDotFiles,
		Path:                 q.Path,
		Suffix:               q.Suffix,
		Since:                q.Since,
		RelativeRoot:         q.RelativeRoot,
		Expression:           q.Expression,
		Fields:               q.Fields,
		EmptyOnFreshInstance: q.EmptyOnFreshInstance,
		CaseSensitive:        q.CaseSensitive,
		DedupResults:         q.DedupResults,
		LockTimeout:          q.LockTimeout,
		RequestID:            q.RequestID,
	}
	if w.Fields == nil {
		w.Fields = []string{}
	}
	if !q.SyncTimeout.IsDefault() {
		st := q.SyncTimeout
		w.SyncTimeout = &st
	}
	return jsonMarshal(w)
}

func (q *QueryParams) UnmarshalJSON(data []byte) error {
	var w queryParamsWire
	if err := jsonUnmarshal(data, &w); err != nil {
		return err
	}
	*q = QueryParams{
		Glob:                 w.Glob,
		GlobNoEscape:         w.GlobNoEscape,
		GlobIncludeDotFiles:  w.GlobIncludeDotFiles,
		Path:                 w.Path,
		Suffix:               w.Suffix,
		Since:                w.Since,
		RelativeRoot:         w.RelativeRoot,
		Expression:           w.Expression,
		Fields:               w.Fields,
		EmptyOnFreshInstance: w.EmptyOnFreshInstance,
		CaseSensitive:        w.CaseSensitive,
		DedupResults:         w.DedupResults,
		LockTimeout:          w.LockTimeout,
		RequestID:            w.RequestID,
	}
	// A query request with no sync_timeout means the server default.
	if w.SyncTimeout != nil {
		q.SyncTimeout = *w.SyncTimeout
	}
	return nil
}

// Generators names the candidate generators the params enable. More than one
// is legal but unions the candidate sets, which usually over-reports; callers
// should warn when len > 1. None means the all-files generator.
func (q *QueryParams) Generators() []string {
	var gens []string
	if len(q.Glob) > 0 {
		gens = append(gens, "glob")
	}
	if len(q.Path) > 0 {
		gens = append(gens, "path")
	}
	if len(q.Suffix) > 0 {
		gens = append(gens, "suffix")
	}
	if q.Since != nil {
		gens = append(gens, "since")
	}
	return gens
}

// Validate checks the parts of the bundle this layer can check. Multiple
// generators are deliberately not an error; see Generators.
func (q *QueryParams) Validate() error {
	for _, g := range q.Glob {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("%w: %q", ErrBadGlob, g)
		}
	}
	return nil
}

// ClockParams parameterizes a clock request.
type ClockParams struct {
	// SyncTimeout controls cookie synchronization for the clock read. Unlike
	// a query request, a clock request with no sync_timeout on the wire means
	// "no cookie", so the field is omitted exactly when disabled.
	SyncTimeout SyncTimeout
}

type clockParamsWire struct {
	SyncTimeout *SyncTimeout `json:"sync_timeout,omitempty"`
}

func (c ClockParams) MarshalJSON() ([]byte, error) {
	var w clockParamsWire
	if !c.SyncTimeout.IsDisabled() {
		st := c.SyncTimeout
		w.SyncTimeout = &st
	}
	return jsonMarshal(w)
}

func (c *ClockParams) UnmarshalJSON(data []byte) error {
	var w clockParamsWire
	if err := jsonUnmarshal(data, &w); err != nil {
		return err
	}
	// A clock request with no sync_timeout means cookies disabled.
	if w.SyncTimeout != nil {
		c.SyncTimeout = *w.SyncTimeout
	} else {
		c.SyncTimeout = NoSyncCookie()
	}
	return nil
}
