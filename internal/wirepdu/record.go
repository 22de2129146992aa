package wirepdu

import "github.com/watchwire/watchwire/pkg/utils"

// FileRecord is a ready-made per-file record covering the common field
// projection. Use it as the F of QueryResult and request FileRecordFields so
// the struct and the rendered fields stay in sync by construction; callers
// with leaner needs define their own record and field list.
type FileRecord struct {
	Name   string   `json:"name"`
	Exists bool     `json:"exists"`
	Type   FileType `json:"type"`
	Size   int64    `json:"size"`

	// MTimeUs is the modification time in microseconds since the epoch.
	MTimeUs int64 `json:"mtime_us"`

	// ContentSha1 is the content hash, or the reason it could not be
	// computed. Prefer it over Size for change detection on virtualized
	// filesystems, where stat fields force inode materialization.
	ContentSha1 ContentSha1Hex `json:"content.sha1hex"`
}

// FileRecordFields is the field list matching FileRecord.
func FileRecordFields() []string {
	return []string{"name", "exists", "type", "size", "mtime_us", "content.sha1hex"}
}

// EntryName implements filestate.Entry.
func (f FileRecord) EntryName() string {
	return f.Name
}

// EntryExists implements filestate.Entry.
func (f FileRecord) EntryExists() bool {
	return f.Exists
}

// NewRequestID returns a random id for QueryParams.RequestID.
func NewRequestID() string {
	return utils.TokenHex(8)
}
