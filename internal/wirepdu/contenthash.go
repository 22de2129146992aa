package wirepdu

// ContentSha1Hex is the per-file result of the content.sha1hex field: either
// the 40-hex-digit SHA1 of the file contents, or the error that prevented the
// server from computing it. A failed hash does not fail the whole response.
//
// The wire carries no tag: a bare string is a hash, a record with an "error"
// key is a failure. This layer dispatches on shape only; use Valid to check
// that a hash actually looks like one.
type ContentSha1Hex struct {
	Hash string
	Err  string
}

func (c ContentSha1Hex) IsError() bool {
	return c.Err != ""
}

// Valid reports whether Hash is exactly 40 hex characters.
func (c ContentSha1Hex) Valid() bool {
	if len(c.Hash) != 40 {
		return false
	}
	for i := 0; i < len(c.Hash); i++ {
		b := c.Hash[i]
		switch {
		case b >= '0' && b <= '9':
		case b >= 'a' && b <= 'f':
		case b >= 'A' && b <= 'F':
		default:
			return false
		}
	}
	return true
}

type contentHashError struct {
	Error string `json:"error"`
}

func (c ContentSha1Hex) MarshalJSON() ([]byte, error) {
	if c.IsError() {
		return jsonMarshal(contentHashError{Error: c.Err})
	}
	return jsonMarshal(c.Hash)
}

func (c *ContentSha1Hex) UnmarshalJSON(data []byte) error {
	var hash string
	if err := jsonUnmarshal(data, &hash); err == nil {
		c.Hash = hash
		c.Err = ""
		return nil
	}

	var rec map[string]string
	if err := jsonUnmarshal(data, &rec); err == nil {
		if msg, ok := rec["error"]; ok {
			c.Hash = ""
			c.Err = msg
			return nil
		}
	}
	return ErrBadContentHash
}
