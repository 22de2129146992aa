package wirepdu

import "errors"

var (
	// decode
	ErrUnknownFileType = errors.New("wirepdu: unknown file type")
	ErrBadClock        = errors.New("wirepdu: clock is neither a token nor a structured clock")
	ErrBadPathElement  = errors.New("wirepdu: path element is neither a path nor a {path, depth} record")
	ErrBadContentHash  = errors.New("wirepdu: content hash is neither a hash string nor an error record")
	ErrBadEnvelope     = errors.New("wirepdu: malformed command envelope")

	// validation
	ErrBadGlob = errors.New("wirepdu: invalid glob pattern")
)

// ServerError is an error reported by the service inside an otherwise
// well-formed response.
type ServerError struct {
	Msg string
}

func (e *ServerError) Error() string {
	return "wirepdu: server error: " + e.Msg
}

func serverErr(msg string) error {
	if msg == "" {
		return nil
	}
	return &ServerError{Msg: msg}
}
