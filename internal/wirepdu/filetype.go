package wirepdu

import "fmt"

// FileType is the kind of a filesystem entry as reported in query results and
// used in expression terms. It is a closed set; the service encodes it as a
// single character on the wire.
type FileType uint8

const (
	TypeBlockSpecial FileType = iota
	TypeCharSpecial
	TypeDirectory
	TypeRegular
	TypeFifo
	TypeSymlink
	TypeSocket
	TypeSolarisDoor
)

func (t FileType) String() string {
	switch t {
	case TypeBlockSpecial:
		return "block-special"
	case TypeCharSpecial:
		return "char-special"
	case TypeDirectory:
		return "directory"
	case TypeRegular:
		return "regular"
	case TypeFifo:
		return "fifo"
	case TypeSymlink:
		return "symlink"
	case TypeSocket:
		return "socket"
	case TypeSolarisDoor:
		return "solaris-door"
	default:
		return fmt.Sprintf("???(%d)", uint8(t))
	}
}

// WireChar returns the single-character wire token for the type.
func (t FileType) WireChar() (string, error) {
	switch t {
	case TypeBlockSpecial:
		return "b", nil
	case TypeCharSpecial:
		return "c", nil
	case TypeDirectory:
		return "d", nil
	case TypeRegular:
		return "f", nil
	case TypeFifo:
		return "p", nil
	case TypeSymlink:
		return "l", nil
	case TypeSocket:
		return "s", nil
	case TypeSolarisDoor:
		return "D", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownFileType, uint8(t))
	}
}

// ParseFileType decodes a wire token. Any character outside the closed set is
// a hard decode failure; there is no catch-all variant and no default.
func ParseFileType(s string) (FileType, error) {
	switch s {
	case "b":
		return TypeBlockSpecial, nil
	case "c":
		return TypeCharSpecial, nil
	case "d":
		return TypeDirectory, nil
	case "f":
		return TypeRegular, nil
	case "p":
		return TypeFifo, nil
	case "l":
		return TypeSymlink, nil
	case "s":
		return TypeSocket, nil
	case "D":
		return TypeSolarisDoor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFileType, s)
	}
}

func (t FileType) MarshalJSON() ([]byte, error) {
	c, err := t.WireChar()
	if err != nil {
		return nil, err
	}
	return jsonMarshal(c)
}

func (t *FileType) UnmarshalJSON(data []byte) error {
	var s string
	if err := jsonUnmarshal(data, &s); err != nil {
		return err
	}
	ft, err := ParseFileType(s)
	if err != nil {
		return err
	}
	*t = ft
	return nil
}
