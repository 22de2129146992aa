// Package wirepdu defines the request and response PDU types exchanged with
// the watch service, along with their wire encoding rules.
//
// Everything here is a plain immutable value record. The package performs no
// I/O and holds no state; framing, demultiplexing of subscription pushes and
// retry policy all belong to the transport layer sitting above it.
package wirepdu

// Marshal encodes a PDU with the package's JSON engine.
// Requests must go through this (or an engine honoring json.Marshaler)
// so that the omission rules encoded in the types are applied.
func Marshal(v any) ([]byte, error) {
	return jsonMarshal(v)
}

// Unmarshal decodes a PDU with the package's JSON engine.
func Unmarshal(data []byte, v any) error {
	return jsonUnmarshal(data, v)
}
