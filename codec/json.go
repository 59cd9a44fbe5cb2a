package codec

import "encoding/json"

// JSON is the default Codec. The zero value is ready to use.
//
// JSON is the interoperable choice: entries written by other runtimes
// sharing the same store decode cleanly, and corrupt payloads fail fast.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
