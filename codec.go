package tokensession

import (
	"encoding/json"
	"fmt"
)

// Codec defines how namespace values are serialized to and from the bytes
// held by a Store.
type Codec interface {
	// Encode serializes v into a byte slice.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into the value pointed to by v.
	Decode(data []byte, v any) error
}

// Ensure JSONCodec implements Codec.
var _ Codec = JSONCodec{}

// JSONCodec is the default Codec. Values must be JSON-serializable, which
// keeps the persisted layout readable by non-Go clients sharing the store.
type JSONCodec struct{}

// Encode serializes v as JSON.
func (JSONCodec) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}

// Decode deserializes JSON data into v.
func (JSONCodec) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}
