package tokensession

import (
	"fmt"
	"time"
)

// Namespace is a handle to a logical partition of a Store. Keys written
// through one namespace are invisible to every other namespace sharing the
// same Store. Values are serialized with the namespace Codec (JSON by
// default) and never expire.
type Namespace struct {
	name  string
	store Store
	codec Codec
}

// Open returns a handle scoped to name. Opening is cheap and never fails;
// handles opened with the same name over the same Store see the same data.
func Open(store Store, name string) *Namespace {
	return &Namespace{name: name, store: store, codec: JSONCodec{}}
}

// WithCodec returns a copy of the handle that serializes values with c.
func (n *Namespace) WithCodec(c Codec) *Namespace {
	cp := *n
	cp.codec = c
	return &cp
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	return n.name
}

// Get decodes the value stored under key into dst. It returns false if
// the key was never set or has been unset.
func (n *Namespace) Get(key string, dst any) (bool, error) {
	data, found, err := n.store.Get(n.key(key))
	if err != nil {
		return false, fmt.Errorf("get %s: %w", n.key(key), err)
	}
	if !found {
		return false, nil
	}
	if err := n.codec.Decode(data, dst); err != nil {
		return false, fmt.Errorf("get %s: %w", n.key(key), err)
	}
	return true, nil
}

// Value returns the value stored under key decoded into its generic form
// (string, float64, bool, []any, map[string]any or nil).
func (n *Namespace) Value(key string) (any, bool, error) {
	var v any
	found, err := n.Get(key, &v)
	return v, found, err
}

// Set persists value under key, overwriting any prior value.
func (n *Namespace) Set(key string, value any) error {
	data, err := n.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", n.key(key), err)
	}
	if err := n.store.Set(n.key(key), data, time.Time{}); err != nil {
		return fmt.Errorf("set %s: %w", n.key(key), err)
	}
	return nil
}

// Unset removes key. Unsetting a missing key is a no-op.
func (n *Namespace) Unset(key string) error {
	if err := n.store.Delete(n.key(key)); err != nil {
		return fmt.Errorf("unset %s: %w", n.key(key), err)
	}
	return nil
}

func (n *Namespace) key(k string) string {
	return n.name + ":" + k
}
