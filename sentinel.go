package sentinels

import (
	"fmt"
	"hash/maphash"
)

// Sentinel is an immutable singleton placeholder representing "no real value
// yet" for its key. Instances are only ever created by a Registry; two live
// sentinels from the same registry with equal keys are always the same
// pointer. The zero Sentinel is not usable; always obtain instances through
// New, For, or a Subscription.
type Sentinel struct {
	registry *Registry
	key      any
}

// Key returns the opaque key this sentinel was created for.
func (s *Sentinel) Key() any { return s.key }

// Registry returns the registry that owns this sentinel.
func (s *Sentinel) Registry() *Registry { return s.registry }

// Equal reports whether two sentinels come from the same registry and carry
// equal keys. While both are live this coincides with pointer identity.
func (s *Sentinel) Equal(other *Sentinel) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.registry == other.registry && s.key == other.key
}

var hashSeed = maphash.MakeSeed()

// Hash returns a hash consistent with Equal: equal sentinels hash equal.
func (s *Sentinel) Hash() uint64 {
	return maphash.Comparable(hashSeed, [2]any{s.registry, s.key})
}

// IsZero always reports true. A sentinel stands for an absent value, so it is
// indistinguishable from "empty" in emptiness checks.
func (s *Sentinel) IsZero() bool { return true }

func (s *Sentinel) String() string {
	if s == nil {
		return "<Sentinel: nil>"
	}
	return fmt.Sprintf("<Sentinel: %s>", keyString(s.key))
}

// Index returns the receiver. A sentinel tolerates being treated as an
// indexable value and simply propagates itself.
func (s *Sentinel) Index(any) *Sentinel { return s }

// Invoke returns the receiver. A sentinel tolerates being treated as a
// callable value and simply propagates itself.
func (s *Sentinel) Invoke(...any) *Sentinel { return s }

// Copy returns the receiver; copying a singleton preserves identity.
func (s *Sentinel) Copy() *Sentinel { return s }

// DeepCopy returns the receiver; deep-copying a singleton preserves identity.
func (s *Sentinel) DeepCopy() *Sentinel { return s }
