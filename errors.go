package sentinels

import "fmt"

// InvalidKeyError reports a key that can never identify a sentinel: nil, the
// boolean constants, the Ellipsis marker, a sentinel or registry value (or
// their types), or a value whose dynamic type is not comparable. These are
// caller errors and never succeed on retry.
type InvalidKeyError struct {
	Key    any
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("sentinels: invalid key %s: %s", keyString(e.Key), e.Reason)
}

// KeyConflictError reports a creation call that supplied an explicit key
// different from the key its Subscription was opened with. The caller must
// pick one way of naming the key.
type KeyConflictError struct {
	Key        any // explicit argument
	Subscribed any // key the subscription was opened with
}

func (e *KeyConflictError) Error() string {
	return fmt.Sprintf("sentinels: subscribed key %s conflicts with explicit key %s",
		keyString(e.Subscribed), keyString(e.Key))
}

// ImmutableInstanceError reports an attempted in-place mutation of a live
// sentinel, such as unmarshaling into one. Sentinels are constructed exactly
// once by their registry and never change afterwards.
type ImmutableInstanceError struct {
	Sentinel *Sentinel
}

func (e *ImmutableInstanceError) Error() string {
	return fmt.Sprintf("sentinels: cannot modify %s; decode through DecodeJSON, DecodeYAML, or Ref", e.Sentinel)
}
