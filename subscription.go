package sentinels

// Subscription is the two-step way of naming a key: open a subscription for
// the key first, then create from it. It exists for call sites that want to
// declare the key once and construct in several places:
//
//	sub := sentinels.Subscribe(sentinels.KeyOf[string]())
//	s, err := sub.New()
//
// A Subscription is immutable and carries its own key, so concurrent use
// needs no external synchronization. A creation call through a subscription
// that also passes a different explicit key fails with KeyConflictError.
type Subscription struct {
	registry *Registry
	key      any
}

// Subscribe opens a subscription for key on this registry. The key is not
// validated until a creation call.
func (r *Registry) Subscribe(key any) *Subscription {
	return &Subscription{registry: r, key: key}
}

// Subscribe opens a subscription for key on the default registry.
func Subscribe(key any) *Subscription {
	return defaultRegistry.Subscribe(key)
}

// Key returns the key this subscription was opened with.
func (s *Subscription) Key() any { return s.key }

// Registry returns the registry this subscription creates into.
func (s *Subscription) Registry() *Registry { return s.registry }

// New resolves the subscription to its singleton. An explicit key argument
// is allowed only when it equals the subscribed key; anything else is a
// KeyConflictError, signaling that the caller mixed two inconsistent ways of
// naming the key in one call.
func (s *Subscription) New(keys ...any) (*Sentinel, error) {
	switch len(keys) {
	case 0:
		return s.registry.resolve(s.key)
	case 1:
		if err := validateKey(keys[0]); err != nil {
			return nil, err
		}
		if err := validateKey(s.key); err != nil {
			return nil, err
		}
		if keys[0] != s.key {
			return nil, &KeyConflictError{Key: keys[0], Subscribed: s.key}
		}
		return s.registry.resolve(s.key)
	default:
		return nil, &InvalidKeyError{Key: keys, Reason: "at most one key may be supplied"}
	}
}
