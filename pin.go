package sentinels

import (
	"time"

	"github.com/zjrosen/sentinels/internal/log"
)

// Pin resolves the singleton for key and holds a strong reference to it for
// ttl, so it cannot be reclaimed while the pin lives. A ttl <= 0 pins until
// Unpin. Pinning is how callers get "one canonical instance per key for the
// whole process" without threading the pointer everywhere themselves.
func (r *Registry) Pin(key any, ttl time.Duration) (*Sentinel, error) {
	s, err := r.resolve(key)
	if err != nil {
		return nil, err
	}
	r.pins.Set(wireID(encodeKey(key)), s, ttl)
	log.Debug(log.CatCache, "sentinel pinned", "registry", r.name, "key", keyString(key), "ttl", ttl)
	r.events.publish(EventPinned, r.name, keyString(key))
	return s, nil
}

// Unpin releases the pin for key, if one exists. The sentinel stays alive as
// long as any caller still references it.
func (r *Registry) Unpin(key any) {
	id := wireID(encodeKey(key))
	if _, ok := r.pins.Get(id); !ok {
		return
	}
	r.pins.Delete(id)
	log.Debug(log.CatCache, "sentinel unpinned", "registry", r.name, "key", keyString(key))
	r.events.publish(EventUnpinned, r.name, keyString(key))
}

// UnpinAll releases every pin in this registry.
func (r *Registry) UnpinAll() {
	r.pins.Flush()
	log.Debug(log.CatCache, "all pins released", "registry", r.name)
}

// Pinned returns the number of currently pinned sentinels.
func (r *Registry) Pinned() int { return r.pins.Len() }
