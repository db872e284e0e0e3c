package sentinels

import (
	"context"
	"runtime"
	"sync"
	"weak"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/sentinels/internal/cachemanager"
	"github.com/zjrosen/sentinels/internal/log"
)

const (
	defaultRegistryName = "Sentinel"
	instrumentationName = "github.com/zjrosen/sentinels"
)

// registries maps registry name to its single *Registry. A name identifies
// one registry for the life of the process so that the codec can route
// decoded sentinels back to the cache they came from.
var registries sync.Map

var defaultRegistry = NewRegistry(defaultRegistryName)

// Registry owns the weak cache of sentinels for one namespace. Distinct
// registries never share instances: a sentinel for key K in one registry is
// never the sentinel for K in another. All methods are safe for concurrent
// use.
type Registry struct {
	name string
	id   string

	// mu guards only the create path; lookups go straight at the cache.
	mu    sync.Mutex
	cache sync.Map // key any -> weak.Pointer[Sentinel]

	// names maps wire identifiers back to key values for the codec.
	// It holds keys, never sentinels, so it cannot extend a sentinel's life.
	names sync.Map // string -> any

	pins   *cachemanager.Cache[*Sentinel]
	events *broker
}

// NewRegistry returns the registry with the given name, creating it on first
// use. Calling it twice with the same name yields the same registry; the
// empty name means the default registry.
func NewRegistry(name string) *Registry {
	if name == "" {
		name = defaultRegistryName
	}
	if v, ok := registries.Load(name); ok {
		return v.(*Registry)
	}
	r := &Registry{
		name:   name,
		id:     uuid.NewString(),
		pins:   cachemanager.New[*Sentinel]("pins/"+name, 0),
		events: newBroker(),
	}
	if v, loaded := registries.LoadOrStore(name, r); loaded {
		return v.(*Registry)
	}
	return r
}

// Default returns the process-wide base registry.
func Default() *Registry { return defaultRegistry }

// RegistryByName reports the registry registered under name, if any.
func RegistryByName(name string) (*Registry, bool) {
	v, ok := registries.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Registry), true
}

// Name returns the registry's name.
func (r *Registry) Name() string { return r.name }

// ID returns the registry's unique instance identifier.
func (r *Registry) ID() string { return r.id }

// New returns the singleton sentinel for the given key, creating it if no
// live instance exists. With no arguments the key is Any; more than one
// argument is an error. The returned pointer is identical across all calls
// that resolve to the same key, for as long as any caller keeps it alive.
func (r *Registry) New(keys ...any) (*Sentinel, error) {
	switch len(keys) {
	case 0:
		return r.resolve(Any)
	case 1:
		return r.resolve(keys[0])
	default:
		return nil, &InvalidKeyError{Key: keys, Reason: "at most one key may be supplied"}
	}
}

// New returns the default registry's singleton for the given key.
func New(keys ...any) (*Sentinel, error) {
	return defaultRegistry.New(keys...)
}

// For returns the default registry's sentinel for the type-descriptor key of
// T. It panics only when T is one of the reserved types; for any ordinary T
// it cannot fail:
//
//	var missing = sentinels.For[io.Reader]()
func For[T any]() *Sentinel {
	s, err := defaultRegistry.resolve(KeyOf[T]())
	if err != nil {
		panic(err)
	}
	return s
}

// resolve validates the key and runs get-or-create.
func (r *Registry) resolve(key any) (*Sentinel, error) {
	if err := validateKey(key); err != nil {
		log.Debug(log.CatRegistry, "key rejected", "registry", r.name, "key", keyString(key))
		return nil, err
	}
	// Fast path, no lock. A hit can only race with reclamation, never with
	// an overwrite: entries for a key are only replaced after the previous
	// instance is unreachable.
	if s, ok := r.lookup(key); ok {
		return s, nil
	}
	return r.create(key)
}

// lookup reports the live sentinel for key, if the weak entry still points
// at one.
func (r *Registry) lookup(key any) (*Sentinel, bool) {
	v, ok := r.cache.Load(key)
	if !ok {
		return nil, false
	}
	s := v.(weak.Pointer[Sentinel]).Value()
	return s, s != nil
}

// create allocates the sentinel for key under the creation lock. The second
// lookup is required: any number of goroutines may race past the unlocked
// fast path before one of them inserts the entry.
func (r *Registry) create(key any) (*Sentinel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.lookup(key); ok {
		return s, nil
	}

	_, span := otel.Tracer(instrumentationName).Start(context.Background(), "sentinels.create",
		trace.WithAttributes(
			attribute.String("registry.name", r.name),
			attribute.String("registry.id", r.id),
			attribute.String("key", keyString(key)),
		))
	defer span.End()

	s := &Sentinel{registry: r, key: key}
	ptr := weak.Make(s)
	r.cache.Store(key, ptr)
	r.indexKey(key)
	span.AddEvent("weak entry stored")
	// The cleanup must not capture s, or s would never become unreachable.
	runtime.AddCleanup(s, func(k any) { r.reclaim(k, ptr) }, key)

	log.Debug(log.CatRegistry, "sentinel created", "registry", r.name, "key", keyString(key))
	r.events.publish(EventCreated, r.name, keyString(key))
	return s, nil
}

// reclaim runs after a sentinel becomes unreachable. The pointer comparison
// keeps a late cleanup from deleting a newer entry created for the same key
// in the meantime; such a stale cleanup removes nothing and announces
// nothing, since the key's current sentinel is live.
func (r *Registry) reclaim(key any, ptr weak.Pointer[Sentinel]) {
	v, ok := r.cache.Load(key)
	if !ok || v.(weak.Pointer[Sentinel]) != ptr || !r.cache.CompareAndDelete(key, v) {
		return
	}
	log.Debug(log.CatCache, "sentinel reclaimed", "registry", r.name, "key", keyString(key))
	r.events.publish(EventReclaimed, r.name, keyString(key))
}

// Len counts the live sentinels currently in the cache.
func (r *Registry) Len() int {
	n := 0
	r.cache.Range(func(_, v any) bool {
		if v.(weak.Pointer[Sentinel]).Value() != nil {
			n++
		}
		return true
	})
	return n
}

// Events returns a stream of lifecycle events for this registry. The channel
// closes when ctx is cancelled. Delivery is best-effort: a slow consumer
// loses events rather than stalling creation.
func (r *Registry) Events(ctx context.Context) <-chan Event {
	return r.events.subscribe(ctx)
}
