package sentinels

import (
	"fmt"
	"reflect"
)

// anyKey is the type of the Any marker.
type anyKey struct{}

func (anyKey) String() string { return "any" }

// ellipsisKey is the type of the Ellipsis marker.
type ellipsisKey struct{}

func (ellipsisKey) String() string { return "..." }

// Any is the unconstrained key. A creation call with no key at all resolves
// to it, standing in for "a value of no particular type".
var Any = anyKey{}

// Ellipsis is a reserved placeholder token. It exists so that code passing
// placeholder-ish values around has a named marker to reach for, and it is
// deliberately rejected as a sentinel key: a sentinel for "the placeholder"
// collides with everything.
var Ellipsis = ellipsisKey{}

// KeyOf returns the type-descriptor key for T. Sentinels created with it
// stand in for a missing value of type T:
//
//	s, _ := sentinels.New(sentinels.KeyOf[io.Reader]())
func KeyOf[T any]() any {
	return reflect.TypeOf((*T)(nil)).Elem()
}

var (
	sentinelType = reflect.TypeOf(Sentinel{})
	registryType = reflect.TypeOf(Registry{})
)

// validateKey enforces the reserved-key policy. The disallowed keys are
// enumerated here exactly: nil, true, false, Ellipsis, any sentinel or
// registry value, the Sentinel and Registry types themselves, and any value
// whose dynamic type is not comparable (keys are map keys).
func validateKey(key any) error {
	switch k := key.(type) {
	case nil:
		return &InvalidKeyError{Key: key, Reason: "key must not be nil"}
	case bool:
		return &InvalidKeyError{Key: key, Reason: "boolean constants are reserved"}
	case ellipsisKey:
		return &InvalidKeyError{Key: key, Reason: "the Ellipsis marker is reserved"}
	case *Sentinel, Sentinel:
		return &InvalidKeyError{Key: key, Reason: "a sentinel cannot key another sentinel"}
	case *Registry, Registry:
		return &InvalidKeyError{Key: key, Reason: "a registry cannot be a key"}
	case reflect.Type:
		switch k {
		case sentinelType, registryType,
			reflect.PointerTo(sentinelType), reflect.PointerTo(registryType):
			return &InvalidKeyError{Key: key, Reason: "the sentinel and registry types are reserved"}
		}
	}
	if t := reflect.TypeOf(key); !t.Comparable() {
		return &InvalidKeyError{Key: key, Reason: fmt.Sprintf("key type %s is not comparable", t)}
	}
	return nil
}

// keyString renders a key for messages, log fields, and the codec name index.
func keyString(key any) string {
	switch k := key.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return k.String()
	case fmt.Stringer:
		return k.String()
	case string:
		return k
	default:
		return fmt.Sprintf("%v", k)
	}
}
