// Package sentinels provides singleton placeholder values keyed by an opaque
// descriptor, for use as "no value supplied yet" defaults.
//
// A Sentinel is immutable and unique per (registry, key) pair for as long as
// at least one strong reference to it is held. The registry keeps only weak
// references, so an unreferenced sentinel is eventually reclaimed and a later
// request for the same key may allocate a fresh instance. Callers that need
// one canonical instance for the life of the process should hold it in a
// package-level variable, or use Registry.Pin.
//
// Typical usage:
//
//	var missing = sentinels.For[string]()
//
//	func Greet(name any) string {
//	    if sentinels.IsFor[string](name) {
//	        name = "world"
//	    }
//	    return fmt.Sprintf("hello, %v", name)
//	}
//
// Keys are treated as opaque comparable values; the package never inspects
// their structure beyond equality and hashing. KeyOf[T] produces a
// type-descriptor key for when the sentinel stands in for a value of a
// specific type.
package sentinels
