package sentinels

// Is reports whether v is a live sentinel instance.
func Is(v any) bool {
	_, ok := v.(*Sentinel)
	return ok
}

// IsKeyed reports whether v is a sentinel whose key equals key.
func IsKeyed(v any, key any) bool {
	s, ok := v.(*Sentinel)
	return ok && s.key == key
}

// IsFor reports whether v is a sentinel for the type-descriptor key of T:
//
//	sentinels.IsFor[string](v)
func IsFor[T any](v any) bool {
	return IsKeyed(v, KeyOf[T]())
}
