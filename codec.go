package sentinels

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/sentinels/internal/log"
)

// sentinelWire is the serialized form of a sentinel: the registry name plus
// an encoded key. Decoding never reconstructs fields directly; it routes
// back through the registry's get-or-create path so that a round trip yields
// the canonical instance.
type sentinelWire struct {
	Registry string  `json:"registry" yaml:"registry"`
	Key      keyWire `json:"key" yaml:"key"`
}

type keyWire struct {
	Kind  string `json:"kind" yaml:"kind"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

func wireID(w keyWire) string { return w.Kind + ":" + w.Type + ":" + w.Value }

// typeName returns a package-qualified name for t. Type.String() alone is
// ambiguous: two packages with the same base name render their types the
// same way.
func typeName(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// encodeKey renders a key for the wire. Primitive keys are self-describing;
// type-descriptor and other keys are carried by name and resolved through
// the registry's name index on decode. Named keys carry their dynamic type
// so that two keys with equal renderings (int8(5) and int16(5), or two
// struct types with equal field values) never share a wire identity.
func encodeKey(key any) keyWire {
	switch k := key.(type) {
	case nil:
		// Never created or pinned, but Unpin-style lookups may pass it.
		return keyWire{Kind: "name", Value: keyString(key)}
	case anyKey:
		return keyWire{Kind: "any"}
	case string:
		return keyWire{Kind: "string", Value: k}
	case int:
		return keyWire{Kind: "int", Value: strconv.Itoa(k)}
	case int64:
		return keyWire{Kind: "int64", Value: strconv.FormatInt(k, 10)}
	case uint64:
		return keyWire{Kind: "uint64", Value: strconv.FormatUint(k, 10)}
	case float64:
		return keyWire{Kind: "float64", Value: strconv.FormatFloat(k, 'g', -1, 64)}
	case reflect.Type:
		return keyWire{Kind: "type", Value: typeName(k)}
	default:
		return keyWire{Kind: "name", Type: typeName(reflect.TypeOf(key)), Value: keyString(key)}
	}
}

// indexKey records a non-primitive key in the name index so the codec can
// find it again. Called from the create path, so every serializable sentinel
// has an entry by the time it can be marshaled.
func (r *Registry) indexKey(key any) {
	w := encodeKey(key)
	switch w.Kind {
	case "type", "name":
		r.names.Store(wireID(w), key)
	}
}

func (r *Registry) decodeKey(w keyWire) (any, error) {
	switch w.Kind {
	case "any":
		return Any, nil
	case "string":
		return w.Value, nil
	case "int":
		v, err := strconv.Atoi(w.Value)
		if err != nil {
			return nil, fmt.Errorf("sentinels: decode int key %q: %w", w.Value, err)
		}
		return v, nil
	case "int64":
		v, err := strconv.ParseInt(w.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sentinels: decode int64 key %q: %w", w.Value, err)
		}
		return v, nil
	case "uint64":
		v, err := strconv.ParseUint(w.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sentinels: decode uint64 key %q: %w", w.Value, err)
		}
		return v, nil
	case "float64":
		v, err := strconv.ParseFloat(w.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("sentinels: decode float64 key %q: %w", w.Value, err)
		}
		return v, nil
	case "type", "name":
		if key, ok := r.names.Load(wireID(w)); ok {
			return key, nil
		}
		return nil, fmt.Errorf("sentinels: key %q was never created in registry %q", w.Value, r.name)
	default:
		return nil, fmt.Errorf("sentinels: unknown key kind %q", w.Kind)
	}
}

func (s *Sentinel) wire() (sentinelWire, error) {
	if s == nil || s.registry == nil {
		return sentinelWire{}, fmt.Errorf("sentinels: cannot encode a zero sentinel")
	}
	return sentinelWire{Registry: s.registry.name, Key: encodeKey(s.key)}, nil
}

func fromWire(w sentinelWire) (*Sentinel, error) {
	r, ok := RegistryByName(w.Registry)
	if !ok {
		return nil, fmt.Errorf("sentinels: unknown registry %q", w.Registry)
	}
	key, err := r.decodeKey(w.Key)
	if err != nil {
		return nil, err
	}
	log.Debug(log.CatCodec, "decoded sentinel", "registry", w.Registry, "key", keyString(key))
	return r.resolve(key)
}

// MarshalJSON encodes the sentinel's wire form.
func (s *Sentinel) MarshalJSON() ([]byte, error) {
	w, err := s.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalJSON always fails with ImmutableInstanceError: decoding in place
// would mutate a live singleton. Decode through DecodeJSON or a Ref instead.
func (s *Sentinel) UnmarshalJSON([]byte) error {
	return &ImmutableInstanceError{Sentinel: s}
}

// MarshalYAML encodes the sentinel's wire form.
func (s *Sentinel) MarshalYAML() (any, error) {
	return s.wire()
}

// UnmarshalYAML always fails with ImmutableInstanceError, as UnmarshalJSON.
func (s *Sentinel) UnmarshalYAML(*yaml.Node) error {
	return &ImmutableInstanceError{Sentinel: s}
}

// DecodeJSON decodes a sentinel serialized with MarshalJSON, returning the
// canonical live instance for its key (identical, not merely equal).
func DecodeJSON(data []byte) (*Sentinel, error) {
	var w sentinelWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("sentinels: decode json: %w", err)
	}
	return fromWire(w)
}

// DecodeYAML decodes a sentinel serialized with MarshalYAML, returning the
// canonical live instance for its key.
func DecodeYAML(data []byte) (*Sentinel, error) {
	var w sentinelWire
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("sentinels: decode yaml: %w", err)
	}
	return fromWire(w)
}

// Ref is a serializable reference to a sentinel, for embedding in structs
// that go through encoding/json or yaml. Unmarshaling a Ref resolves the
// canonical instance through its registry, so identity survives the round
// trip even though the Ref value itself is replaced.
type Ref struct {
	s *Sentinel
}

// NewRef wraps a sentinel for embedding.
func NewRef(s *Sentinel) Ref { return Ref{s: s} }

// Sentinel returns the referenced sentinel, nil for an empty Ref.
func (r Ref) Sentinel() *Sentinel { return r.s }

// MarshalJSON encodes the referenced sentinel, or null for an empty Ref.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.s == nil {
		return []byte("null"), nil
	}
	return r.s.MarshalJSON()
}

// UnmarshalJSON resolves the canonical sentinel for the encoded key.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		r.s = nil
		return nil
	}
	s, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	r.s = s
	return nil
}

// MarshalYAML encodes the referenced sentinel, or null for an empty Ref.
func (r Ref) MarshalYAML() (any, error) {
	if r.s == nil {
		return nil, nil
	}
	return r.s.wire()
}

// UnmarshalYAML resolves the canonical sentinel for the encoded key.
func (r *Ref) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		r.s = nil
		return nil
	}
	var w sentinelWire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("sentinels: decode yaml: %w", err)
	}
	s, err := fromWire(w)
	if err != nil {
		return err
	}
	r.s = s
	return nil
}
