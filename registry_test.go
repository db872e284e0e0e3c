package sentinels

import (
	"context"
	"reflect"
	"runtime"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/require"
)

func TestRegistry_DefaultIsProcessWide(t *testing.T) {
	require.Same(t, Default(), Default())
	require.Same(t, Default(), NewRegistry(""))
	require.Same(t, Default(), NewRegistry("Sentinel"))
}

func TestRegistry_NewRegistryIsIdempotentPerName(t *testing.T) {
	r1 := NewRegistry("idempotent-test")
	r2 := NewRegistry("idempotent-test")
	r3 := NewRegistry("idempotent-test-other")

	require.Same(t, r1, r2)
	require.NotSame(t, r1, r3)
	require.Equal(t, "idempotent-test", r1.Name())
	require.NotEmpty(t, r1.ID())
	require.NotEqual(t, r1.ID(), r3.ID())
}

func TestRegistry_IndependenceAcrossRegistries(t *testing.T) {
	base, err := New(KeyOf[string]())
	require.NoError(t, err)

	sub := NewRegistry("independence-test")
	other, err := sub.New(KeyOf[string]())
	require.NoError(t, err)

	require.NotSame(t, base, other)
	require.Equal(t, base.Key(), other.Key())

	// Each registry still deduplicates internally.
	again, err := sub.New(KeyOf[string]())
	require.NoError(t, err)
	require.Same(t, other, again)
}

func TestRegistry_RegistryByName(t *testing.T) {
	r := NewRegistry("by-name-test")

	got, ok := RegistryByName("by-name-test")
	require.True(t, ok)
	require.Same(t, r, got)

	_, ok = RegistryByName("never-created")
	require.False(t, ok)
}

func TestRegistry_InvalidKeys(t *testing.T) {
	r := NewRegistry("invalid-key-test")
	existing, err := r.New("valid")
	require.NoError(t, err)

	invalid := []any{
		nil,
		true,
		false,
		Ellipsis,
		existing,
		*existing,
		r,
		reflect.TypeOf(Sentinel{}),
		reflect.TypeOf(&Sentinel{}),
		reflect.TypeOf(Registry{}),
		func() {}, // not comparable
		[]int{1},  // not comparable
	}
	for _, key := range invalid {
		_, err := r.New(key)
		var invalidKey *InvalidKeyError
		require.ErrorAs(t, err, &invalidKey, "key %v should be rejected", key)
	}
}

func TestRegistry_TooManyKeys(t *testing.T) {
	_, err := New("a", "b")
	var invalidKey *InvalidKeyError
	require.ErrorAs(t, err, &invalidKey)
}

func TestRegistry_CustomComparableKeys(t *testing.T) {
	type marker struct{ name string }

	s1, err := New(marker{name: "a"})
	require.NoError(t, err)
	s2, err := New(marker{name: "a"})
	require.NoError(t, err)
	s3, err := New(marker{name: "b"})
	require.NoError(t, err)

	require.Same(t, s1, s2)
	require.NotSame(t, s1, s3)
}

func TestRegistry_Len(t *testing.T) {
	r := NewRegistry("len-test")
	require.Equal(t, 0, r.Len())

	s1, err := r.New("one")
	require.NoError(t, err)
	s2, err := r.New("two")
	require.NoError(t, err)

	require.Equal(t, 2, r.Len())
	runtime.KeepAlive(s1)
	runtime.KeepAlive(s2)
}

func TestRegistry_WeakCleanupAllowsRecreation(t *testing.T) {
	r := NewRegistry("weak-cleanup-test")

	create := func() string {
		s, err := r.New("transient")
		require.NoError(t, err)
		return s.String()
	}
	require.Equal(t, "<Sentinel: transient>", create())

	// With no strong references left the entry may be reclaimed at any
	// point. Nudge the collector and wait for the weak entry to clear.
	require.Eventually(t, func() bool {
		runtime.GC()
		return r.Len() == 0
	}, 5*time.Second, 10*time.Millisecond, "unreferenced sentinel should leave the cache")

	// A later request must still succeed and satisfy every invariant; it is
	// allowed to be a brand-new instance.
	s, err := r.New("transient")
	require.NoError(t, err)
	require.True(t, Is(s))
	require.True(t, s.IsZero())
	require.Equal(t, "transient", s.Key())

	again, err := r.New("transient")
	require.NoError(t, err)
	require.Same(t, s, again)
}

func TestRegistry_StaleCleanupDoesNotAnnounceLiveSentinel(t *testing.T) {
	r := NewRegistry("stale-cleanup-test")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := r.Events(ctx)

	s, err := r.New("contested")
	require.NoError(t, err)
	waitForEvent(t, ch, EventCreated)

	// A cleanup whose weak pointer no longer owns the cache entry must
	// neither remove it nor announce a reclamation.
	r.reclaim("contested", weak.Pointer[Sentinel]{})

	again, err := r.New("contested")
	require.NoError(t, err)
	require.Same(t, s, again)

	select {
	case ev := <-ch:
		require.Failf(t, "unexpected event", "got %v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegistry_SingletonHoldsWhileReferenced(t *testing.T) {
	r := NewRegistry("hold-test")

	held, err := r.New("held")
	require.NoError(t, err)

	for range 10 {
		runtime.GC()
		s, err := r.New("held")
		require.NoError(t, err)
		require.Same(t, held, s)
	}
}
