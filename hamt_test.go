package hamt

import (
	"errors"
	"math"
	"testing"
)

func TestEmptyContainer(t *testing.T) {
	h := New[string, int]()

	if h.Len() != 0 {
		t.Errorf("expected empty container to have length 0, got %d", h.Len())
	}

	if h.Contains("anything") {
		t.Errorf("expected empty container to contain nothing")
	}

	_, err := h.Lookup("missing")
	if !errors.Is(err, ErrKeyMissing) {
		t.Errorf("expected ErrKeyMissing on empty container, got %v", err)
	}
}

func TestSetAndLookup(t *testing.T) {
	h := New[string, int]()

	h1, err := h.Set("a", 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	h2, err := h1.Set("b", 2)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	val, err := h2.Lookup("a")
	if err != nil || val != 1 {
		t.Errorf("expected a=1, got %d, err %v", val, err)
	}

	val, err = h2.Lookup("b")
	if err != nil || val != 2 {
		t.Errorf("expected b=2, got %d, err %v", val, err)
	}

	if h2.Len() != 2 {
		t.Errorf("expected length 2, got %d", h2.Len())
	}

	// the original container, from before "b" was set, must be unaffected.
	if h1.Len() != 1 {
		t.Errorf("expected prior version to still have length 1, got %d", h1.Len())
	}
	if h1.Contains("b") {
		t.Errorf("expected prior version not to contain a key set on a later version")
	}
}

func TestOverwriteUpdatesValue(t *testing.T) {
	h, _ := New[string, int]().Set("a", 1)

	h2, err := h.Set("a", 99)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	val, _ := h2.Lookup("a")
	if val != 99 {
		t.Errorf("expected overwritten value 99, got %d", val)
	}
	if h2.Len() != 1 {
		t.Errorf("expected overwrite to leave length unchanged, got %d", h2.Len())
	}
}

func TestIdempotentOverwriteIsStructuralNoOp(t *testing.T) {
	h, _ := New[string, int]().Set("a", 1)

	h2, err := h.Set("a", 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if h2 != h {
		t.Errorf("expected setting a key to its current value to return the same container")
	}
}

func TestGetIsDefaulted(t *testing.T) {
	h, _ := New[string, int]().Set("a", 1)

	if got := h.Get("a", -1); got != 1 {
		t.Errorf("expected Get to return 1, got %d", got)
	}
	if got := h.Get("missing", -1); got != -1 {
		t.Errorf("expected Get to return fallback for missing key, got %d", got)
	}
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	h := New[string, int]()

	defer func() {
		if recover() == nil {
			t.Errorf("expected MustGet to panic on a missing key")
		}
	}()
	h.MustGet("missing")
}

func TestDelete(t *testing.T) {
	h, _ := New[string, int]().Set("a", 1)
	h, _ = h.Set("b", 2)
	h, _ = h.Set("c", 3)

	before := h

	after, err := h.Delete("b")
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if after.Contains("b") {
		t.Errorf("expected deleted key to be absent")
	}
	if after.Len() != 2 {
		t.Errorf("expected length 2 after delete, got %d", after.Len())
	}

	// the pre-delete version is unaffected.
	if !before.Contains("b") {
		t.Errorf("expected prior version to still contain the deleted key")
	}
	if before.Len() != 3 {
		t.Errorf("expected prior version length to remain 3, got %d", before.Len())
	}
}

func TestDeleteMissingKeyErrors(t *testing.T) {
	h, _ := New[string, int]().Set("a", 1)

	_, err := h.Delete("missing")
	if !errors.Is(err, ErrKeyMissing) {
		t.Errorf("expected ErrKeyMissing, got %v", err)
	}
}

func TestDeleteLastKeyEmptiesContainer(t *testing.T) {
	h, _ := New[string, int]().Set("a", 1)

	h, err := h.Delete("a")
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if h.Len() != 0 {
		t.Errorf("expected empty container after deleting the only key, got length %d", h.Len())
	}
	if h.Contains("a") {
		t.Errorf("expected container to no longer contain the deleted key")
	}
}

func TestIterationVisitsEveryEntry(t *testing.T) {
	want := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}

	h := New[string, int]()
	var err error
	for k, v := range want {
		h, err = h.Set(k, v)
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}
	}

	got := map[string]int{}
	for k, v := range h.Items() {
		got[k] = v
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("expected %s=%d, got %d", k, v, got[k])
		}
	}

	keyCount := 0
	for range h.Keys() {
		keyCount++
	}
	if keyCount != len(want) {
		t.Errorf("expected Keys to yield %d entries, got %d", len(want), keyCount)
	}

	valueCount := 0
	for range h.Values() {
		valueCount++
	}
	if valueCount != len(want) {
		t.Errorf("expected Values to yield %d entries, got %d", len(want), valueCount)
	}
}

func TestIterationCanStopEarly(t *testing.T) {
	h := New[string, int]()
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		h, _ = h.Set(k, i)
	}

	seen := 0
	for range h.Items() {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("expected iteration to stop after 2 entries, stopped after %d", seen)
	}
}

func TestInsertionOrderDoesNotAffectEquality(t *testing.T) {
	ascending := New[int, string]()
	descending := New[int, string]()

	var err error
	for i := 0; i < 200; i++ {
		ascending, err = ascending.Set(i, "v")
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}
	}
	for i := 199; i >= 0; i-- {
		descending, err = descending.Set(i, "v")
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}
	}

	if !ascending.Equal(descending) {
		t.Errorf("expected containers built in opposite insertion order to be equal")
	}
}

func TestLargeWorkloadRoundTrips(t *testing.T) {
	const n = 5000

	h := New[int, int]()
	var err error
	for i := 0; i < n; i++ {
		h, err = h.Set(i, i*i)
		if err != nil {
			t.Fatalf("unexpected error inserting %d: %s", i, err.Error())
		}
	}
	if h.Len() != n {
		t.Fatalf("expected length %d, got %d", n, h.Len())
	}

	for i := 0; i < n; i++ {
		val, err := h.Lookup(i)
		if err != nil {
			t.Fatalf("unexpected error looking up %d: %s", i, err.Error())
		}
		if val != i*i {
			t.Errorf("expected %d -> %d, got %d", i, i*i, val)
		}
	}

	for i := 0; i < n; i += 2 {
		h, err = h.Delete(i)
		if err != nil {
			t.Fatalf("unexpected error deleting %d: %s", i, err.Error())
		}
	}
	if h.Len() != n/2 {
		t.Fatalf("expected length %d after deleting evens, got %d", n/2, h.Len())
	}
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			if h.Contains(i) {
				t.Errorf("expected %d to be deleted", i)
			}
		} else if !h.Contains(i) {
			t.Errorf("expected %d to remain", i)
		}
	}

	if err := h.Validate(); err != nil {
		t.Errorf("expected a structurally sound trie after a large mixed workload, got %s", err.Error())
	}
}

func TestValidatePassesOnEmptyAndPopulatedContainers(t *testing.T) {
	if err := New[string, int]().Validate(); err != nil {
		t.Errorf("expected an empty container to validate, got %s", err.Error())
	}

	h := New[string, int]()
	var err error
	for i, k := range []string{"a", "b", "c", "d", "e", "f"} {
		h, err = h.Set(k, i)
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Error())
		}
	}
	if err := h.Validate(); err != nil {
		t.Errorf("expected a populated container to validate, got %s", err.Error())
	}
}

func TestUnhashableKeyPropagatesError(t *testing.T) {
	h := New[float64, string]()

	_, err := h.Set(math.NaN(), "x")
	if !errors.Is(err, ErrUnhashableKey) {
		t.Errorf("expected ErrUnhashableKey setting a NaN key, got %v", err)
	}

	_, err = h.Lookup(math.NaN())
	if !errors.Is(err, ErrUnhashableKey) {
		t.Errorf("expected ErrUnhashableKey looking up a NaN key, got %v", err)
	}
}

func TestUnhashableKeyPanicsThroughGetAndContains(t *testing.T) {
	h := New[float64, string]()

	func() {
		defer func() {
			recovered := recover()
			if recovered == nil {
				t.Errorf("expected Get to panic on a NaN key rather than return the fallback")
				return
			}
			if err, ok := recovered.(error); !ok || !errors.Is(err, ErrUnhashableKey) {
				t.Errorf("expected the panic value to wrap ErrUnhashableKey, got %v", recovered)
			}
		}()
		h.Get(math.NaN(), "fallback")
	}()

	func() {
		defer func() {
			recovered := recover()
			if recovered == nil {
				t.Errorf("expected Contains to panic on a NaN key rather than report absence")
				return
			}
			if err, ok := recovered.(error); !ok || !errors.Is(err, ErrUnhashableKey) {
				t.Errorf("expected the panic value to wrap ErrUnhashableKey, got %v", recovered)
			}
		}()
		h.Contains(math.NaN())
	}()
}

func TestOfBuildsFromPairs(t *testing.T) {
	h, err := Of([]Pair[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
		{Key: "a", Value: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	if h.Len() != 2 {
		t.Errorf("expected 2 entries (later duplicate wins), got %d", h.Len())
	}
	if val := h.Get("a", -1); val != 3 {
		t.Errorf("expected a=3, got %d", val)
	}
}

func TestFromMapRoundTrips(t *testing.T) {
	src := map[string]int{"a": 1, "b": 2, "c": 3}

	h, err := FromMap(src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if h.Len() != len(src) {
		t.Fatalf("expected length %d, got %d", len(src), h.Len())
	}
	for k, v := range src {
		if got := h.Get(k, -1); got != v {
			t.Errorf("expected %s=%d, got %d", k, v, got)
		}
	}
}

func TestStringRendersEmptyAndPopulated(t *testing.T) {
	empty := New[string, int]()
	if got := empty.String(); got != "HAMT({})" {
		t.Errorf(`expected "HAMT({})" for an empty container, got %q`, got)
	}

	h, _ := New[string, int]().Set("a", 1)
	if got := h.String(); got != "HAMT({a: 1})" {
		t.Errorf(`expected "HAMT({a: 1})", got %q`, got)
	}
}
