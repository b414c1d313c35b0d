package respcache

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(max int) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	return NewWithOptions(DefaultTTL, max, clock.now), clock
}

func TestGetAfterSetReturnsDataUnchanged(t *testing.T) {
	c, _ := newTestCache(DefaultMaxEntries)
	params := map[string]string{"subject": "Algebra"}
	data := json.RawMessage(`{"lessons":[{"title":"Linear equations"}]}`)

	c.Set("lesson-plan", params, data)

	got, ok := c.Get("lesson-plan", params)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != string(data) {
		t.Fatalf("data changed: %s", got)
	}
}

func TestMissOnUnknownKey(t *testing.T) {
	c, _ := newTestCache(DefaultMaxEntries)
	if _, ok := c.Get("lesson-plan", map[string]string{"subject": "Algebra"}); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestExpiryDeletesLazily(t *testing.T) {
	c, clock := newTestCache(DefaultMaxEntries)
	params := map[string]string{"subject": "Algebra"}
	c.Set("lesson-plan", params, json.RawMessage(`{}`))

	clock.advance(DefaultTTL - time.Second)
	if _, ok := c.Get("lesson-plan", params); !ok {
		t.Fatal("expected hit just before TTL")
	}

	clock.advance(2 * time.Second)
	if _, ok := c.Get("lesson-plan", params); ok {
		t.Fatal("expected miss after TTL")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not deleted, len=%d", c.Len())
	}
}

func TestCapacityBound(t *testing.T) {
	c, _ := newTestCache(DefaultMaxEntries)
	for i := 0; i < DefaultMaxEntries+1; i++ {
		c.Set("lesson-content", map[string]int{"i": i}, json.RawMessage(`{}`))
	}
	if c.Len() > DefaultMaxEntries {
		t.Fatalf("cache exceeded bound: %d", c.Len())
	}
}

func TestOverflowEvictsOldestInserted(t *testing.T) {
	c, _ := newTestCache(3)
	for i := 0; i < 3; i++ {
		c.Set("q", map[string]int{"i": i}, json.RawMessage(fmt.Sprintf(`{"i":%d}`, i)))
	}
	c.Set("q", map[string]int{"i": 3}, json.RawMessage(`{"i":3}`))

	if _, ok := c.Get("q", map[string]int{"i": 0}); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	for i := 1; i <= 3; i++ {
		if _, ok := c.Get("q", map[string]int{"i": i}); !ok {
			t.Fatalf("entry %d should still be resident", i)
		}
	}
}

func TestSetExistingKeyDoesNotEvict(t *testing.T) {
	c, _ := newTestCache(2)
	c.Set("q", map[string]int{"i": 0}, json.RawMessage(`{"v":"a"}`))
	c.Set("q", map[string]int{"i": 1}, json.RawMessage(`{"v":"b"}`))

	// Overwrite; both keys must survive.
	c.Set("q", map[string]int{"i": 0}, json.RawMessage(`{"v":"c"}`))

	got, ok := c.Get("q", map[string]int{"i": 0})
	if !ok || string(got) != `{"v":"c"}` {
		t.Fatalf("overwrite not applied: %s", got)
	}
	if _, ok := c.Get("q", map[string]int{"i": 1}); !ok {
		t.Fatal("sibling entry evicted on overwrite")
	}
}

func TestClearType(t *testing.T) {
	c, _ := newTestCache(DefaultMaxEntries)
	c.Set("lesson-plan", map[string]string{"subject": "Algebra"}, json.RawMessage(`{}`))
	c.Set("tutor-response", map[string]string{"subject": "Algebra"}, json.RawMessage(`{}`))

	c.ClearType("lesson-plan")

	if _, ok := c.Get("lesson-plan", map[string]string{"subject": "Algebra"}); ok {
		t.Fatal("cleared type still resident")
	}
	if _, ok := c.Get("tutor-response", map[string]string{"subject": "Algebra"}); !ok {
		t.Fatal("other type should survive ClearType")
	}
}

func TestKeyLowercasesAndTruncates(t *testing.T) {
	long := strings.Repeat("A", 300)
	key := Key("quiz", map[string]string{"topic": long})
	if len(key) > len("quiz:")+keyParamLimit {
		t.Fatalf("key not truncated: %d chars", len(key))
	}
	if key != strings.ToLower(key) {
		t.Fatal("key not lowercased")
	}
}
