package closure

import (
	"context"
	"strings"
	"testing"

	"standalone/internal/corpus"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := newLRUCache[string, string](2, func(v string) { evicted = append(evicted, v) })

	c.Put("a", "A")
	c.Put("b", "B")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	c.Put("c", "C")

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if len(evicted) != 1 || evicted[0] != "B" {
		t.Fatalf("unexpected evictions %v", evicted)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestLRUCacheReplaceRunsEvictionHook(t *testing.T) {
	var evicted []int
	c := newLRUCache[string, int](4, func(v int) { evicted = append(evicted, v) })

	c.Put("a", 1)
	c.Put("a", 2)

	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Fatalf("expected replaced value 2, got %d (ok=%v)", v, ok)
	}
	if len(evicted) != 1 || evicted[0] != 1 {
		t.Fatalf("expected the replaced value to be evicted, got %v", evicted)
	}
}

func TestLRUCacheClearRunsEvictionHook(t *testing.T) {
	count := 0
	c := newLRUCache[string, int](4, func(int) { count++ })

	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()

	if count != 2 {
		t.Fatalf("expected 2 evictions, got %d", count)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestInvalidateUnitRefreshesSingleTree(t *testing.T) {
	d := newTestDriver(t, map[string]string{
		"lib.py": "def f():\n    return 1\n",
	}, []string{"lib.py"})

	res, err := d.Extract(context.Background(), "f")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(res.Snippet, "return 1") {
		t.Fatalf("unexpected snippet:\n%s", res.Snippet)
	}

	// New content alone is not enough: the old tree is still cached.
	d.corpus.Add(corpus.NewUnit("lib.py", []byte("def f():\n    return 2\n")))
	res, err = d.Extract(context.Background(), "f")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(res.Snippet, "return 1") {
		t.Fatalf("expected stale cached tree, got:\n%s", res.Snippet)
	}

	d.InvalidateUnit("lib.py")
	res, err = d.Extract(context.Background(), "f")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !strings.Contains(res.Snippet, "return 2") {
		t.Fatalf("expected refreshed tree, got:\n%s", res.Snippet)
	}
}
