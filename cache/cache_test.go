package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/petrimine/petrimine/eventlog"
	"github.com/petrimine/petrimine/mining"
)

func sampleLog(activities ...string) *eventlog.EventLog {
	log := eventlog.NewEventLog()
	log.AddTrace(activities)
	return log
}

func TestHashLogIgnoresOrderAndIDs(t *testing.T) {
	a := eventlog.NewEventLog()
	a.AddTrace([]string{"A", "B"})
	a.AddTrace([]string{"A", "C"})

	b := eventlog.NewEventLog()
	b.AddTrace([]string{"A", "C"})
	b.AddTrace([]string{"A", "B"})

	if HashLog(a) != HashLog(b) {
		t.Error("Trace order changed the log hash")
	}
}

func TestHashLogDistinguishesCounts(t *testing.T) {
	once := sampleLog("A", "B")

	twice := eventlog.NewEventLog()
	twice.AddTrace([]string{"A", "B"})
	twice.AddTrace([]string{"A", "B"})

	if HashLog(once) == HashLog(twice) {
		t.Error("Variant counts did not affect the log hash")
	}
}

func TestGetPut(t *testing.T) {
	c := NewDiscoveryCache(10)
	log := sampleLog("A", "B")

	if c.Get(log) != nil {
		t.Error("Expected miss on empty cache")
	}

	result, err := mining.Discover(log)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	c.Put(log, result)

	if got := c.Get(log); got != result {
		t.Error("Expected the cached result back")
	}
	if c.Size() != 1 {
		t.Errorf("Expected size 1, got %d", c.Size())
	}
}

func TestGetOrDiscover(t *testing.T) {
	c := NewDiscoveryCache(10)
	log := sampleLog("A", "B", "C")

	first, err := c.GetOrDiscover(log, mining.PlaceOptions{})
	if err != nil {
		t.Fatalf("GetOrDiscover failed: %v", err)
	}
	second, err := c.GetOrDiscover(log, mining.PlaceOptions{})
	if err != nil {
		t.Fatalf("GetOrDiscover failed: %v", err)
	}

	if first != second {
		t.Error("Second call did not return the cached result")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("Expected hit rate 0.5, got %f", stats.HitRate)
	}
}

func TestGetOrDiscoverPropagatesError(t *testing.T) {
	c := NewDiscoveryCache(10)
	log := eventlog.NewEventLog()
	log.AddTrace([]string{"A", "B", "D"})
	log.AddTrace([]string{"A", "C", "D"})

	_, err := c.GetOrDiscover(log, mining.PlaceOptions{MaxCandidates: 1})
	if !errors.Is(err, mining.ErrEnumerationBudget) {
		t.Errorf("Expected ErrEnumerationBudget, got %v", err)
	}
	if c.Size() != 0 {
		t.Error("Failed discovery must not be cached")
	}
}

func TestEviction(t *testing.T) {
	c := NewDiscoveryCache(2)

	for i := 0; i < 3; i++ {
		log := sampleLog("A", fmt.Sprintf("B%d", i))
		result, err := mining.Discover(log)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		c.Put(log, result)
	}

	if c.Size() != 2 {
		t.Errorf("Expected size capped at 2, got %d", c.Size())
	}
	if evictions := c.Stats().Evictions; evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", evictions)
	}
}

func TestClear(t *testing.T) {
	c := NewDiscoveryCache(10)
	log := sampleLog("A", "B")
	result, err := mining.Discover(log)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	c.Put(log, result)

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Expected empty cache after Clear, got size %d", c.Size())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewDiscoveryCache(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log := sampleLog("A", fmt.Sprintf("B%d", i%4))
			for j := 0; j < 20; j++ {
				if _, err := c.GetOrDiscover(log, mining.PlaceOptions{}); err != nil {
					t.Errorf("GetOrDiscover failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Size() != 4 {
		t.Errorf("Expected 4 distinct entries, got %d", c.Size())
	}
}
