//go:build test

package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"testing"

	"github.com/bastiangx/linkmatch/pkg/connector"
	"github.com/bastiangx/linkmatch/pkg/fastmatch"
	"github.com/bastiangx/linkmatch/pkg/search"
)

func heapDelta(baseline runtime.MemStats) int64 {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return int64(m.Alloc) - int64(baseline.Alloc)
}

func baseline() (runtime.MemStats, int) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return m, runtime.NumGoroutine()
}

func TestMemoryLeakQueries(t *testing.T) {
	for _, iterations := range []int{100, 1000, 5000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			s := corpus(t, 4)[3]
			m := fastmatch.New(s, fastmatch.WithLogger(quiet))
			defer m.Free()
			rc := connector.New(s.Table.MustIntern("M"))

			base, goroutines := baseline()
			for i := 0; i < iterations; i++ {
				for w := 0; w+1 < s.Len(); w++ {
					release := m.Scope()
					m.Each(m.FormMatchList(w, nil, 0, rc, s.Len()-1), func(fastmatch.Match) bool { return true })
					release()
				}
			}
			ops := iterations * (s.Len() - 1)
			delta := heapDelta(base)
			perOp := float64(delta) / float64(ops)
			t.Logf("iterations=%d ops=%d mem_delta=%d bytes mem_per_op=%.2f arena_high=%d",
				iterations, ops, delta, perOp, m.Stats().ArenaHighWater)

			if perOp > 100 {
				t.Errorf("excessive memory usage per query: %.2f bytes", perOp)
			}
			if m.Stats().ArenaGrows != 0 {
				t.Errorf("arena grew %d times for lists under its initial size", m.Stats().ArenaGrows)
			}
			if d := runtime.NumGoroutine() - goroutines; d > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", d)
			}
		})
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	memFile, err := os.Create("concurrent_memory.prof")
	if err != nil {
		t.Fatalf("profile file creation failed: %v", err)
	}
	defer func() {
		memFile.Close()
		os.Remove("concurrent_memory.prof")
	}()

	sents := corpus(t, 64)
	base, goroutines := baseline()
	for _, workers := range []int{1, 2, 4, 8} {
		if _, err := CountAll(context.Background(), sents, workers, fastmatch.WithLogger(quiet)); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
	}
	delta := heapDelta(base)
	d := runtime.NumGoroutine() - goroutines
	t.Logf("sentences=%d mem_delta=%d bytes goroutine_delta=%d", len(sents), delta, d)

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		t.Errorf("heap profile write failed: %v", err)
	}
	if d > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", d)
	}
	if delta > 1<<20 {
		t.Errorf("memory retained after batches: %d bytes", delta)
	}
}

func TestMemoryStabilityReset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running memory stability test in short mode")
	}

	sents := corpus(t, 16)
	m := fastmatch.New(sents[0], fastmatch.WithLogger(quiet))
	defer m.Free()
	c := search.NewCounter(m).WithLogger(quiet)

	base, _ := baseline()
	var maxDelta int64
	for cycle := 0; cycle < 50; cycle++ {
		for _, s := range sents {
			m.Reset(s)
			c.Reset()
			if _, err := c.Count(context.Background()); err != nil {
				t.Fatal(err)
			}
		}
		if cycle%10 == 0 {
			delta := heapDelta(base)
			maxDelta = max(maxDelta, delta)
			t.Logf("cycle=%d mem_delta=%d bytes slab=%d", cycle, delta, m.Stats().SlabCapacity)
		}
	}
	if maxDelta > 10*1024*1024 {
		t.Errorf("excessive peak memory usage: %d bytes", maxDelta)
	}
}
