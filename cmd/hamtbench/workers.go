package main

import (
	"context"
	"sync"
	"time"

	"github.com/sixfold/hamt"
)

// readJob is one concurrent lookup against a shared, already-built snapshot.
// Every reader shares the same *hamt.HAMT without any lock: a persistent
// container is never mutated after a Set/Delete call returns, so concurrent
// readers need no coordination at all — unlike a mutable map, which would
// need a sync.RWMutex around exactly this loop.
type readJob struct {
	key int
}

type readResult struct {
	key   int
	value int
	found bool
}

// readerPool runs a fixed number of goroutines pulling lookup jobs off a
// shared channel until it's closed or the context is cancelled.
type readerPool struct {
	workerCount int
	jobs        chan readJob
	results     chan readResult
}

func newReaderPool(workerCount int) *readerPool {
	return &readerPool{
		workerCount: workerCount,
		jobs:        make(chan readJob, workerCount),
		results:     make(chan readResult, workerCount),
	}
}

// run feeds every key in keys through the pool against snapshot and blocks
// until all lookups have completed, returning the elapsed wall time.
func (p *readerPool) run(ctx context.Context, snapshot *hamt.HAMT[int, int], keys []int) time.Duration {
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < p.workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					val, found := func() (int, bool) {
						v, err := snapshot.Lookup(job.key)
						return v, err == nil
					}()
					p.results <- readResult{key: job.key, value: val, found: found}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		for _, k := range keys {
			p.jobs <- readJob{key: k}
		}
		close(p.jobs)
	}()

	go func() {
		wg.Wait()
		close(p.results)
	}()

	drained := 0
	for range p.results {
		drained++
	}

	_ = drained
	return time.Since(start)
}

// benchmarkConcurrentReads fans workerCount goroutines out over the same
// snapshot to show that read throughput scales with readers, since there is
// no lock in the read path to contend on.
func benchmarkConcurrentReads(tier sizeTier, workerCount int) phaseResult {
	h := hamt.New[int, int]()
	var err error
	for i := 0; i < tier.insertions; i++ {
		h, err = h.Set(i, i)
		if err != nil {
			cLog.Error("concurrent read phase setup failed:", err.Error())
		}
	}

	keys := make([]int, tier.lookups)
	for i := range keys {
		keys[i] = i % tier.insertions
	}

	pool := newReaderPool(workerCount)
	elapsed := pool.run(context.Background(), h, keys)

	return phaseResult{name: "concurrent reads", trieElapsed: elapsed, mapElapsed: 0, opCount: tier.lookups}
}
