package main

import (
	"fmt"
	"time"

	"github.com/sixfold/hamt"
	"github.com/sixfold/hamt/hash"
)

// sizeTier mirrors the small/medium/large tiers a workload generator would
// use to scale a run up or down: each phase's op count grows with the tier
// instead of every phase sharing one flat constant.
type sizeTier struct {
	label          string
	insertions     int
	lookups        int
	deletions      int
	collisionKeys  int
	memoryVariants int
	memoryBase     int
}

var sizeTiers = map[string]sizeTier{
	"small": {
		label: "small", insertions: 1_000, lookups: 5_000, deletions: 500,
		collisionKeys: 200, memoryVariants: 50, memoryBase: 1_000,
	},
	"medium": {
		label: "medium", insertions: 10_000, lookups: 50_000, deletions: 5_000,
		collisionKeys: 2_000, memoryVariants: 200, memoryBase: 10_000,
	},
	"large": {
		label: "large", insertions: 100_000, lookups: 500_000, deletions: 50_000,
		collisionKeys: 10_000, memoryVariants: 500, memoryBase: 100_000,
	},
}

// phaseResult holds one workload phase's timings for the trie against a
// plain Go map run over the same operations, for a side-by-side report.
type phaseResult struct {
	name        string
	trieElapsed time.Duration
	mapElapsed  time.Duration
	opCount     int
}

func (r phaseResult) String() string {
	return fmt.Sprintf("%-24s trie=%-14s map=%-14s ops=%d", r.name, r.trieElapsed, r.mapElapsed, r.opCount)
}

func benchmarkInsertions(tier sizeTier, hasher hash.Hasher[int]) phaseResult {
	start := time.Now()
	h := hamt.New[int, int](hasher)
	var err error
	for i := 0; i < tier.insertions; i++ {
		h, err = h.Set(i, i)
		if err != nil {
			cLog.Error("insertion phase failed:", err.Error())
		}
	}
	trieElapsed := time.Since(start)

	start = time.Now()
	m := make(map[int]int, tier.insertions)
	for i := 0; i < tier.insertions; i++ {
		m[i] = i
	}
	mapElapsed := time.Since(start)

	return phaseResult{name: "insertions", trieElapsed: trieElapsed, mapElapsed: mapElapsed, opCount: tier.insertions}
}

func benchmarkLookups(tier sizeTier, hasher hash.Hasher[int]) phaseResult {
	h := hamt.New[int, int](hasher)
	m := make(map[int]int, tier.insertions)
	var err error
	for i := 0; i < tier.insertions; i++ {
		h, err = h.Set(i, i)
		if err != nil {
			cLog.Error("lookup phase setup failed:", err.Error())
		}
		m[i] = i
	}

	start := time.Now()
	for i := 0; i < tier.lookups; i++ {
		h.Get(i%tier.insertions, -1)
	}
	trieElapsed := time.Since(start)

	start = time.Now()
	for i := 0; i < tier.lookups; i++ {
		_ = m[i%tier.insertions]
	}
	mapElapsed := time.Since(start)

	return phaseResult{name: "lookups", trieElapsed: trieElapsed, mapElapsed: mapElapsed, opCount: tier.lookups}
}

func benchmarkDeletions(tier sizeTier, hasher hash.Hasher[int]) phaseResult {
	h := hamt.New[int, int](hasher)
	m := make(map[int]int, tier.insertions)
	var err error
	for i := 0; i < tier.insertions; i++ {
		h, err = h.Set(i, i)
		if err != nil {
			cLog.Error("deletion phase setup failed:", err.Error())
		}
		m[i] = i
	}

	start := time.Now()
	for i := 0; i < tier.deletions; i++ {
		h, err = h.Delete(i)
		if err != nil {
			cLog.Error("deletion phase failed:", err.Error())
		}
	}
	trieElapsed := time.Since(start)

	start = time.Now()
	for i := 0; i < tier.deletions; i++ {
		delete(m, i)
	}
	mapElapsed := time.Since(start)

	return phaseResult{name: "deletions", trieElapsed: trieElapsed, mapElapsed: mapElapsed, opCount: tier.deletions}
}

func benchmarkIteration(tier sizeTier, hasher hash.Hasher[int]) phaseResult {
	h := hamt.New[int, int](hasher)
	m := make(map[int]int, tier.insertions)
	var err error
	for i := 0; i < tier.insertions; i++ {
		h, err = h.Set(i, i)
		if err != nil {
			cLog.Error("iteration phase setup failed:", err.Error())
		}
		m[i] = i
	}

	start := time.Now()
	sum := 0
	for _, v := range h.Items() {
		sum += v
	}
	trieElapsed := time.Since(start)

	start = time.Now()
	sum = 0
	for _, v := range m {
		sum += v
	}
	mapElapsed := time.Since(start)

	return phaseResult{name: "iteration", trieElapsed: trieElapsed, mapElapsed: mapElapsed, opCount: tier.insertions}
}

// benchmarkMemorySharing builds memoryBase entries once, then derives
// memoryVariants successive single-key forks from it. It reports how long
// the forking takes and verifies every earlier fork is still independently
// readable, which is the sharing guarantee a copy-on-write map wouldn't give
// for free: each fork should cost O(log n) work, not a full copy.
func benchmarkMemorySharing(tier sizeTier, hasher hash.Hasher[int]) phaseResult {
	base := hamt.New[int, int](hasher)
	var err error
	for i := 0; i < tier.memoryBase; i++ {
		base, err = base.Set(i, i)
		if err != nil {
			cLog.Error("memory sharing phase setup failed:", err.Error())
		}
	}

	variants := make([]*hamt.HAMT[int, int], 0, tier.memoryVariants)
	start := time.Now()
	current := base
	for i := 0; i < tier.memoryVariants; i++ {
		current, err = current.Set(tier.memoryBase+i, i)
		if err != nil {
			cLog.Error("memory sharing fork failed:", err.Error())
		}
		variants = append(variants, current)
	}
	elapsed := time.Since(start)

	for i, v := range variants {
		if !v.Contains(tier.memoryBase + i) {
			cLog.Error("memory sharing regression: fork lost its own key", i)
		}
	}
	if base.Contains(tier.memoryBase) {
		cLog.Error("memory sharing regression: base version saw a later fork's key")
	}

	return phaseResult{name: "memory-sharing forks", trieElapsed: elapsed, mapElapsed: 0, opCount: tier.memoryVariants}
}

// benchmarkHashCollisions drives collisionKeys insertions through a hasher
// that always returns the same value, forcing every key past the depth
// ceiling into collision nodes — the worst case the trie's design accepts
// rather than rejecting outright.
func benchmarkHashCollisions(tier sizeTier) phaseResult {
	adversarial := func(int) (uint32, error) { return 0xbad, nil }

	start := time.Now()
	h := hamt.New[int, int](adversarial)
	var err error
	for i := 0; i < tier.collisionKeys; i++ {
		h, err = h.Set(i, i)
		if err != nil {
			cLog.Error("hash collision phase failed:", err.Error())
		}
	}
	for i := 0; i < tier.collisionKeys; i++ {
		if _, err := h.Lookup(i); err != nil {
			cLog.Error("hash collision phase lookup failed:", err.Error())
		}
	}
	elapsed := time.Since(start)

	return phaseResult{name: "adversarial collisions", trieElapsed: elapsed, mapElapsed: 0, opCount: tier.collisionKeys}
}
