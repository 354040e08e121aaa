// Command hamtbench drives an insertion/lookup/deletion/iteration/
// structural-sharing/collision/concurrent-read workload at small, medium or
// large scale and reports timings. The insertion, lookup, deletion and
// iteration phases are also run against a plain Go map and reported side by
// side; the structural-sharing, collision and concurrent-read phases time
// the trie only and report a map time of 0.
package main

import (
	"fmt"

	"github.com/sirgallo/logger"

	"github.com/sixfold/hamt/hash"
)

var cLog = logger.NewCustomLog("hamtbench")

func main() {
	cfg := MustLoad()

	tier, ok := sizeTiers[cfg.Size]
	if !ok {
		cLog.Error("unknown size tier, falling back to small:", cfg.Size)
		tier = sizeTiers["small"]
	}

	cLog.Info("running hamtbench, tier:", tier.label, "workers:", fmt.Sprint(cfg.Workers))

	hasher := hash.ForInt(cfg.Seed)

	results := []phaseResult{
		benchmarkInsertions(tier, hasher),
		benchmarkLookups(tier, hasher),
		benchmarkDeletions(tier, hasher),
		benchmarkIteration(tier, hasher),
		benchmarkMemorySharing(tier, hasher),
		benchmarkHashCollisions(tier),
		benchmarkConcurrentReads(tier, cfg.Workers),
	}

	fmt.Printf("hamtbench — %s tier\n", tier.label)
	for _, r := range results {
		fmt.Println(r.String())
	}
}
