package parfold

import (
	"fmt"
	"runtime"
)

/*
ComputeEffectiveThreshold determines the chunk threshold for the fold
executors: parts of a sequence whose size is at or below the threshold
are folded sequentially instead of being split or chunked further.

It takes the sequence size as input, with 0 <= size, as well as an
input threshold designator.

A threshold parameter value of 0 selects the default, which divides
the sequence across twice the available logical CPUs (as determined by
runtime.GOMAXPROCS(0)). The factor of two leaves room for load
balancing between parts of uneven cost.

A threshold parameter value of 1 yields the most fine-grained
parallelism, and the finest cancellation granularity for folds that
can terminate early. Fine-grained parallelism only pays off if the
work per element is sufficiently large to compensate for the
scheduling overhead.

A threshold parameter value above 1 specifies the part size directly.

More specifically:

If the input threshold is > 0, it is returned unchanged.

If the input threshold is == 0, the return value is size / (2 *
runtime.GOMAXPROCS(0)), but at least 1.

If the input threshold is < 0, ComputeEffectiveThreshold panics, as
does a negative size.
*/
func ComputeEffectiveThreshold(size, threshold int) int {
	if (size < 0) || (threshold < 0) {
		panic(fmt.Sprintf("invalid arguments: size %v, threshold %v", size, threshold))
	}
	if threshold == 0 {
		threshold = size / (2 * runtime.GOMAXPROCS(0))
		if threshold == 0 {
			threshold = 1
		}
	}
	return threshold
}

/*
ComputeNofChunks determines the number of contiguous chunks that a
non-recursive executor partitions a sequence of the given size into,
which is size divided by the chunk threshold, but at least 1.

ComputeNofChunks panics if size is negative, or if threshold is
below 1.
*/
func ComputeNofChunks(size, threshold int) int {
	if (size < 0) || (threshold < 1) {
		panic(fmt.Sprintf("invalid arguments: size %v, threshold %v", size, threshold))
	}
	nofChunks := size / threshold
	if nofChunks == 0 {
		nofChunks = 1
	}
	return nofChunks
}
