package qsim

/*
Block is a contiguous range of run ids owned by a single worker. Blocks are
decided statically before dispatch: the work distribution never reacts to
runtime load, so the run id -> seed mapping is independent of scheduling.
*/
type Block struct {
	Start uint64
	Count uint64
}

// partitionRuns splits total run ids into workers contiguous blocks as evenly
// as possible, assigning the remainder one run at a time to the first blocks.
// The returned blocks cover [0, total) exactly, in run id order.
func partitionRuns(total uint64, workers int) []Block {
	if total == 0 || workers <= 0 {
		return nil
	}
	if uint64(workers) > total {
		workers = int(total)
	}

	base := total / uint64(workers)
	remainder := total % uint64(workers)

	blocks := make([]Block, workers)
	next := uint64(0)
	for i := range blocks {
		count := base
		if uint64(i) < remainder {
			count++
		}
		blocks[i] = Block{Start: next, Count: count}
		next += count
	}
	return blocks
}
