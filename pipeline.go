package tumble

import "sync"

// task runs fn over data, split in workersCount contiguous chunks, and
// returns once every chunk is done
func task[T any](workersCount int, data []T, fn func(data T)) {
	workersCount = max(1, workersCount)
	if len(data) == 0 {
		return
	}
	if workersCount == 1 {
		for _, d := range data {
			fn(d)
		}
		return
	}

	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for start := 0; start < dataSize; start += chunkSize {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, min(start+chunkSize, dataSize))
	}
	wg.Wait()
}
