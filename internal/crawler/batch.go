package crawler

// SplitBatches partitions items into consecutive, non-overlapping batches
// of at most n elements, preserving order. The final batch may be shorter;
// concatenating the batches reproduces items exactly. The returned batches
// are subslices of items, not copies.
//
// n must be positive; SplitBatches returns nil otherwise.
func SplitBatches[T any](items []T, n int) [][]T {
	if n < 1 {
		return nil
	}
	batches := make([][]T, 0, (len(items)+n-1)/n)
	for start := 0; start < len(items); start += n {
		end := start + n
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
