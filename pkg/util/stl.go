package util

// Back returns the last element. It panics on an empty slice.
func Back[T any](data []T) T {
	AssertFunc(len(data) > 0)
	return data[len(data)-1]
}

// FindIf returns the index of the first element satisfying pred, or -1.
func FindIf[T any](data []T, pred func(t T) bool) int {
	for i, ele := range data {
		if pred(ele) {
			return i
		}
	}
	return -1
}
