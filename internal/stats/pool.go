package stats

import (
	"sync"
)

// result is one slot of a fan-out: either a value or the error that replaced it
type result[T any] struct {
	value T
	err   error
	ok    bool
}

// fanOut runs fn for every index in [0, n) on a fixed number of workers.
// Workers claim indexes from a channel and write into their own slot, so
// output order matches input order regardless of completion order. A failing
// call only affects its own slot.
func fanOut[T any](n, workers int, fn func(i int) (T, error)) []result[T] {
	out := make([]result[T], n)
	if n == 0 {
		return out
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				out[i] = runSlot(i, fn)
			}
		}()
	}

	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return out
}

// runSlot converts a panic in fn into a slot error so one bad payload
// cannot take down the batch.
func runSlot[T any](i int, fn func(i int) (T, error)) (r result[T]) {
	defer func() {
		if p := recover(); p != nil {
			r = result[T]{err: panicError{value: p}}
		}
	}()
	v, err := fn(i)
	if err != nil {
		return result[T]{err: err}
	}
	return result[T]{value: v, ok: true}
}

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return "fetch panicked"
}
