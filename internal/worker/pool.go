// Package worker runs a function over a slice of inputs with bounded concurrency.
package worker

import (
	"context"
	"sync"
)

// Result pairs an input with the value or error produced for it.
type Result[I, O any] struct {
	Input  I
	Output O
	Err    error
}

// Run calls fn for every input using at most size goroutines and returns the
// results in input order. Inputs not yet started when ctx is done are
// reported with ctx.Err().
func Run[I, O any](ctx context.Context, inputs []I, size int, fn func(context.Context, I) (O, error)) []Result[I, O] {
	results := make([]Result[I, O], len(inputs))
	if len(inputs) == 0 {
		return results
	}
	if size < 1 {
		size = 1
	}
	size = min(size, len(inputs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range size {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out, err := fn(ctx, inputs[i])
				results[i] = Result[I, O]{Input: inputs[i], Output: out, Err: err}
			}
		}()
	}

	for i := range inputs {
		if ctx.Err() != nil {
			results[i] = Result[I, O]{Input: inputs[i], Err: ctx.Err()}
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
