package workerpool

import (
	"context"
	"sync"
)

// Transformer maps one input element. It is called from several goroutines
// at once.
type Transformer[T, R any] func(ctx context.Context, current T) R

// Generate streams values into a channel closed once they are all sent or
// ctx is done.
func Generate[T any](ctx context.Context, values []T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)
		for _, v := range values {
			select {
			case <-ctx.Done():
				return
			case out <- v:
			}
		}
	}()

	return out
}

// Transform applies transformer to every element of input using the given
// number of workers. The output is unordered and closed when input is
// drained or ctx is done.
func Transform[T, R any](
	ctx context.Context,
	workers int,
	input <-chan T,
	transformer Transformer[T, R],
) <-chan R {
	out := make(chan R)
	wg := sync.WaitGroup{}

	for range max(workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-input:
					if !ok {
						return
					}

					select {
					case <-ctx.Done():
						return
					case out <- transformer(ctx, v):
					}
				}
			}
		}()
	}

	go func() {
		defer close(out)
		wg.Wait()
	}()

	return out
}
