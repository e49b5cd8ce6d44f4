package convert

import "sync"

// once evaluates a function at most once. Callers arriving while the first
// evaluation is running wait for it and observe its result.
type once[T any] struct {
	mu   sync.Mutex
	done bool
	val  T
	err  error
}

// Do runs fn on the first call and returns its result on every call.
func (o *once[T]) Do(fn func() (T, error)) (T, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.done {
		o.val, o.err = fn()
		o.done = true
	}
	return o.val, o.err
}

// Peek reports the stored value without evaluating anything.
func (o *once[T]) Peek() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.val, o.done
}
