package languages

// Outcome is the result of one unit of best-effort work: a history page, a
// repository, a commit fetch. A failed outcome is skipped, never raised.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Succeeded wraps a value
func Succeeded[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value}
}

// Failed wraps an error
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

// Skipped reports whether the work failed and contributes nothing
func (o Outcome[T]) Skipped() bool {
	return o.Err != nil
}

// Successes keeps the values of outcomes that did not fail, in order
func Successes[T any](outcomes []Outcome[T]) []T {
	values := make([]T, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Skipped() {
			values = append(values, o.Value)
		}
	}
	return values
}
