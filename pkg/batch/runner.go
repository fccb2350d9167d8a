// Package batch applies an operation to every item of a sequence without
// letting a single failure unwind the loop. Ingestion, letter rendering and
// delivery all share this shape: per-item success or failure, aggregated at
// the end.
package batch

// Result pairs one input item with its outcome.
type Result[T, R any] struct {
	Index int
	Item  T
	Value R
	Err   error
}

// Outcome summarises a completed run.
type Outcome[T, R any] struct {
	Results []Result[T, R]
	OK      int
	Failed  int
}

// Run applies fn to each item in order. Items are never skipped and an error
// for one item never stops the remainder; errors are recorded in the result
// slice at the item's original index.
func Run[T, R any](items []T, fn func(index int, item T) (R, error)) Outcome[T, R] {
	outcome := Outcome[T, R]{Results: make([]Result[T, R], 0, len(items))}
	for i, item := range items {
		value, err := fn(i, item)
		outcome.Results = append(outcome.Results, Result[T, R]{Index: i, Item: item, Value: value, Err: err})
		if err != nil {
			outcome.Failed++
		} else {
			outcome.OK++
		}
	}
	return outcome
}

// Successes returns the values of the successful results, preserving input order.
func (o Outcome[T, R]) Successes() []R {
	values := make([]R, 0, o.OK)
	for _, res := range o.Results {
		if res.Err == nil {
			values = append(values, res.Value)
		}
	}
	return values
}

// Failures returns the failed results, preserving input order.
func (o Outcome[T, R]) Failures() []Result[T, R] {
	failed := make([]Result[T, R], 0, o.Failed)
	for _, res := range o.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}
