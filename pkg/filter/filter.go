package filter

type Predicate[T any] func(T) bool

// Filter returns the elements of input for which keep is true, preserving
// order.
func Filter[T any](input []T, keep Predicate[T]) []T {
	output := make([]T, 0, len(input))
	for i := range input {
		if keep(input[i]) {
			output = append(output, input[i])
		}
	}
	return output
}

// Count returns how many elements of input satisfy match.
func Count[T any](input []T, match Predicate[T]) int {
	n := 0
	for i := range input {
		if match(input[i]) {
			n++
		}
	}
	return n
}
