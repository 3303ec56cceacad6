package response

// NewList maps domain values to response values.
// It never returns nil so that empty lists are encoded as [] rather than null.
func NewList[S, T any](src []S, mapFn func(S) T) []T {
	items := make([]T, 0, len(src))
	for _, s := range src {
		items = append(items, mapFn(s))
	}
	return items
}
