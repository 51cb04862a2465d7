package listing

// Lookup joins a reference id against a side collection. Lists are short,
// so a linear scan is enough.
type Lookup[T any] struct {
	items []T
	id    func(T) int64
}

func NewLookup[T any](items []T, id func(T) int64) Lookup[T] {
	return Lookup[T]{items: items, id: id}
}

func (l Lookup[T]) Find(id int64) (T, bool) {
	var zero T
	if l.id == nil || id == 0 {
		return zero, false
	}
	for _, it := range l.items {
		if l.id(it) == id {
			return it, true
		}
	}
	return zero, false
}
