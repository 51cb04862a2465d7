package testserver

import "sort"

// table keeps rows of one entity keyed by id.
type table[T any] struct {
	rows   map[int64]T
	nextID int64
}

func newTable[T any]() *table[T] { return &table[T]{rows: map[int64]T{}} }

func (t *table[T]) add(v T, setID func(*T, int64)) T {
	t.nextID++
	setID(&v, t.nextID)
	t.rows[t.nextID] = v
	return v
}

func (t *table[T]) get(id int64) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id int64, v T, setID func(*T, int64)) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	setID(&v, id)
	t.rows[id] = v
	return true
}

func (t *table[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// all returns rows in insertion order.
func (t *table[T]) all() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}
