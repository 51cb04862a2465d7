package listing

import "sort"

// Column describes one sortable, printable field of T.
type Column[T any] struct {
	Key    string
	Header string
	Sort   func(T) Value
	Show   func(T) string
}

// Table is the ordered column set of one entity listing.
type Table[T any] struct {
	Columns []Column[T]
}

func (t Table[T]) Column(key string) (Column[T], bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

func (t Table[T]) Keys() []string {
	keys := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		keys = append(keys, c.Key)
	}
	return keys
}

func (t Table[T]) Headers() []string {
	h := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		h = append(h, c.Header)
	}
	return h
}

// Rows renders every item column by column.
func (t Table[T]) Rows(items []T) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			row = append(row, c.Show(it))
		}
		rows = append(rows, row)
	}
	return rows
}

// SortState is the active sort column and direction. An empty Key means
// the service order is kept.
type SortState struct {
	Key  string
	Desc bool
}

// Toggle picks the next state after key is chosen: the same key ascending
// flips to descending, anything else starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key && !s.Desc {
		return SortState{Key: key, Desc: true}
	}
	return SortState{Key: key}
}

// Sort returns a sorted copy of items. Unknown keys keep the input order,
// and so do ties.
func Sort[T any](items []T, t Table[T], s SortState) []T {
	out := make([]T, len(items))
	copy(out, items)
	col, ok := t.Column(s.Key)
	if !ok || col.Sort == nil {
		return out
	}
	keys := make([]Value, len(out))
	for i, it := range out {
		keys[i] = col.Sort(it)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		c := Compare(keys[idx[i]], keys[idx[j]])
		if s.Desc {
			c = -c
		}
		return c < 0
	})
	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}
