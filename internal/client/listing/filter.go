package listing

import "strings"

// Predicate selects items of a listing.
type Predicate[T any] func(T) bool

// Contains matches when any field holds q as a case-insensitive substring.
// An empty q matches everything.
func Contains[T any](q string, fields ...func(T) string) Predicate[T] {
	if q == "" {
		return nil
	}
	q = fold(q)
	return func(it T) bool {
		for _, f := range fields {
			if strings.Contains(fold(f(it)), q) {
				return true
			}
		}
		return false
	}
}

// Equals matches an exact code such as a blood type or zone. An empty v
// matches everything.
func Equals[T any](v string, field func(T) string) Predicate[T] {
	if v == "" {
		return nil
	}
	return func(it T) bool { return field(it) == v }
}

// EqualsID matches a referenced id; zero matches everything.
func EqualsID[T any](id int64, field func(T) int64) Predicate[T] {
	if id == 0 {
		return nil
	}
	return func(it T) bool { return field(it) == id }
}

// All is the conjunction of preds. Nil predicates are skipped.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	return func(it T) bool {
		for _, p := range preds {
			if p != nil && !p(it) {
				return false
			}
		}
		return true
	}
}

// Apply returns the matching items in their original order.
func Apply[T any](items []T, p Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if p == nil || p(it) {
			out = append(out, it)
		}
	}
	return out
}
