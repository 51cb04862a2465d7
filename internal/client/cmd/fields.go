package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"biokeeper/internal/shared/models"
)

// field binds one string flag to a record field.
type field[T any] struct {
	name  string
	usage string
	set   func(*T, string) error
}

func text[T any](name, usage string, dst func(*T) *string) field[T] {
	return field[T]{name: name, usage: usage, set: func(v *T, s string) error {
		*dst(v) = s
		return nil
	}}
}

func stamp[T any](name, usage string, dst func(*T) *models.Timestamp) field[T] {
	return field[T]{name: name, usage: usage, set: func(v *T, s string) error {
		*dst(v) = models.Timestamp(strings.TrimSpace(s))
		return nil
	}}
}

func number[T any](name, usage string, dst func(*T) *float64) field[T] {
	return field[T]{name: name, usage: usage, set: func(v *T, s string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("--%s: %q is not a number", name, s)
		}
		*dst(v) = f
		return nil
	}}
}

// code accepts an enum value in any case.
func code[T any, E ~string](name, usage string, dst func(*T) *E) field[T] {
	return field[T]{name: name, usage: usage, set: func(v *T, s string) error {
		*dst(v) = E(strings.ToUpper(strings.TrimSpace(s)))
		return nil
	}}
}

func ref[T any](name, usage string, set func(*T, int64)) field[T] {
	return field[T]{name: name, usage: usage, set: func(v *T, s string) error {
		id, err := parseID(s)
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		set(v, id)
		return nil
	}}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func registerFields[T any](fs *pflag.FlagSet, fields []field[T]) {
	for _, f := range fields {
		fs.String(f.name, "", f.usage)
	}
}

// applyFields copies every flag the user set onto v. Flags left alone keep
// the record's current value.
func applyFields[T any](fs *pflag.FlagSet, fields []field[T], v *T) error {
	for _, f := range fields {
		fl := fs.Lookup(f.name)
		if fl == nil || !fl.Changed {
			continue
		}
		if err := f.set(v, fl.Value.String()); err != nil {
			return err
		}
	}
	return nil
}
