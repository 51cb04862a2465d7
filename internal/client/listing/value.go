package listing

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"biokeeper/internal/client/datefmt"
)

type kind int

const (
	kindText kind = iota
	kindTime
	kindNumber
)

// Value is a sort key. Values of different kinds never meet in one column.
type Value struct {
	kind kind
	text string
	at   time.Time
	num  float64
}

// fold is the case-insensitive form used for comparing and matching.
func fold(s string) string { return cases.Fold().String(s) }

// Text compares case-insensitively.
func Text(s string) Value { return Value{kind: kindText, text: fold(s)} }

// Time compares chronologically. Unparseable input becomes the zero time and
// sorts before every real timestamp.
func Time(raw string) Value {
	t, _ := datefmt.Parse(raw, time.UTC)
	return Value{kind: kindTime, at: t}
}

func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// Compare returns -1, 0 or +1.
func Compare(a, b Value) int {
	switch a.kind {
	case kindTime:
		return a.at.Compare(b.at)
	case kindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	default:
		return strings.Compare(a.text, b.text)
	}
}
