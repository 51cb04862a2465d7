package cmd

import (
	"strings"

	"biokeeper/internal/client/validate"
)

// Banner renders err for the terminal. Validation failures get one line per
// field.
func Banner(err error) string {
	fields := validate.Fields(err)
	if len(fields) == 0 {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString("Invalid input:")
	for _, fe := range fields {
		b.WriteString("\n  ")
		b.WriteString(fe.Error())
	}
	return b.String()
}
