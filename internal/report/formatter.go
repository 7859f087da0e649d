package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Outcome tokens printed for mutating commands
const (
	Success = "Success"
	Fail    = "Fail"
)

// Null is printed in place of an absent value
const Null = "NULL"

const (
	fieldSeparator = ","
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Row is a report row that exposes its values in output order
type Row interface {
	Fields() []interface{}
}

// FormatValue renders a single report value
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return Null
	case string:
		return x
	case *string:
		if x == nil {
			return Null
		}
		return *x
	case *int:
		if x == nil {
			return Null
		}
		return fmt.Sprint(*x)
	case time.Time:
		return x.UTC().Format(dateTimeLayout)
	case *time.Time:
		if x == nil {
			return Null
		}
		return x.UTC().Format(dateTimeLayout)
	default:
		return fmt.Sprint(x)
	}
}

// FormatRow joins a row's values with commas
func FormatRow(row Row) string {
	fields := row.Fields()
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = FormatValue(f)
	}
	return strings.Join(parts, fieldSeparator)
}

// FormatRows renders each row on its own line
func FormatRows[R Row](rows []R) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, FormatRow(r))
	}
	return out
}

// Outcome returns the token for a mutating command's result
func Outcome(err error) string {
	if err != nil {
		return Fail
	}
	return Success
}

// WriteRows prints rows to w, one per line. An empty result prints nothing.
func WriteRows[R Row](w io.Writer, rows []R) error {
	for _, line := range FormatRows(rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutcome prints the Success or Fail token for err
func WriteOutcome(w io.Writer, err error) error {
	_, werr := fmt.Fprintln(w, Outcome(err))
	return werr
}
