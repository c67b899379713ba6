package sqlite

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ColumnType controls how a configured string value is bound.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInt
	ColumnBool
)

// Columns maps filterable field names to their column expression and type.
type Columns map[string]Column

// Column is one filterable column.
type Column struct {
	Expr string
	Type ColumnType
}

// Validate checks every field of values against c.
func (c Columns) Validate(values map[string]string) error {
	_, _, err := c.Exclude(values)
	return err
}

// Exclude renders a clause dropping rows that match every field=value pair
// at once. NULL columns never match. An empty map yields an empty clause.
func (c Columns) Exclude(values map[string]string) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, nil
	}
	fields := make([]string, 0, len(values))
	for f := range values {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	conds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		col, ok := c[f]
		if !ok {
			return "", nil, fmt.Errorf("field %q cannot be filtered out", f)
		}
		v, err := col.bind(values[f])
		if err != nil {
			return "", nil, fmt.Errorf("field %q: %w", f, err)
		}
		conds = append(conds, "COALESCE("+col.Expr+" = ?, 0)")
		args = append(args, v)
	}
	return "NOT (" + strings.Join(conds, " AND ") + ")", args, nil
}

func (c Column) bind(raw string) (any, error) {
	switch c.Type {
	case ColumnInt:
		return strconv.ParseInt(raw, 10, 64)
	case ColumnBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	default:
		return raw, nil
	}
}
