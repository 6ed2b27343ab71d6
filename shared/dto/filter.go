package dto

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	FilterOperatorEq   = "eq"
	FilterOperatorIEq  = "ieq"
	FilterOperatorLike = "like"
	FilterOperatorIn   = "in"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// comparisons render operators that bind a single named argument.
var comparisons = map[string]string{
	FilterOperatorEq:  "%s = :%s",
	FilterOperatorIEq: "LOWER(%s) = LOWER(:%s)",
}

// Filter is one condition on a column. ArgName defaults to Field and must be
// set when the same column appears twice in a group.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq ieq like in"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause returns an empty clause for an unknown operator.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	column, argName := f.column(), f.argName()

	if format, ok := comparisons[f.Operator]; ok {
		args[argName] = f.Value

		return fmt.Sprintf(format, column, argName), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[argName] = fmt.Sprintf("%%%s%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s) ", column, argName), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		if kind := val.Kind(); kind != reflect.Array && kind != reflect.Slice {
			args[argName] = f.Value

			return fmt.Sprintf("%s IN (:%s) ", column, argName), args
		}

		named := make([]string, val.Len())

		for idx := range val.Len() {
			name := fmt.Sprintf("%s_%d", argName, idx)
			args[name] = val.Index(idx).Interface()
			named[idx] = ":" + name
		}

		return fmt.Sprintf("%s IN (%s) ", column, strings.Join(named, ", ")), args
	default:
		return "", args
	}
}

// FilterGroup joins Filters (Filter or nested FilterGroup values) with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	for _, filter := range f.Filters {
		var clause interface {
			GetWhereClause() (string, map[string]any)
		}

		switch fill := filter.(type) {
		case Filter:
			clause = &fill
		case FilterGroup:
			clause = &fill
		default:
			continue
		}

		where, arg := clause.GetWhereClause()
		if where == "" {
			continue
		}

		whereClause = append(whereClause, where)
		maps.Copy(args, arg)
	}

	if len(whereClause) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+f.Operator+" ")), args
}

// FieldValue pairs a column with the value it must equal.
type FieldValue struct {
	Field string
	Value any
}

// SortedArgs renders named query arguments in key order so that equal filters produce equal strings.
func SortedArgs(args map[string]any) string {
	keys := slices.Sorted(maps.Keys(args))

	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s=%v", key, args[key])
	}

	return strings.Join(parts, "&")
}
