package seekdb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// filterOperators maps the metadata filter operators to SQL comparison
// operators.
var filterOperators = map[string]string{
	"$eq":  "=",
	"$ne":  "<>",
	"$gt":  ">",
	"$gte": ">=",
	"$lt":  "<",
	"$lte": "<=",
}

// renderValue renders a filter value as a SQL literal. JSON numbers arrive
// as float64.
func renderValue(v any) (string, error) {
	switch value := v.(type) {
	case string:
		return quoteLiteral(value), nil
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	case int:
		return strconv.Itoa(value), nil
	case bool:
		if value {
			return "1", nil
		}
		return "0", nil
	default:
		return "", &ValidationError{Field: "where", Reason: fmt.Sprintf("unsupported value type %T", v)}
	}
}

// fieldExpr extracts a metadata field as text for comparison.
func fieldExpr(field string) (string, error) {
	if err := ValidateIdentifier(field, "where field"); err != nil {
		return "", err
	}
	return fmt.Sprintf("metadata->>'$.%s'", field), nil
}

// metadataClause translates a metadata filter into a SQL condition. Each
// field maps either to a bare value (equality) or to an operator object,
// e.g. {"score": {"$gte": 90}}. Fields combine with AND, sorted by name so
// the output is deterministic.
func metadataClause(where map[string]any) (string, error) {
	fields := make([]string, 0, len(where))
	for field := range where {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var conds []string
	for _, field := range fields {
		expr, err := fieldExpr(field)
		if err != nil {
			return "", err
		}
		switch spec := where[field].(type) {
		case map[string]any:
			cond, err := operatorCondition(expr, spec)
			if err != nil {
				return "", err
			}
			conds = append(conds, cond)
		default:
			value, err := renderValue(spec)
			if err != nil {
				return "", err
			}
			conds = append(conds, fmt.Sprintf("%s = %s", expr, value))
		}
	}
	if len(conds) == 0 {
		return "", &ValidationError{Field: "where", Reason: "cannot be empty"}
	}
	return strings.Join(conds, " AND "), nil
}

func operatorCondition(expr string, spec map[string]any) (string, error) {
	ops := make([]string, 0, len(spec))
	for op := range spec {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var conds []string
	for _, op := range ops {
		raw := spec[op]
		switch op {
		case "$in", "$nin":
			items, ok := raw.([]any)
			if !ok || len(items) == 0 {
				return "", &ValidationError{Field: "where", Reason: op + " requires a non-empty list"}
			}
			rendered := make([]string, len(items))
			for i, item := range items {
				value, err := renderValue(item)
				if err != nil {
					return "", err
				}
				rendered[i] = value
			}
			keyword := "IN"
			if op == "$nin" {
				keyword = "NOT IN"
			}
			conds = append(conds, fmt.Sprintf("%s %s (%s)", expr, keyword, strings.Join(rendered, ", ")))
		default:
			sqlOp, ok := filterOperators[op]
			if !ok {
				return "", &ValidationError{Field: "where", Reason: "unsupported operator " + op}
			}
			value, err := renderValue(raw)
			if err != nil {
				return "", err
			}
			conds = append(conds, fmt.Sprintf("%s %s %s", expr, sqlOp, value))
		}
	}
	return strings.Join(conds, " AND "), nil
}

// documentClause translates a document content filter. Only $contains and
// $not_contains are supported, matching with LIKE on the document column.
func documentClause(whereDocument map[string]any) (string, error) {
	ops := make([]string, 0, len(whereDocument))
	for op := range whereDocument {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	var conds []string
	for _, op := range ops {
		text, ok := whereDocument[op].(string)
		if !ok || text == "" {
			return "", &ValidationError{Field: "where_document", Reason: op + " requires a non-empty string"}
		}
		pattern := quoteLiteral("%" + text + "%")
		switch op {
		case "$contains":
			conds = append(conds, "document LIKE "+pattern)
		case "$not_contains":
			conds = append(conds, "document NOT LIKE "+pattern)
		default:
			return "", &ValidationError{Field: "where_document", Reason: "unsupported operator " + op}
		}
	}
	if len(conds) == 0 {
		return "", &ValidationError{Field: "where_document", Reason: "cannot be empty"}
	}
	return strings.Join(conds, " AND "), nil
}
