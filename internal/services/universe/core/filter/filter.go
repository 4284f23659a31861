// Package filter parses AIP-160 event filters into a SQL condition and an
// equivalent in-memory matcher.
package filter

import (
	"cmp"
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"github.com/louisbranch/tickverse/internal/services/universe/events"
)

// EventDeclarations returns the identifiers an event filter may reference.
func EventDeclarations() (*filtering.Declarations, error) {
	return filtering.NewDeclarations(
		filtering.DeclareStandardFunctions(),
		filtering.DeclareIdent("kind", filtering.TypeString),
		filtering.DeclareIdent("caller", filtering.TypeString),
		filtering.DeclareIdent("universe_id", filtering.TypeString),
		filtering.DeclareIdent("seq", filtering.TypeInt),
		filtering.DeclareIdent("value", filtering.TypeInt),
	)
}

// Condition is a parsed filter.
type Condition struct {
	// Clause is the SQL WHERE fragment (e.g. "kind = ?").
	Clause string
	// Params are the positional parameters for Clause.
	Params []any

	match func(fields map[string]any) bool
}

// Empty reports whether the condition filters nothing out.
func (c Condition) Empty() bool {
	return c.Clause == ""
}

// Matches evaluates the condition against an event.
func (c Condition) Matches(evt events.Event) bool {
	if c.match == nil {
		return true
	}
	return c.match(map[string]any{
		"kind":        string(evt.Kind),
		"caller":      evt.Caller,
		"universe_id": evt.UniverseID,
		"seq":         int64(evt.Seq),
		"value":       int64(evt.Value),
	})
}

// columns maps filter identifiers to universe_events columns.
var columns = map[string]string{
	"kind":        "kind",
	"caller":      "caller",
	"universe_id": "universe_id",
	"seq":         "seq",
	"value":       "value",
}

// ParseEventFilter parses an AIP-160 filter expression. An empty string
// yields an empty condition.
func ParseEventFilter(filterStr string) (Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Condition{}, nil
	}

	decls, err := EventDeclarations()
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("parse filter: %w", err)
	}
	if parsed.CheckedExpr == nil {
		return Condition{}, nil
	}
	return translateExpr(parsed.CheckedExpr.GetExpr())
}

func translateExpr(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return Condition{}, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	return translateCall(call.CallExpr)
}

func translateCall(call *expr.Expr_Call) (Condition, error) {
	switch call.GetFunction() {
	case "_&&_", "AND":
		return translateLogical(call.GetArgs(), "AND", func(l, r bool) bool { return l && r })
	case "_||_", "OR":
		return translateLogical(call.GetArgs(), "OR", func(l, r bool) bool { return l || r })
	case "_==_", "=":
		return translateComparison(call.GetArgs(), "=", func(c int) bool { return c == 0 })
	case "_!=_", "!=":
		return translateComparison(call.GetArgs(), "!=", func(c int) bool { return c != 0 })
	case "_<_", "<":
		return translateComparison(call.GetArgs(), "<", func(c int) bool { return c < 0 })
	case "_<=_", "<=":
		return translateComparison(call.GetArgs(), "<=", func(c int) bool { return c <= 0 })
	case "_>_", ">":
		return translateComparison(call.GetArgs(), ">", func(c int) bool { return c > 0 })
	case "_>=_", ">=":
		return translateComparison(call.GetArgs(), ">=", func(c int) bool { return c >= 0 })
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.GetFunction())
	}
}

func translateLogical(args []*expr.Expr, op string, combine func(l, r bool) bool) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := translateExpr(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := translateExpr(args[1])
	if err != nil {
		return Condition{}, err
	}
	params := make([]any, 0, len(left.Params)+len(right.Params))
	params = append(params, left.Params...)
	params = append(params, right.Params...)
	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: params,
		match: func(fields map[string]any) bool {
			return combine(left.match(fields), right.match(fields))
		},
	}, nil
}

func translateComparison(args []*expr.Expr, op string, accept func(int) bool) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	field, err := extractFieldName(args[0])
	if err != nil {
		return Condition{}, err
	}
	column, ok := columns[field]
	if !ok {
		return Condition{}, fmt.Errorf("unknown field: %s", field)
	}
	value, err := extractValue(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("%s %s ?", column, op),
		Params: []any{value},
		match: func(fields map[string]any) bool {
			c, ok := compare(fields[field], value)
			return ok && accept(c)
		},
	}, nil
}

// compare orders two scalar values of the same kind.
func compare(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case int64:
		switch bv := b.(type) {
		case int64:
			return cmp.Compare(av, bv), true
		case uint64:
			if av < 0 {
				return -1, true
			}
			return cmp.Compare(uint64(av), bv), true
		}
	}
	return 0, false
}

func extractFieldName(e *expr.Expr) (string, error) {
	ident, ok := e.GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected identifier, got %T", e.GetExprKind())
	}
	return ident.IdentExpr.GetName(), nil
}

func extractValue(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
