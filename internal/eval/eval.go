// Package eval evaluates selector expressions.
//
// Selector expressions are CUE expressions evaluated in a restricted mode:
// no imports, no builtins, and no access to the document or file system.
// The only identifiers in scope are those of the Scope passed in, which by
// default binds every element kind to its element selector:
//
//	heading
//	heading & {where: level: 1}
//	{label: "intro"}
//	{or: [heading, figure]}
package eval

import (
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/parser"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/selector"
)

// Scope binds identifiers to selectors.
type Scope map[string]selector.Selector

// DefaultScope binds every element kind (heading, par, figure, list,
// outline, ref, metadata) to its element selector.
func DefaultScope() Scope {
	kinds := []content.Kind{
		content.KindHeading,
		content.KindParagraph,
		content.KindFigure,
		content.KindList,
		content.KindOutline,
		content.KindRef,
		content.KindMetadata,
	}
	s := make(Scope, len(kinds))
	for _, k := range kinds {
		s[string(k)] = selector.Elem{Kind: k}
	}
	return s
}

// Error reports every problem found while evaluating a selector
// expression.
type Error struct {
	Expr     string
	Messages []string
	Err      error
}

func (e *Error) Error() string {
	return "failed to evaluate selector: " + strings.Join(e.Messages, ", ")
}

func (e *Error) Unwrap() error { return e.Err }

// newError flattens err into one message per underlying CUE error.
func newError(expr string, err error) *Error {
	e := &Error{Expr: expr, Err: err}
	for _, sub := range cueerrors.Errors(err) {
		e.Messages = append(e.Messages, sub.Error())
	}
	if len(e.Messages) == 0 {
		e.Messages = []string{err.Error()}
	}
	for i, m := range e.Messages {
		e.Messages[i] = strings.TrimSpace(m)
	}
	return e
}

// EvalSelector evaluates expr in scope and narrows the result to a
// locatable selector.
func EvalSelector(expr string, scope Scope) (selector.Locatable, error) {
	ctx := cuecontext.New()

	f, err := parser.ParseExpr("selector", expr)
	if err != nil {
		return selector.Locatable{}, newError(expr, err)
	}

	scopeVal, err := compileScope(ctx, scope)
	if err != nil {
		return selector.Locatable{}, err
	}

	// Validate reports every conflict; v.Err holds only the first.
	v := ctx.BuildExpr(f, cue.Scope(scopeVal))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return selector.Locatable{}, newError(expr, err)
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return selector.Locatable{}, newError(expr, err)
	}
	val, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return selector.Locatable{}, &Error{Expr: expr, Messages: []string{err.Error()}, Err: err}
	}
	if path, ok := findNull(val, "selector"); ok {
		return selector.Locatable{}, &Error{Expr: expr, Messages: []string{path + ": null is not allowed"}}
	}

	sel, err := selector.FromIR(val)
	if err != nil {
		return selector.Locatable{}, &Error{Expr: expr, Messages: []string{err.Error()}, Err: err}
	}
	loc, err := selector.AsLocatable(sel)
	if err != nil {
		return selector.Locatable{}, &Error{Expr: expr, Messages: splitJoined(err), Err: err}
	}
	return loc, nil
}

func compileScope(ctx *cue.Context, scope Scope) (cue.Value, error) {
	names := make([]string, 0, len(scope))
	for name := range scope {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := make(ir.IRObject, len(scope))
	for _, name := range names {
		obj[name] = selector.ToIR(scope[name])
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return cue.Value{}, fmt.Errorf("eval: encode scope: %w", err)
	}
	v := ctx.CompileBytes(data, cue.Filename("scope"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("eval: compile scope: %w", err)
	}
	return v, nil
}

// splitJoined turns an errors.Join result into its messages.
func splitJoined(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func findNull(v ir.IRValue, path string) (string, bool) {
	switch x := v.(type) {
	case ir.IRNull:
		return path, true
	case ir.IRArray:
		for i, e := range x {
			if p, ok := findNull(e, fmt.Sprintf("%s[%d]", path, i)); ok {
				return p, true
			}
		}
	case ir.IRObject:
		for _, k := range x.SortedKeys() {
			if p, ok := findNull(x[k], path+"."+k); ok {
				return p, true
			}
		}
	}
	return "", false
}
