package introspect

import (
	"fmt"
	"sync"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/ir"
	"github.com/roach88/scribe/internal/selector"
)

// Op names an introspection call.
type Op string

const (
	OpQuery      Op = "query"
	OpQueryFirst Op = "query_first"
	OpQueryLabel Op = "query_label"
	OpPage       Op = "page"
)

// Call is one recorded introspection call and the hash of its answer.
// Only the argument matching Op is set.
type Call struct {
	Op       Op
	Selector selector.Locatable
	Label    string
	Loc      content.Location
	Result   string
}

func (c Call) key() string {
	switch c.Op {
	case OpQuery, OpQueryFirst:
		return string(c.Op) + ":" + c.Selector.Hash()
	case OpQueryLabel:
		return string(c.Op) + ":" + c.Label
	default:
		return fmt.Sprintf("%s:%d", c.Op, c.Loc)
	}
}

// Constraint accumulates the calls made through a Tracked view.
// Repeated calls are recorded once. Safe for concurrent use.
type Constraint struct {
	mu    sync.Mutex
	calls []Call
	seen  map[string]bool
}

// NewConstraint returns an empty constraint.
func NewConstraint() *Constraint {
	return &Constraint{seen: make(map[string]bool)}
}

func (c *Constraint) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = make(map[string]bool)
	}
	k := call.key()
	if c.seen[k] {
		return
	}
	c.seen[k] = true
	c.calls = append(c.calls, call)
}

// Calls returns a copy of the recorded calls in recording order.
func (c *Constraint) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Len returns the number of recorded calls.
func (c *Constraint) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// Validate re-issues every recorded call against i and reports whether all
// answers are unchanged. If i is itself tracked, the replayed calls are
// recorded into its constraint.
//
// Validation stops at the first mismatch.
func (c *Constraint) Validate(i Introspection) bool {
	for _, call := range c.Calls() {
		if replay(i, call) != call.Result {
			return false
		}
	}
	return true
}

func replay(i Introspection, call Call) string {
	switch call.Op {
	case OpQuery:
		return hashElems(i.Query(call.Selector))
	case OpQueryFirst:
		c, ok := i.QueryFirst(call.Selector)
		return hashOptional(c, ok)
	case OpQueryLabel:
		c, err := i.QueryLabel(call.Label)
		return hashLabelled(c, err)
	default:
		page, ok := i.Page(call.Loc)
		return hashPage(page, ok)
	}
}

func hashElems(elems []content.Content) string {
	arr := make(ir.IRArray, len(elems))
	for i, c := range elems {
		arr[i] = content.ToIR(c)
	}
	return ir.MustHash(ir.DomainResult, arr)
}

func hashOptional(c content.Content, ok bool) string {
	if !ok {
		return ir.MustHash(ir.DomainResult, ir.IRObject{"none": ir.IRBool(true)})
	}
	return ir.MustHash(ir.DomainResult, content.ToIR(c))
}

func hashLabelled(c content.Content, err error) string {
	if err != nil {
		return ir.MustHash(ir.DomainResult, ir.IRObject{"error": ir.IRString(err.Error())})
	}
	return ir.MustHash(ir.DomainResult, content.ToIR(c))
}

func hashPage(page int, ok bool) string {
	return ir.MustHash(ir.DomainResult, ir.IRObject{"page": ir.IRInt(page), "ok": ir.IRBool(ok)})
}

// ToIR converts the recorded calls to IR for persistence.
func (c *Constraint) ToIR() ir.IRArray {
	calls := c.Calls()
	arr := make(ir.IRArray, len(calls))
	for i, call := range calls {
		obj := ir.IRObject{"op": ir.IRString(call.Op), "result": ir.IRString(call.Result)}
		switch call.Op {
		case OpQuery, OpQueryFirst:
			obj["selector"] = selector.ToIR(call.Selector.Selector())
		case OpQueryLabel:
			obj["label"] = ir.IRString(call.Label)
		default:
			obj["loc"] = ir.IRInt(call.Loc)
		}
		arr[i] = obj
	}
	return arr
}

// ConstraintFromIR is the inverse of (*Constraint).ToIR.
func ConstraintFromIR(arr ir.IRArray) (*Constraint, error) {
	c := NewConstraint()
	for i, raw := range arr {
		obj, ok := raw.(ir.IRObject)
		if !ok {
			return nil, fmt.Errorf("call[%d]: expected object, found %s", i, ir.TypeName(raw))
		}
		op, _ := obj["op"].(ir.IRString)
		result, _ := obj["result"].(ir.IRString)
		call := Call{Op: Op(op), Result: string(result)}
		switch call.Op {
		case OpQuery, OpQueryFirst:
			sel, err := selector.FromIR(obj["selector"])
			if err != nil {
				return nil, fmt.Errorf("call[%d]: %w", i, err)
			}
			l, err := selector.AsLocatable(sel)
			if err != nil {
				return nil, fmt.Errorf("call[%d]: %w", i, err)
			}
			call.Selector = l
		case OpQueryLabel:
			label, _ := obj["label"].(ir.IRString)
			call.Label = string(label)
		case OpPage:
			loc, _ := obj["loc"].(ir.IRInt)
			call.Loc = content.Location(loc)
		default:
			return nil, fmt.Errorf("call[%d]: unknown op %q", i, call.Op)
		}
		c.record(call)
	}
	return c, nil
}
