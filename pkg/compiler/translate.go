package compiler

import (
	"fmt"

	"github.com/brainfeed/brainfeed/pkg/bf"
	"github.com/brainfeed/brainfeed/pkg/parser"
)

type translator struct {
	config Config
	ctx    *bf.Context
}

// scope is one cell-allocation frame. Name resolution walks newest-first
// within the frame and then outward, so a redeclared name wins over its
// earlier cell. The generated-code model keeps block-local cells even
// though the evaluator's environment is flat: a cell allocated inside a
// while/if body is reclaimed when the block ends.
type scope struct {
	vars  []scopeVar
	outer *scope
}

type scopeVar struct {
	name parser.Identifier
	ptr  int
}

func (s *scope) resolve(name parser.Identifier) (int, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if s.vars[i].name == name {
			return s.vars[i].ptr, true
		}
	}
	if s.outer != nil {
		return s.outer.resolve(name)
	}
	return 0, false
}

func (s *scope) alloc(ctx *bf.Context, name parser.Identifier) int {
	ptr := ctx.StackAlloc()
	s.vars = append(s.vars, scopeVar{name: name, ptr: ptr})
	return ptr
}

func (s *scope) dealloc(ctx *bf.Context) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		ctx.StackFree(s.vars[i].ptr)
	}
	s.vars = nil
}

func (t *translator) compileStatement(sc *scope, stmt parser.Statement) error {
	switch stmt := stmt.(type) {
	case *parser.DeclStatement:
		if stmt.Value == nil {
			// Declaration without initializer binds zero; the cell may
			// hold leftovers from a freed temporary.
			t.ctx.Clear(sc.alloc(t.ctx, stmt.Name))
			return nil
		}
		// The initializer is compiled before the name is bound, so a
		// redeclaration like `let x = x + 1` reads the previous cell.
		return t.evalInto(sc, *stmt.Value, func() int {
			return sc.alloc(t.ctx, stmt.Name)
		})
	case *parser.AssignStatement:
		ptr, ok := sc.resolve(stmt.Name)
		if !ok {
			return &UndefinedVariableError{Name: stmt.Name}
		}
		return t.evalInto(sc, stmt.Value, func() int { return ptr })
	case *parser.AddAssignStatement:
		return t.compileCompound(sc, stmt.Name, stmt.Value, parser.OpAdd)
	case *parser.SubAssignStatement:
		return t.compileCompound(sc, stmt.Name, stmt.Value, parser.OpSub)
	case *parser.WhileStatement:
		return t.compileWhile(sc, stmt)
	case *parser.IfStatement:
		return t.compileIf(sc, stmt)
	default:
		return fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

// evalInto compiles expr into a scratch cell and then moves the result to
// the destination chosen by dest. The indirection keeps assignments like
// `x = 1 + x` safe: the destination cell is untouched until the whole chain
// has been evaluated.
func (t *translator) evalInto(sc *scope, expr parser.Expr, dest func() int) error {
	tmp := t.ctx.StackAlloc()
	defer t.ctx.StackFree(tmp)

	if err := t.compileExpr(sc, expr, tmp); err != nil {
		return err
	}

	t.ctx.Move(tmp, dest())
	return nil
}

func (t *translator) compileCompound(sc *scope, name parser.Identifier, expr parser.Expr, op parser.Operator) error {
	ptr, ok := sc.resolve(name)
	if !ok {
		return &UndefinedVariableError{Name: name}
	}

	tmp := t.ctx.StackAlloc()
	defer t.ctx.StackFree(tmp)

	if err := t.compileExpr(sc, expr, tmp); err != nil {
		return err
	}

	switch op {
	case parser.OpAdd:
		t.ctx.AddAssign(tmp, ptr)
	case parser.OpSub:
		t.ctx.SubAssign(tmp, ptr)
	}

	return nil
}

// compileWhile evaluates the condition into a scratch cell, loops on it,
// and re-evaluates it at the bottom of the body so the loop re-checks on
// every iteration.
func (t *translator) compileWhile(sc *scope, stmt *parser.WhileStatement) error {
	tmp := t.ctx.StackAlloc()
	defer t.ctx.StackFree(tmp)

	if err := t.compileExpr(sc, stmt.Condition, tmp); err != nil {
		return err
	}

	t.ctx.Seek(tmp)
	t.ctx.Emit("[")

	body := &scope{outer: sc}
	for _, s := range stmt.Body {
		if err := t.compileStatement(body, s); err != nil {
			return err
		}
	}
	body.dealloc(t.ctx)

	if err := t.compileExpr(sc, stmt.Condition, tmp); err != nil {
		return err
	}

	t.ctx.Seek(tmp)
	t.ctx.Emit("]")

	return nil
}

// compileIf clears the condition cell at the end of the body so the
// bracket pair runs it at most once, whatever nonzero value the condition
// produced.
func (t *translator) compileIf(sc *scope, stmt *parser.IfStatement) error {
	tmp := t.ctx.StackAlloc()
	defer t.ctx.StackFree(tmp)

	if err := t.compileExpr(sc, stmt.Condition, tmp); err != nil {
		return err
	}

	t.ctx.Seek(tmp)
	t.ctx.Emit("[")

	body := &scope{outer: sc}
	for _, s := range stmt.Body {
		if err := t.compileStatement(body, s); err != nil {
			return err
		}
	}
	body.dealloc(t.ctx)

	t.ctx.Clear(tmp)
	t.ctx.Seek(tmp)
	t.ctx.Emit("]")

	return nil
}

// compileExpr materializes the chain into *target, folding it to a single
// Set when every term is constant. The chain accumulates directly in
// target, so target must be a scratch cell, never a cell some variable in
// the chain still resolves to.
func (t *translator) compileExpr(sc *scope, expr parser.Expr, target int) error {
	if !t.config.NoFold {
		if v, ok := foldExpr(expr); ok {
			t.ctx.Cell(target).Set(v)
			return nil
		}
	}

	if err := t.compileTerm(sc, expr.First, target); err != nil {
		return err
	}

	for _, ot := range expr.Rest {
		tmp := t.ctx.StackAlloc()

		if err := t.compileTerm(sc, ot.Term, tmp); err != nil {
			t.ctx.StackFree(tmp)
			return err
		}

		switch ot.Op {
		case parser.OpAdd:
			t.ctx.AddAssign(tmp, target)
		case parser.OpSub:
			t.ctx.SubAssign(tmp, target)
		case parser.OpGreater:
			res := t.ctx.StackAlloc()
			t.ctx.GreaterThan(target, tmp, res)
			t.ctx.Move(res, target)
			t.ctx.StackFree(res)
		}

		t.ctx.StackFree(tmp)
	}

	return nil
}

func (t *translator) compileTerm(sc *scope, term parser.Term, target int) error {
	switch term := term.(type) {
	case *parser.NumberTerm:
		if term.Value > 255 {
			return &CellRangeError{Value: term.Value}
		}
		t.ctx.Cell(target).Set(byte(term.Value))
		return nil
	case *parser.VarTerm:
		ptr, ok := sc.resolve(term.Name)
		if !ok {
			return &UndefinedVariableError{Name: term.Name}
		}
		t.ctx.Copy(ptr, target)
		return nil
	case *parser.CharTerm:
		t.ctx.Cell(target).Set(term.Letter)
		return nil
	case *parser.ParenTerm:
		return t.compileExpr(sc, term.Expr, target)
	default:
		return fmt.Errorf("unhandled term type: %T", term)
	}
}

// foldExpr evaluates a constant chain at compile time with the backend's
// wrapping u8 arithmetic. It reports false as soon as a variable or an
// out-of-range literal appears.
func foldExpr(expr parser.Expr) (byte, bool) {
	acc, ok := foldTerm(expr.First)
	if !ok {
		return 0, false
	}

	for _, ot := range expr.Rest {
		rhs, ok := foldTerm(ot.Term)
		if !ok {
			return 0, false
		}

		switch ot.Op {
		case parser.OpAdd:
			acc += rhs
		case parser.OpSub:
			acc -= rhs
		case parser.OpGreater:
			if acc > rhs {
				acc = 1
			} else {
				acc = 0
			}
		}
	}

	return acc, true
}

func foldTerm(term parser.Term) (byte, bool) {
	switch term := term.(type) {
	case *parser.NumberTerm:
		if term.Value > 255 {
			return 0, false
		}
		return byte(term.Value), true
	case *parser.CharTerm:
		return term.Letter, true
	case *parser.ParenTerm:
		return foldExpr(term.Expr)
	default:
		return 0, false
	}
}
