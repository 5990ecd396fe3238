// Package interpreter evaluates brainfeed IR programs by walking the AST
// against a single flat environment.
package interpreter

import (
	"context"
	"fmt"
	"math"

	"github.com/brainfeed/brainfeed/pkg/parser"
)

// Config controls host-facing execution policy. The zero value applies no
// limits.
type Config struct {
	// MaxSteps bounds the number of statement executions and loop
	// iterations. Zero means unlimited; exceeding the bound fails the run
	// with ErrExecutionLimit.
	MaxSteps int
}

type Interpreter struct {
	config Config
}

func New(config Config) *Interpreter {
	return &Interpreter{config: config}
}

// Evaluate executes prog against a freshly created empty environment and
// returns the final environment. Evaluation is strictly sequential; the
// context is checked once per loop iteration so hosts can cancel runaway
// while loops.
func Evaluate(ctx context.Context, prog *parser.Program) (*Environment, error) {
	return New(Config{}).Evaluate(ctx, prog)
}

func (i *Interpreter) Evaluate(ctx context.Context, prog *parser.Program) (*Environment, error) {
	env := NewEnvironment()
	if err := i.Run(ctx, prog, env); err != nil {
		return nil, err
	}
	return env, nil
}

// Run executes prog against an existing environment. REPL-style hosts use
// this to carry bindings across inputs; Evaluate is the single-program
// entry point.
func (i *Interpreter) Run(ctx context.Context, prog *parser.Program, env *Environment) error {
	s := &state{config: i.config, env: env}
	return s.executeBlock(ctx, prog.Statements)
}

type state struct {
	config Config
	env    *Environment
	steps  int
}

func (s *state) step() error {
	s.steps++
	if s.config.MaxSteps > 0 && s.steps > s.config.MaxSteps {
		return ErrExecutionLimit
	}
	return nil
}

func (s *state) executeBlock(ctx context.Context, stmts []parser.Statement) error {
	for _, stmt := range stmts {
		if err := s.executeStatement(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) executeStatement(ctx context.Context, stmt parser.Statement) error {
	if err := s.step(); err != nil {
		return err
	}

	switch stmt := stmt.(type) {
	case *parser.DeclStatement:
		var value Value
		if stmt.Value != nil {
			var err error
			value, err = s.evaluateExpr(*stmt.Value)
			if err != nil {
				return err
			}
		}
		s.env.Declare(stmt.Name, value)
		return nil
	case *parser.AssignStatement:
		value, err := s.evaluateExpr(stmt.Value)
		if err != nil {
			return err
		}
		if !s.env.Assign(stmt.Name, value) {
			return &UndefinedVariableError{Name: stmt.Name}
		}
		return nil
	case *parser.AddAssignStatement:
		return s.compoundAssign(stmt.Name, stmt.Value, parser.OpAdd)
	case *parser.SubAssignStatement:
		return s.compoundAssign(stmt.Name, stmt.Value, parser.OpSub)
	case *parser.WhileStatement:
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.step(); err != nil {
				return err
			}

			cond, err := s.evaluateExpr(stmt.Condition)
			if err != nil {
				return err
			}
			if cond == 0 {
				return nil
			}

			if err := s.executeBlock(ctx, stmt.Body); err != nil {
				return err
			}
		}
	case *parser.IfStatement:
		cond, err := s.evaluateExpr(stmt.Condition)
		if err != nil {
			return err
		}
		if cond != 0 {
			return s.executeBlock(ctx, stmt.Body)
		}
		return nil
	default:
		return fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

func (s *state) compoundAssign(name parser.Identifier, expr parser.Expr, op parser.Operator) error {
	current, ok := s.env.Get(name)
	if !ok {
		return &UndefinedVariableError{Name: name}
	}

	value, err := s.evaluateExpr(expr)
	if err != nil {
		return err
	}

	result, err := apply(op, current, value)
	if err != nil {
		return err
	}

	s.env.Assign(name, result)
	return nil
}

// evaluateExpr folds the flat chain left-to-right: the running accumulator
// becomes the left operand of each following operator. `3 + 4 > 2` is
// therefore (3+4) > 2, never 3 + (4>2).
func (s *state) evaluateExpr(expr parser.Expr) (Value, error) {
	acc, err := s.evaluateTerm(expr.First)
	if err != nil {
		return 0, err
	}

	for _, ot := range expr.Rest {
		rhs, err := s.evaluateTerm(ot.Term)
		if err != nil {
			return 0, err
		}

		acc, err = apply(ot.Op, acc, rhs)
		if err != nil {
			return 0, err
		}
	}

	return acc, nil
}

func (s *state) evaluateTerm(term parser.Term) (Value, error) {
	switch term := term.(type) {
	case *parser.NumberTerm:
		return term.Value, nil
	case *parser.VarTerm:
		value, ok := s.env.Get(term.Name)
		if !ok {
			return 0, &UndefinedVariableError{Name: term.Name}
		}
		return value, nil
	case *parser.CharTerm:
		return Value(term.Letter), nil
	case *parser.ParenTerm:
		return s.evaluateExpr(term.Expr)
	default:
		return 0, fmt.Errorf("unhandled term type: %T", term)
	}
}

func apply(op parser.Operator, left, right Value) (Value, error) {
	switch op {
	case parser.OpAdd:
		if (right > 0 && left > math.MaxInt64-right) ||
			(right < 0 && left < math.MinInt64-right) {
			return 0, &ArithmeticOverflowError{Op: op, Left: left, Right: right}
		}
		return left + right, nil
	case parser.OpSub:
		if (right > 0 && left < math.MinInt64+right) ||
			(right < 0 && left > math.MaxInt64+right) {
			return 0, &ArithmeticOverflowError{Op: op, Left: left, Right: right}
		}
		return left - right, nil
	case parser.OpGreater:
		if left > right {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unhandled operator %q", op)
	}
}
