// Package compiler translates brainfeed IR programs into Brainfuck.
//
// Each variable lives in one tape cell, allocated per block: while/if bodies
// get their own allocation frame so cells are reclaimed when the block ends.
// The Brainfuck value domain is u8 with wrapping arithmetic, narrower than
// the evaluator's int64; integer literals must fit a cell.
package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brainfeed/brainfeed/pkg/bf"
	"github.com/brainfeed/brainfeed/pkg/parser"
)

type Config struct {
	// NoFold disables constant folding, forcing every expression through
	// cell-by-cell code generation.
	NoFold bool
}

func (c *Config) Validate() error {
	return nil
}

type Compiler struct {
	logger *slog.Logger
	config Config
}

func New(logger *slog.Logger, config Config) (*Compiler, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate compiler config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Compiler{
		logger: logger,
		config: config,
	}, nil
}

// Program is the compilation result: the emitted Brainfuck code and the
// tape cell assigned to each top-level variable, so hosts can read final
// values back off the tape after a run.
type Program struct {
	Code  string
	Cells map[parser.Identifier]int
}

func (c *Compiler) Compile(ctx context.Context, prog *parser.Program) (*Program, error) {
	c.logger.Debug("compiling program", "statements", len(prog.Statements))

	t := &translator{
		config: c.config,
		ctx:    bf.NewContext(),
	}

	root := &scope{}
	for _, stmt := range prog.Statements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := t.compileStatement(root, stmt); err != nil {
			return nil, err
		}
	}

	cells := make(map[parser.Identifier]int, len(root.vars))
	for _, v := range root.vars {
		cells[v.name] = v.ptr
	}

	code := t.ctx.Code()
	c.logger.Debug("emitted brainfuck", "bytes", len(code))

	return &Program{Code: code, Cells: cells}, nil
}
