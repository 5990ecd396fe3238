package interpreter_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brainfeed/brainfeed/pkg/interpreter"
	"github.com/brainfeed/brainfeed/pkg/parser"
)

func evaluate(t *testing.T, source string) *interpreter.Environment {
	t.Helper()

	prog, err := parser.Parse(source)
	require.NoError(t, err)

	env, err := interpreter.Evaluate(context.Background(), prog)
	require.NoError(t, err)
	return env
}

func bindings(env *interpreter.Environment) map[parser.Identifier]interpreter.Value {
	out := make(map[parser.Identifier]interpreter.Value, env.Len())
	for _, b := range env.Bindings() {
		out[b.Name] = b.Value
	}
	return out
}

func TestEvaluate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		source string
		want   map[parser.Identifier]interpreter.Value
	}{
		{
			"empty program",
			"",
			map[parser.Identifier]interpreter.Value{},
		},
		{
			"declaration without initializer",
			"let x",
			map[parser.Identifier]interpreter.Value{"x": 0},
		},
		{
			"chain folds left",
			"let x = 3 + 4 > 2",
			map[parser.Identifier]interpreter.Value{"x": 1},
		},
		{
			"subtraction is left associative",
			"let x = 10 - 3 - 4",
			map[parser.Identifier]interpreter.Value{"x": 3},
		},
		{
			"parentheses group",
			"let x = 10 - (3 - 4)",
			map[parser.Identifier]interpreter.Value{"x": 11},
		},
		{
			"char literal is its ordinal",
			"let x = 'a' + 1",
			map[parser.Identifier]interpreter.Value{"x": 98},
		},
		{
			"greater yields zero or one",
			"let x = 2 > 5 let y = 5 > 2",
			map[parser.Identifier]interpreter.Value{"x": 0, "y": 1},
		},
		{
			"compound assignments",
			"let x = 5 x += 3 let y = 5 y -= 8",
			map[parser.Identifier]interpreter.Value{"x": 8, "y": -3},
		},
		{
			"redeclaration overwrites",
			"let x = 1 let x = x + 1",
			map[parser.Identifier]interpreter.Value{"x": 2},
		},
		{
			"false while never runs",
			"let x = 0 while x > 5 { x = x + 1 }",
			map[parser.Identifier]interpreter.Value{"x": 0},
		},
		{
			"while counts down",
			"let x = 10 let y = 0 while x { x -= 1 y += 2 }",
			map[parser.Identifier]interpreter.Value{"x": 0, "y": 20},
		},
		{
			"if runs once on truthy condition",
			"let x = 0 if 7 { x += 1 }",
			map[parser.Identifier]interpreter.Value{"x": 1},
		},
		{
			"if skips on zero",
			"let x = 0 if x { x = 99 }",
			map[parser.Identifier]interpreter.Value{"x": 0},
		},
		{
			"negative values",
			"let x = 0 - 5 let y = x > (0 - 10)",
			map[parser.Identifier]interpreter.Value{"x": -5, "y": 1},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := evaluate(t, tc.source)
			require.Equal(t, tc.want, bindings(env))
		})
	}
}

func TestEvaluateUndefinedVariable(t *testing.T) {
	for _, source := range []string{
		"x = 1",
		"x += 3",
		"x -= 3",
		"let y = x + 1",
	} {
		prog, err := parser.Parse(source)
		require.NoError(t, err)

		_, err = interpreter.Evaluate(context.Background(), prog)

		var undefErr *interpreter.UndefinedVariableError
		require.ErrorAs(t, err, &undefErr, "source %q", source)
		require.Equal(t, parser.Identifier("x"), undefErr.Name)
	}
}

// Assignment must never create a binding, even when the evaluated value
// would be discarded anyway.
func TestAssignmentDoesNotDeclare(t *testing.T) {
	prog, err := parser.Parse("x = 1")
	require.NoError(t, err)

	env := interpreter.NewEnvironment()
	err = interpreter.New(interpreter.Config{}).Run(context.Background(), prog, env)
	require.Error(t, err)
	require.Equal(t, 0, env.Len())
}

func TestEvaluateOverflow(t *testing.T) {
	prog, err := parser.Parse("let x = 9223372036854775807 x += 1")
	require.NoError(t, err)

	_, err = interpreter.Evaluate(context.Background(), prog)

	var overflowErr *interpreter.ArithmeticOverflowError
	require.ErrorAs(t, err, &overflowErr)
	require.Equal(t, parser.OpAdd, overflowErr.Op)
	require.Equal(t, interpreter.Value(9223372036854775807), overflowErr.Left)
	require.Equal(t, interpreter.Value(1), overflowErr.Right)
}

func TestEvaluateUnderflow(t *testing.T) {
	prog, err := parser.Parse("let x = 0 - 9223372036854775807 x -= 2")
	require.NoError(t, err)

	_, err = interpreter.Evaluate(context.Background(), prog)

	var overflowErr *interpreter.ArithmeticOverflowError
	require.ErrorAs(t, err, &overflowErr)
	require.Equal(t, parser.OpSub, overflowErr.Op)
}

func TestEvaluateStepLimit(t *testing.T) {
	prog, err := parser.Parse("while 1 { }")
	require.NoError(t, err)

	_, err = interpreter.New(interpreter.Config{MaxSteps: 100}).Evaluate(context.Background(), prog)
	require.ErrorIs(t, err, interpreter.ErrExecutionLimit)
}

func TestEvaluateStepLimitAllowsShortPrograms(t *testing.T) {
	prog, err := parser.Parse("let x = 3 while x { x -= 1 }")
	require.NoError(t, err)

	env, err := interpreter.New(interpreter.Config{MaxSteps: 100}).Evaluate(context.Background(), prog)
	require.NoError(t, err)

	value, ok := env.Get("x")
	require.True(t, ok)
	require.Equal(t, interpreter.Value(0), value)
}

func TestEvaluateCancellation(t *testing.T) {
	prog, err := parser.Parse("while 1 { }")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = interpreter.Evaluate(ctx, prog)
	require.ErrorIs(t, err, context.Canceled)
}

// Run carries bindings across programs, the way a REPL feeds input chunks.
func TestRunPersistsEnvironment(t *testing.T) {
	interp := interpreter.New(interpreter.Config{})
	env := interpreter.NewEnvironment()

	for _, source := range []string{"let x = 5", "x += 3"} {
		prog, err := parser.Parse(source)
		require.NoError(t, err)
		require.NoError(t, interp.Run(context.Background(), prog, env))
	}

	value, ok := env.Get("x")
	require.True(t, ok)
	require.Equal(t, interpreter.Value(8), value)
}

func TestBindingsOrder(t *testing.T) {
	env := evaluate(t, "let b = 1 let a = 2 let b = 3")

	require.Equal(t, []interpreter.Binding{
		{Name: "b", Value: 3},
		{Name: "a", Value: 2},
	}, env.Bindings())
}

func TestEvaluateDeterministic(t *testing.T) {
	source := "let a = 1 let b = 2 while b { a += b b -= 1 }"

	first := evaluate(t, source)
	second := evaluate(t, source)
	require.Equal(t, first.Bindings(), second.Bindings())
}

func TestEvaluateTestdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			require.NoError(t, err)

			source, expected, found := strings.Cut(string(data), "\n---\n")
			require.True(t, found, "testdata file must contain a --- separator")

			env := evaluate(t, source)

			want := []interpreter.Binding{}
			for _, line := range strings.Split(strings.TrimSpace(expected), "\n") {
				name, value, ok := strings.Cut(line, "=")
				require.True(t, ok, "bad expectation line %q", line)

				n, err := strconv.ParseInt(value, 10, 64)
				require.NoError(t, err)
				want = append(want, interpreter.Binding{
					Name:  parser.Identifier(name),
					Value: n,
				})
			}

			require.Equal(t, want, env.Bindings())
		})
	}
}
