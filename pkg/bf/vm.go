package bf

import (
	"errors"
	"fmt"
	"io"
)

// MemSize is the tape length in cells. The data pointer wraps at both
// edges.
const MemSize = 30_000

// DefaultMaxSteps bounds one Run call so generated code that loops forever
// fails instead of hanging the host.
const DefaultMaxSteps = 1_000_000

// ErrStepLimit is returned when a Run exceeds the configured step budget.
var ErrStepLimit = errors.New("bf: step limit exceeded")

// UnmatchedBracketError reports a loop bracket with no partner, with the
// byte offset of the offending instruction.
type UnmatchedBracketError struct {
	Bracket byte
	Pos     int
}

func (e *UnmatchedBracketError) Error() string {
	return fmt.Sprintf("bf: unmatched %q at offset %d", e.Bracket, e.Pos)
}

// VM executes Brainfuck code over a fixed tape of u8 cells. Tape contents
// and the data pointer persist across Run calls, so a program can be
// executed piecewise and the tape inspected between runs.
type VM struct {
	mem       [MemSize]byte
	loopStack []int
	ip        int
	dp        int
	steps     int
	maxSteps  int
	in        io.Reader
	out       io.Writer
}

func NewVM() *VM {
	return &VM{maxSteps: DefaultMaxSteps}
}

// SetMaxSteps changes the per-Run step budget. Zero disables the limit.
func (vm *VM) SetMaxSteps(n int) {
	vm.maxSteps = n
}

// SetIO connects the `,` and `.` instructions. A nil reader makes `,` store
// zero; a nil writer makes `.` a no-op.
func (vm *VM) SetIO(in io.Reader, out io.Writer) {
	vm.in = in
	vm.out = out
}

// Mem exposes the tape.
func (vm *VM) Mem() []byte {
	return vm.mem[:]
}

// Run executes code from its beginning. Characters outside the eight
// Brainfuck instructions are ignored.
func (vm *VM) Run(code string) error {
	vm.ip = 0
	vm.steps = 0
	vm.loopStack = vm.loopStack[:0]

	for vm.ip < len(code) {
		switch code[vm.ip] {
		case '<':
			vm.left()
		case '>':
			vm.right()
		case '+':
			vm.increment()
		case '-':
			vm.decrement()
		case '[':
			if err := vm.loopStart(code); err != nil {
				return err
			}
		case ']':
			if err := vm.loopEnd(); err != nil {
				return err
			}
		case '.':
			if err := vm.print(); err != nil {
				return err
			}
		case ',':
			if err := vm.read(); err != nil {
				return err
			}
		default:
			vm.ip++
		}

		vm.steps++
		if vm.maxSteps > 0 && vm.steps > vm.maxSteps {
			return ErrStepLimit
		}
	}

	if len(vm.loopStack) > 0 {
		return &UnmatchedBracketError{Bracket: '[', Pos: vm.loopStack[len(vm.loopStack)-1]}
	}

	return nil
}

func (vm *VM) left() {
	vm.dp += MemSize - 1
	vm.dp %= MemSize
	vm.ip++
}

func (vm *VM) right() {
	vm.dp++
	vm.dp %= MemSize
	vm.ip++
}

func (vm *VM) increment() {
	vm.mem[vm.dp]++
	vm.ip++
}

func (vm *VM) decrement() {
	vm.mem[vm.dp]--
	vm.ip++
}

func (vm *VM) loopStart(code string) error {
	if vm.mem[vm.dp] != 0 {
		vm.loopStack = append(vm.loopStack, vm.ip)
		vm.ip++
		return nil
	}

	// Cell is zero: skip to the matching close bracket.
	start := vm.ip
	unclosed := 1
	for unclosed > 0 {
		vm.ip++
		if vm.ip >= len(code) {
			return &UnmatchedBracketError{Bracket: '[', Pos: start}
		}
		switch code[vm.ip] {
		case '[':
			unclosed++
		case ']':
			unclosed--
		}
	}

	vm.ip++
	return nil
}

func (vm *VM) loopEnd() error {
	if len(vm.loopStack) == 0 {
		return &UnmatchedBracketError{Bracket: ']', Pos: vm.ip}
	}

	vm.ip = vm.loopStack[len(vm.loopStack)-1]
	vm.loopStack = vm.loopStack[:len(vm.loopStack)-1]
	return nil
}

func (vm *VM) print() error {
	if vm.out != nil {
		if _, err := vm.out.Write([]byte{vm.mem[vm.dp]}); err != nil {
			return fmt.Errorf("bf: write output: %w", err)
		}
	}
	vm.ip++
	return nil
}

func (vm *VM) read() error {
	var buf [1]byte
	if vm.in != nil {
		n, err := vm.in.Read(buf[:])
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("bf: read input: %w", err)
		}
		if n == 0 {
			buf[0] = 0
		}
	}
	vm.mem[vm.dp] = buf[0]
	vm.ip++
	return nil
}
