package bf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVMIncrement(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("+++"))
	require.Equal(t, byte(3), vm.Mem()[0])
}

func TestVMDecrementWraps(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("-"))
	require.Equal(t, byte(255), vm.Mem()[0])
}

func TestVMPointerWraps(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("<"))
	require.Equal(t, MemSize-1, vm.dp)

	require.NoError(t, vm.Run(">"))
	require.Equal(t, 0, vm.dp)
}

func TestVMLoop(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run(">++++++[<+++++++>-]"))
	require.Equal(t, []byte{42, 0}, vm.Mem()[:2])
}

func TestVMNestedLoops(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("[[[]]]"))
}

func TestVMSkipsLoopOnZero(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("[>+++<]>"))
	require.Equal(t, byte(0), vm.Mem()[1])
}

func TestVMUnmatchedClose(t *testing.T) {
	vm := NewVM()
	err := vm.Run("]")

	var bracketErr *UnmatchedBracketError
	require.ErrorAs(t, err, &bracketErr)
	require.Equal(t, byte(']'), bracketErr.Bracket)
	require.Equal(t, 0, bracketErr.Pos)
}

func TestVMUnmatchedOpen(t *testing.T) {
	vm := NewVM()
	err := vm.Run("+[")

	var bracketErr *UnmatchedBracketError
	require.ErrorAs(t, err, &bracketErr)
	require.Equal(t, byte('['), bracketErr.Bracket)
}

func TestVMStepLimit(t *testing.T) {
	vm := NewVM()
	vm.SetMaxSteps(100)
	require.ErrorIs(t, vm.Run("+[]"), ErrStepLimit)
}

func TestVMIgnoresNonCommands(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("+ comment +"))
	require.Equal(t, byte(2), vm.Mem()[0])
}

func TestVMOutput(t *testing.T) {
	var out bytes.Buffer

	vm := NewVM()
	vm.SetIO(nil, &out)
	require.NoError(t, vm.Run(strings.Repeat("+", 'h')+"."+"+."))
	require.Equal(t, "hi", out.String())
}

func TestVMInput(t *testing.T) {
	vm := NewVM()
	vm.SetIO(strings.NewReader("A"), nil)
	require.NoError(t, vm.Run(",+"))
	require.Equal(t, byte('B'), vm.Mem()[0])
}

func TestVMInputWithoutReader(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("+++,"))
	require.Equal(t, byte(0), vm.Mem()[0])
}

func TestVMMemoryPersistsAcrossRuns(t *testing.T) {
	vm := NewVM()
	require.NoError(t, vm.Run("+++"))
	require.NoError(t, vm.Run("++"))
	require.Equal(t, byte(5), vm.Mem()[0])
}
