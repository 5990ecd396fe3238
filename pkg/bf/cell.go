package bf

import (
	"strings"
)

// Cell is a builder over a single tape cell. It tracks the cell's value when
// statically known so redundant clears and sets cost nothing. Knowledge is
// local to one builder; take a fresh Cell after emitting code that runs a
// variable number of times.
type Cell struct {
	ctx   *Context
	ptr   int
	value byte
	known bool
}

func (c *Context) Cell(ptr int) *Cell {
	return &Cell{ctx: c, ptr: ptr}
}

// Assume records the cell's current value without emitting anything. The
// caller vouches for it.
func (cl *Cell) Assume(value byte) *Cell {
	cl.value = value
	cl.known = true
	return cl
}

func (cl *Cell) AssumeBool(value bool) *Cell {
	return cl.Assume(boolByte(value))
}

func (cl *Cell) seek() {
	cl.ctx.Seek(cl.ptr)
}

func (cl *Cell) emit(code string) *Cell {
	cl.ctx.Emit(code)
	return cl
}

func (cl *Cell) mapValue(f func(byte) byte) *Cell {
	if cl.known {
		cl.value = f(cl.value)
	}
	return cl
}

func (cl *Cell) Clear() *Cell {
	if cl.known && cl.value == 0 {
		return cl
	}

	cl.seek()
	cl.emit("[-]")
	return cl.Assume(0)
}

func (cl *Cell) Set(value byte) *Cell {
	if cl.known && cl.value == value {
		return cl
	}

	cl.seek()
	cl.Clear()
	return cl.IncrementBy(value)
}

func (cl *Cell) SetBool(value bool) *Cell {
	if cl.known {
		switch cl.value {
		case 0:
			if value {
				return cl.Increment()
			}
			return cl
		case 1:
			if !value {
				return cl.Decrement()
			}
			return cl
		}
	}
	return cl.Set(boolByte(value))
}

func (cl *Cell) Increment() *Cell {
	cl.seek()
	cl.emit("+")
	return cl.mapValue(func(v byte) byte { return v + 1 })
}

func (cl *Cell) IncrementBy(amount byte) *Cell {
	cl.seek()
	cl.emit(strings.Repeat("+", int(amount)))
	return cl.mapValue(func(v byte) byte { return v + amount })
}

func (cl *Cell) Decrement() *Cell {
	cl.seek()
	cl.emit("-")
	return cl.mapValue(func(v byte) byte { return v - 1 })
}

func (cl *Cell) DecrementBy(amount byte) *Cell {
	cl.seek()
	cl.emit(strings.Repeat("-", int(amount)))
	return cl.mapValue(func(v byte) byte { return v - amount })
}

// Print emits the output instruction for this cell.
func (cl *Cell) Print() *Cell {
	cl.seek()
	return cl.emit(".")
}

// Read emits the input instruction; the cell value is unknown afterwards.
func (cl *Cell) Read() *Cell {
	cl.seek()
	cl.known = false
	return cl.emit(",")
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
