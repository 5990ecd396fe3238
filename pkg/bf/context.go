// Package bf generates and executes Brainfuck code. Context is the code
// generator: it tracks the data pointer, hands out scratch cells from a
// stack discipline over the front of the tape, and exposes arithmetic,
// boolean, and control-flow building blocks over cells. Cells hold u8 values
// with wrapping arithmetic, the Brainfuck value domain.
package bf

import (
	"strings"

	"golang.org/x/exp/constraints"
)

type Context struct {
	buf      strings.Builder
	ptr      int
	occupied []bool
}

func NewContext() *Context {
	return &Context{}
}

// Code returns everything emitted so far.
func (c *Context) Code() string {
	return c.buf.String()
}

// Ptr returns the cell the data pointer rests on.
func (c *Context) Ptr() int {
	return c.ptr
}

// Emit appends raw code. Callers pairing brackets by hand must leave the
// data pointer on the loop cell at both ends; WhileNotNull does this for
// you.
func (c *Context) Emit(code string) {
	c.buf.WriteString(code)
}

// StackAlloc reserves the lowest free cell and returns its index. The cell
// contents are whatever a previous user left there; primitives clear their
// targets before use.
func (c *Context) StackAlloc() int {
	for ptr, occupied := range c.occupied {
		if !occupied {
			c.occupied[ptr] = true
			return ptr
		}
	}
	c.occupied = append(c.occupied, true)
	return len(c.occupied) - 1
}

// StackFree releases a cell returned by StackAlloc. Freeing a cell that is
// not allocated is a bug in the caller.
func (c *Context) StackFree(ptr int) {
	if ptr < 0 || ptr >= len(c.occupied) || !c.occupied[ptr] {
		panic("bf: StackFree of unallocated cell")
	}
	c.occupied[ptr] = false
}

func (c *Context) withTemp(f func(ptr int)) {
	ptr := c.StackAlloc()
	f(ptr)
	c.StackFree(ptr)
}

// Seek moves the data pointer to ptr.
func (c *Context) Seek(ptr int) {
	offset := ptr - c.ptr
	direction := ">"
	if offset < 0 {
		direction = "<"
	}

	c.Emit(strings.Repeat(direction, abs(offset)))
	c.ptr = ptr
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func (c *Context) Clear(ptr int) {
	c.Cell(ptr).Clear()
}

func (c *Context) Increment(ptr int) {
	c.Cell(ptr).Increment()
}

func (c *Context) Decrement(ptr int) {
	c.Cell(ptr).Decrement()
}

// WhileNotNull emits a loop that runs the code emitted by f as long as *ptr
// is nonzero. The data pointer is parked on ptr at both bracket ends, so f
// may move it freely.
func (c *Context) WhileNotNull(ptr int, f func()) {
	c.Seek(ptr)
	c.Emit("[")
	f()
	c.Seek(ptr)
	c.Emit("]")
}

// RepeatDestructive runs the code emitted by f *counter times, counting the
// cell down to zero.
func (c *Context) RepeatDestructive(counter int, f func()) {
	c.WhileNotNull(counter, func() {
		f()
		c.Decrement(counter)
	})
}

// Repeat runs the code emitted by f *ptr times, preserving *ptr.
func (c *Context) Repeat(ptr int, f func()) {
	c.withTemp(func(counter int) {
		c.Copy(ptr, counter)
		c.RepeatDestructive(counter, f)
	})
}

// Move transfers *source into *target, zeroing source.
func (c *Context) Move(source, target int) {
	if source == target {
		return
	}

	c.Clear(target)

	c.WhileNotNull(source, func() {
		c.Increment(target)
		c.Decrement(source)
	})
}

// Copy duplicates *source into *target, preserving source.
func (c *Context) Copy(source, target int) {
	if source == target {
		return
	}

	c.withTemp(func(tmp int) {
		c.Clear(target)
		c.Move(source, tmp)
		c.RepeatDestructive(tmp, func() {
			c.Increment(source)
			c.Increment(target)
		})
	})
}

// AddAssign adds *source into *target, preserving source. Wrapping.
func (c *Context) AddAssign(source, target int) {
	if source == target {
		panic("bf: AddAssign with aliased cells")
	}

	c.Repeat(source, func() {
		c.Increment(target)
	})
}

// SubAssign subtracts *source from *target, preserving source. Wrapping.
func (c *Context) SubAssign(source, target int) {
	if source == target {
		panic("bf: SubAssign with aliased cells")
	}

	c.Repeat(source, func() {
		c.Decrement(target)
	})
}

func (c *Context) Add(a, b, target int) {
	c.Copy(b, target)
	c.AddAssign(a, target)
}

func (c *Context) Sub(a, b, target int) {
	c.Copy(a, target)
	c.SubAssign(b, target)
}

// MultiplyAssign multiplies *target by *source, preserving source.
func (c *Context) MultiplyAssign(source, target int) {
	if source == target {
		panic("bf: MultiplyAssign with aliased cells")
	}

	c.withTemp(func(tmp int) {
		c.Move(target, tmp)
		c.RepeatDestructive(tmp, func() {
			c.AddAssign(source, target)
		})
	})
}

func (c *Context) Multiply(a, b, target int) {
	c.Copy(b, target)
	c.MultiplyAssign(a, target)
}

// If runs the code emitted by f when the boolean cell *cond is 1,
// preserving cond. The cell must hold 0 or 1.
func (c *Context) If(cond int, f func()) {
	c.Repeat(cond, f)
}

// IfDestructive is If, but zeroes cond.
func (c *Context) IfDestructive(cond int, f func()) {
	c.RepeatDestructive(cond, f)
}

// IfNot runs the code emitted by f when the boolean cell *cond is 0,
// preserving cond.
func (c *Context) IfNot(cond int, f func()) {
	c.withTemp(func(notCond int) {
		c.Copy(cond, notCond)
		c.Not(notCond)
		c.IfDestructive(notCond, f)
	})
}

// IfElse runs the code emitted by then when *cond is 1 and otherwise when
// it is 0, preserving cond.
func (c *Context) IfElse(cond int, then, otherwise func()) {
	c.withTemp(func(tmpCond int) {
		c.Copy(cond, tmpCond)
		c.If(cond, then)
		c.Not(tmpCond)
		c.IfDestructive(tmpCond, otherwise)
	})
}

// Not inverts the boolean cell *cond in place.
func (c *Context) Not(cond int) {
	c.withTemp(func(isFalse int) {
		c.Cell(isFalse).Set(1)

		c.RepeatDestructive(cond, func() {
			c.Decrement(isFalse)
		})

		c.RepeatDestructive(isFalse, func() {
			c.Increment(cond)
		})
	})
}

func (c *Context) AndAssign(source, target int) {
	c.withTemp(func(tmp int) {
		c.Move(target, tmp)

		c.If(source, func() {
			c.IfDestructive(tmp, func() {
				c.Increment(target)
			})
		})
	})
}

func (c *Context) And(a, b, target int) {
	c.Copy(b, target)
	c.AndAssign(a, target)
}

func (c *Context) OrAssign(source, target int) {
	c.withTemp(func(tmp int) {
		c.Move(target, tmp)

		c.If(source, func() {
			c.Cell(target).AssumeBool(false).SetBool(true)
		})

		c.IfDestructive(tmp, func() {
			c.Cell(target).SetBool(true)
		})
	})
}

func (c *Context) Or(a, b, target int) {
	c.Copy(b, target)
	c.OrAssign(a, target)
}

// EqualsAssign sets *target to 1 if *source == *target else 0, preserving
// source.
func (c *Context) EqualsAssign(source, target int) {
	c.withTemp(func(tmp int) {
		c.Copy(source, tmp)

		c.RepeatDestructive(tmp, func() {
			c.Decrement(target)
		})

		c.IsZeroDestructive(target)
	})
}

func (c *Context) NotEqualsAssign(source, target int) {
	c.EqualsAssign(source, target)
	c.Not(target)
}

func (c *Context) XorAssign(source, target int) {
	c.NotEqualsAssign(source, target)
}

func (c *Context) Xor(a, b, target int) {
	c.Copy(b, target)
	c.XorAssign(a, target)
}

// IsZeroDestructive replaces *value with 1 if it was zero, else 0.
func (c *Context) IsZeroDestructive(value int) {
	c.withTemp(func(isZero int) {
		c.Cell(isZero).SetBool(true)

		c.WhileNotNull(value, func() {
			c.Cell(isZero).AssumeBool(true).SetBool(false)
			c.Cell(value).SetBool(false)
		})

		c.IfDestructive(isZero, func() {
			c.Cell(value).AssumeBool(false).SetBool(true)
		})
	})
}

func (c *Context) IsZero(source, target int) {
	c.Copy(source, target)
	c.IsZeroDestructive(target)
}

// GreaterZeroDestructive replaces *value with 1 if it was nonzero, else 0.
func (c *Context) GreaterZeroDestructive(value int) {
	c.IsZeroDestructive(value)
	c.Not(value)
}

func (c *Context) GreaterZero(source, target int) {
	c.Copy(source, target)
	c.GreaterZeroDestructive(target)
}

// GreaterThan sets *target to 1 if *a > *b else 0, preserving a and b.
// Both operands count down in lockstep, the smaller one saturating at zero;
// a was greater exactly when it has anything left.
func (c *Context) GreaterThan(a, b, target int) {
	c.withTemp(func(ta int) {
		c.withTemp(func(tb int) {
			c.Copy(a, ta)
			c.Copy(b, tb)

			c.WhileNotNull(tb, func() {
				c.Decrement(tb)
				c.withTemp(func(nonzero int) {
					c.GreaterZero(ta, nonzero)
					c.IfDestructive(nonzero, func() {
						c.Decrement(ta)
					})
				})
			})

			c.GreaterZero(ta, target)
		})
	})
}
