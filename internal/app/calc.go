package app

import (
	"fmt"
	"strconv"

	"github.com/sweeney/alarm-clock/internal/keypad"
)

// operators maps keys to arithmetic operators.
var operators = map[rune]byte{
	'A': '+',
	'B': '-',
	'C': '*',
	'D': '/',
}

// Calc is the calculator expression state.
type Calc struct {
	Operand1  int
	Operand2  int
	Op        byte // 0 until an operator key is pressed
	FirstDone bool
	digits1   int
	digits2   int
}

// Push applies one key. When key is KeyConfirm it returns the evaluated
// result with ok=true and a reset Calc. KeyMode is not handled here.
func (c Calc) Push(k rune) (next Calc, result int, ok bool) {
	switch {
	case keypad.IsDigit(k):
		d := int(k - '0')
		if !c.FirstDone {
			if c.digits1 < keypad.MaxDigits {
				c.Operand1 = c.Operand1*10 + d
				c.digits1++
			}
		} else if c.digits2 < keypad.MaxDigits {
			c.Operand2 = c.Operand2*10 + d
			c.digits2++
		}
	case k == keypad.KeyConfirm:
		return Calc{}, c.Eval(), true
	default:
		if op, found := operators[k]; found {
			c.Op = op
			c.FirstDone = true
		}
	}
	return c, 0, false
}

// Eval applies the operator. Division by zero yields zero.
func (c Calc) Eval() int {
	switch c.Op {
	case '+':
		return c.Operand1 + c.Operand2
	case '-':
		return c.Operand1 - c.Operand2
	case '*':
		return c.Operand1 * c.Operand2
	case '/':
		if c.Operand2 == 0 {
			return 0
		}
		return c.Operand1 / c.Operand2
	}
	return c.Operand1
}

// Expr renders the expression typed so far, e.g. "7+3".
func (c Calc) Expr() string {
	s := strconv.Itoa(c.Operand1)
	if !c.FirstDone {
		if c.digits1 == 0 {
			return ""
		}
		return s
	}
	s += string(c.Op)
	if c.digits2 > 0 {
		s += strconv.Itoa(c.Operand2)
	}
	return s
}

// FormatResult renders a result line.
func FormatResult(v int) string {
	return fmt.Sprintf("= %d", v)
}
