package app

import (
	"context"

	"github.com/sweeney/alarm-clock/internal/keypad"
)

// Calculator runs calculator mode until F is pressed. The expression state
// starts fresh on entry and is dropped on exit.
func (m *Machine) Calculator(ctx context.Context, c Context) (Context, error) {
	c.Calc = Calc{}
	m.show(TextCalculator, TextCalcHelp)

	var result string
	for {
		k, err := m.readKey(ctx)
		if err != nil {
			return c, err
		}
		if k == keypad.KeyMode {
			c.Calc = Calc{}
			return m.setMode(c, ModeNormal), nil
		}

		expr := c.Calc.Expr()
		next, v, evaluated := c.Calc.Push(k)
		c.Calc = next
		if evaluated {
			result = FormatResult(v)
			m.show(expr, result)
			continue
		}
		if next.Expr() != expr || result != "" {
			result = ""
			m.show(next.Expr(), "")
		}
	}
}
