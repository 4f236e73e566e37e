package safemath

import "github.com/holiman/uint256"

// Calc chains checked operations and keeps the first failure.
// Once an operation fails every later call returns zero and Err reports the failure.
type Calc struct {
	err error
}

func (c *Calc) Err() error {
	return c.err
}

func (c *Calc) fail(err error) *uint256.Int {
	if c.err == nil {
		c.err = err
	}
	return Zero()
}

func (c *Calc) do(f func(a, b *uint256.Int) (*uint256.Int, error), a, b *uint256.Int) *uint256.Int {
	if c.err != nil {
		return Zero()
	}
	r, err := f(a, b)
	if err != nil {
		return c.fail(err)
	}
	return r
}

func (c *Calc) Add(a, b *uint256.Int) *uint256.Int { return c.do(Add, a, b) }
func (c *Calc) Sub(a, b *uint256.Int) *uint256.Int { return c.do(Sub, a, b) }
func (c *Calc) Mul(a, b *uint256.Int) *uint256.Int { return c.do(Mul, a, b) }
func (c *Calc) Div(a, b *uint256.Int) *uint256.Int { return c.do(Div, a, b) }

func (c *Calc) AddC(a *uint256.Int, b uint64) *uint256.Int { return c.Add(a, New(b)) }
func (c *Calc) SubC(a *uint256.Int, b uint64) *uint256.Int { return c.Sub(a, New(b)) }
func (c *Calc) MulC(a *uint256.Int, b uint64) *uint256.Int { return c.Mul(a, New(b)) }

func (c *Calc) MulDiv(a, b, denominator *uint256.Int) *uint256.Int {
	if c.err != nil {
		return Zero()
	}
	r, err := MulDiv(a, b, denominator)
	if err != nil {
		return c.fail(err)
	}
	return r
}

func (c *Calc) Sum(a []*uint256.Int) *uint256.Int {
	if c.err != nil {
		return Zero()
	}
	r, err := Sum(a)
	if err != nil {
		return c.fail(err)
	}
	return r
}

// Balance narrows a to a balance, failing when it does not fit 128 bits
func (c *Calc) Balance(a *uint256.Int) *uint256.Int {
	if c.err != nil {
		return Zero()
	}
	if !IsBalance(a) {
		return c.fail(ErrOverflow)
	}
	return a
}
