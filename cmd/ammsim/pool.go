package main

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/rlog"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/meverselabs/ammcore/contract/stableswap"
	"github.com/pkg/errors"
)

// Apply runs one operation against the pool and updates the pool state
func (p *Pool) Apply(c *stableswap.Curve, op Operation) error {
	switch op.Kind {
	case "sell":
		return p.sell(c, op)
	case "buy":
		return p.buy(c, op)
	case "add":
		return p.add(c, op)
	case "remove":
		return p.remove(op)
	case "remove_one":
		return p.removeOne(c, op)
	case "add_one":
		return p.addOne(c, op)
	case "share_price":
		return p.sharePrice(c, op)
	default:
		return errors.Errorf("unknown operation %q", op.Kind)
	}
}

// Precision is the decimals of the pool's normalized values
func (p *Pool) Precision() uint8 {
	target := uint8(stableswap.TargetPrecision)
	for _, r := range p.Reserves {
		if r.Decimals > target {
			target = r.Decimals
		}
	}
	return target
}

func (p *Pool) shares(op Operation) (*uint256.Int, error) {
	v, err := safemath.ParseBalance(op.Amount)
	if err != nil {
		return nil, errors.Wrapf(err, "%s shares", op.Kind)
	}
	return v, nil
}

func (p *Pool) amount(op Operation, idx int) (*uint256.Int, error) {
	if idx < 0 || idx >= len(p.Reserves) {
		return nil, stableswap.ErrInvalidIndex
	}
	v, err := parseUnits(op.Amount, p.Reserves[idx].Decimals, p.Human)
	if err != nil {
		return nil, errors.Wrapf(err, "%s amount", op.Kind)
	}
	return v, nil
}

func (p *Pool) format(idx int, v *uint256.Int) string {
	return safemath.ToDecimal(v, p.Reserves[idx].Decimals).String() + " " + p.Symbols[idx]
}

func (p *Pool) sell(c *stableswap.Curve, op Operation) error {
	amountIn, err := p.amount(op, op.In)
	if err != nil {
		return err
	}
	amountOut, fee, err := c.CalculateOutGivenInWithFee(p.Reserves, op.In, op.Out, amountIn, p.Amplification, p.Fee)
	if err != nil {
		return err
	}
	if err := p.credit(op.In, amountIn); err != nil {
		return err
	}
	if err := p.debit(op.Out, amountOut); err != nil {
		return err
	}
	rlog.Printf("sell %s for %s (fee %s)", p.format(op.In, amountIn), p.format(op.Out, amountOut), p.format(op.Out, fee))
	return nil
}

func (p *Pool) buy(c *stableswap.Curve, op Operation) error {
	amountOut, err := p.amount(op, op.Out)
	if err != nil {
		return err
	}
	amountIn, fee, err := c.CalculateInGivenOutWithFee(p.Reserves, op.In, op.Out, amountOut, p.Amplification, p.Fee)
	if err != nil {
		return err
	}
	if err := p.credit(op.In, amountIn); err != nil {
		return err
	}
	if err := p.debit(op.Out, amountOut); err != nil {
		return err
	}
	rlog.Printf("buy %s for %s (fee %s)", p.format(op.Out, amountOut), p.format(op.In, amountIn), p.format(op.In, fee))
	return nil
}

func (p *Pool) add(c *stableswap.Curve, op Operation) error {
	amounts, err := p.parseAmounts(op.Amounts)
	if err != nil {
		return err
	}
	updated := stableswap.CloneReserves(p.Reserves)
	for k := range amounts {
		if updated[k].Amount, err = safemath.Add(updated[k].Amount, amounts[k]); err != nil {
			return err
		}
	}
	shares, err := c.CalculateShares(p.Reserves, updated, p.Amplification, p.Issuance, p.Fee)
	if err != nil {
		return err
	}
	if p.Issuance, err = safemath.Add(p.Issuance, shares); err != nil {
		return err
	}
	p.Reserves = updated
	rlog.Printf("add %v minted %s shares", op.Amounts, shares.Dec())
	return nil
}

func (p *Pool) remove(op Operation) error {
	shares, err := p.shares(op)
	if err != nil {
		return err
	}
	amounts, err := stableswap.CalculateWithdrawProportional(p.Reserves, shares, p.Issuance)
	if err != nil {
		return err
	}
	for k := range amounts {
		if err := p.debit(k, amounts[k]); err != nil {
			return err
		}
	}
	p.Issuance = new(uint256.Int).Sub(p.Issuance, shares)
	rlog.Printf("remove %s shares", shares.Dec())
	for k := range amounts {
		rlog.Printf("    %s", p.format(k, amounts[k]))
	}
	return nil
}

func (p *Pool) removeOne(c *stableswap.Curve, op Operation) error {
	shares, err := p.shares(op)
	if err != nil {
		return err
	}
	amountOut, fee, err := c.CalculateWithdrawOneAsset(p.Reserves, shares, op.Asset, p.Issuance, p.Amplification, p.Fee)
	if err != nil {
		return err
	}
	if err := p.debit(op.Asset, amountOut); err != nil {
		return err
	}
	p.Issuance = new(uint256.Int).Sub(p.Issuance, shares)
	rlog.Printf("remove %s shares for %s (fee %s)", shares.Dec(), p.format(op.Asset, amountOut), p.format(op.Asset, fee))
	return nil
}

func (p *Pool) addOne(c *stableswap.Curve, op Operation) error {
	shares, err := p.shares(op)
	if err != nil {
		return err
	}
	amountIn, fee, err := c.CalculateAddOneAsset(p.Reserves, shares, op.Asset, p.Issuance, p.Amplification, p.Fee)
	if err != nil {
		return err
	}
	if err := p.credit(op.Asset, amountIn); err != nil {
		return err
	}
	if p.Issuance, err = safemath.Add(p.Issuance, shares); err != nil {
		return err
	}
	rlog.Printf("add %s for %s shares (fee %s)", p.format(op.Asset, amountIn), shares.Dec(), p.format(op.Asset, fee))
	return nil
}

func (p *Pool) sharePrice(c *stableswap.Curve, op Operation) error {
	num, den, err := c.CalculateSharePrice(p.Reserves, p.Amplification, p.Issuance, op.Asset)
	if err != nil {
		return err
	}
	price := safemath.ToDecimal(num, 0).DivRound(safemath.ToDecimal(den, 0), 18)
	rlog.Printf("share price %s %s", price.String(), p.Symbols[op.Asset])
	return nil
}

func (p *Pool) credit(idx int, v *uint256.Int) error {
	sum, err := safemath.Add(p.Reserves[idx].Amount, v)
	if err != nil {
		return err
	}
	if _, err := safemath.ToBalance(sum); err != nil {
		return err
	}
	p.Reserves[idx].Amount = sum
	return nil
}

func (p *Pool) debit(idx int, v *uint256.Int) error {
	rest, err := safemath.Sub(p.Reserves[idx].Amount, v)
	if err != nil {
		return stableswap.ErrInsufficientReserve
	}
	p.Reserves[idx].Amount = rest
	return nil
}
