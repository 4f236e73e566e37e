package main

import (
	"github.com/holiman/uint256"
	"github.com/meverselabs/ammcore/common/fixed"
	"github.com/meverselabs/ammcore/common/rlog"
	"github.com/meverselabs/ammcore/common/safemath"
	"github.com/meverselabs/ammcore/contract/liquiditymining"
	"github.com/pkg/errors"
)

// FarmConfig describes a single yield farm inside a global farm
type FarmConfig struct {
	Periods            uint64                        `toml:"periods" yaml:"periods"`
	TotalRewards       string                        `toml:"total_rewards" yaml:"total_rewards"`
	YieldPerPeriod     uint64                        `toml:"yield_per_period_perquintill" yaml:"yield_per_period_perquintill"`
	MaxRewardPerPeriod string                        `toml:"max_reward_per_period" yaml:"max_reward_per_period"`
	PriceAdjustment    fixed.FixedU128               `toml:"price_adjustment" yaml:"price_adjustment"`
	Multiplier         fixed.FixedU128               `toml:"multiplier" yaml:"multiplier"`
	Loyalty            *liquiditymining.LoyaltyCurve `toml:"loyalty" yaml:"loyalty"`
	Deposits           []DepositConfig               `toml:"deposits" yaml:"deposits"`
}

// DepositConfig is one position entering the farm at a period
type DepositConfig struct {
	Shares    string `toml:"shares" yaml:"shares"`
	Price     string `toml:"price" yaml:"price"`
	EnteredAt uint64 `toml:"entered_at" yaml:"entered_at"`
}

type farmState struct {
	global   liquiditymining.GlobalFarm
	yield    liquiditymining.YieldFarm
	deposits []liquiditymining.Deposit
	left     *uint256.Int
}

func newFarmState(cfg *FarmConfig) (*farmState, error) {
	total, err := safemath.ParseBalance(cfg.TotalRewards)
	if err != nil {
		return nil, errors.Wrap(err, "total_rewards")
	}
	maxReward, err := safemath.ParseBalance(cfg.MaxRewardPerPeriod)
	if err != nil {
		return nil, errors.Wrap(err, "max_reward_per_period")
	}
	yieldPerPeriod := fixed.Perquintill(cfg.YieldPerPeriod)
	if err := yieldPerPeriod.Validate(); err != nil {
		return nil, err
	}
	if cfg.Loyalty != nil {
		if err := cfg.Loyalty.Validate(); err != nil {
			return nil, err
		}
	}
	multiplier := cfg.Multiplier
	if multiplier.IsZero() {
		multiplier = fixed.One()
	}
	return &farmState{
		global: liquiditymining.GlobalFarm{
			TotalSharesZ:       safemath.Zero(),
			PriceAdjustment:    cfg.PriceAdjustment,
			YieldPerPeriod:     yieldPerPeriod,
			MaxRewardPerPeriod: maxReward,
			PendingRewards:     safemath.Zero(),
			PaidRewards:        safemath.Zero(),
		},
		yield: liquiditymining.YieldFarm{
			Multiplier:        multiplier,
			TotalShares:       safemath.Zero(),
			TotalValuedShares: safemath.Zero(),
		},
		left: total,
	}, nil
}

func (s *farmState) update(now uint64) error {
	g, reward, err := liquiditymining.UpdateGlobalFarm(s.global, now, s.left)
	if err != nil {
		return err
	}
	s.left = new(uint256.Int).Sub(s.left, reward)
	g, y, err := liquiditymining.UpdateYieldFarm(g, s.yield, now)
	if err != nil {
		return err
	}
	s.global, s.yield = g, y
	return nil
}

func (s *farmState) enter(cfg DepositConfig, now uint64) error {
	shares, err := safemath.ParseBalance(cfg.Shares)
	if err != nil {
		return errors.Wrap(err, "deposit shares")
	}
	price, err := safemath.ParseBalance(cfg.Price)
	if err != nil {
		return errors.Wrap(err, "deposit price")
	}
	valued, err := liquiditymining.CalculateValuedShares(shares, price)
	if err != nil {
		return err
	}
	z, err := s.yield.Multiplier.CheckedMulInt(valued)
	if err != nil {
		return err
	}

	var c safemath.Calc
	totalZ := c.Balance(c.Add(s.global.TotalSharesZ, z))
	totalShares := c.Balance(c.Add(s.yield.TotalShares, shares))
	totalValued := c.Balance(c.Add(s.yield.TotalValuedShares, valued))
	if err := c.Err(); err != nil {
		return err
	}
	s.global.TotalSharesZ = totalZ
	s.yield.TotalShares = totalShares
	s.yield.TotalValuedShares = totalValued
	s.deposits = append(s.deposits, liquiditymining.Deposit{
		Shares:          shares,
		ValuedShares:    valued,
		AccumulatedRpvs: s.yield.AccumulatedRpvs,
		ClaimedRewards:  safemath.Zero(),
		EnteredAt:       now,
	})
	rlog.Printf("period %d: deposit %s shares valued %s", now, shares.Dec(), valued.Dec())
	return nil
}

// RunFarm plays the farm period by period and claims every deposit at the end
func RunFarm(cfg *FarmConfig) error {
	s, err := newFarmState(cfg)
	if err != nil {
		return err
	}
	for now := uint64(0); now <= cfg.Periods; now++ {
		if err := s.update(now); err != nil {
			return errors.Wrapf(err, "period %d", now)
		}
		for _, d := range cfg.Deposits {
			if d.EnteredAt != now {
				continue
			}
			if err := s.enter(d, now); err != nil {
				return err
			}
		}
	}
	rlog.Printf("distributed %s, pending %s, left %s", s.global.PaidRewards.Dec(), s.global.PendingRewards.Dec(), s.left.Dec())

	for k, d := range s.deposits {
		claimable, unclaimable, _, err := liquiditymining.ClaimRewards(d, s.yield, cfg.Periods, cfg.Loyalty)
		if err != nil {
			return errors.Wrapf(err, "deposit %d", k)
		}
		rlog.Printf("deposit %d: claimable %s forfeited %s", k, claimable.Dec(), unclaimable.Dec())
	}
	return nil
}
